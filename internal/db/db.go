package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open открывает sqlite-базу и мигрирует таблицы.
func Open(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к базе %s: %w", path, err)
	}

	if err := conn.AutoMigrate(&FeedbackEntry{}, &VoteRecord{}); err != nil {
		return nil, fmt.Errorf("миграция таблиц: %w", err)
	}

	log.Printf("✅ База данных %s инициализирована", path)
	return conn, nil
}
