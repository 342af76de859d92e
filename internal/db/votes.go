package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteStore — журнал голосований поверх gorm.
type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

func (s *VoteStore) Record(ctx context.Context, messageID, authorID, username string, at time.Time) error {
	rec := VoteRecord{MessageID: messageID, AuthorID: authorID, Username: username}
	rec.CreatedAt = at
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// Author возвращает автора анкеты, к которой относится сообщение.
func (s *VoteStore) Author(ctx context.Context, messageID string) (string, bool, error) {
	var rec VoteRecord
	err := s.db.WithContext(ctx).Where("message_id = ?", messageID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.AuthorID, true, nil
}

// Prune удаляет записи старше before, возвращает количество удалённых.
func (s *VoteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	res := s.db.WithContext(ctx).Unscoped().Where("created_at < ?", before).Delete(&VoteRecord{})
	return int(res.RowsAffected), res.Error
}
