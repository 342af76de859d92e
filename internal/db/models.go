package db

import (
	"gorm.io/gorm"
)

// FeedbackEntry — последнее сообщение-ошибка бота для автора.
type FeedbackEntry struct {
	gorm.Model
	AuthorID  string `gorm:"uniqueIndex"`
	ChannelID string
	MessageID string
}

// VoteRecord связывает сообщение в канале голосования с автором анкеты.
type VoteRecord struct {
	gorm.Model
	MessageID string `gorm:"uniqueIndex"`
	AuthorID  string `gorm:"index"`
	Username  string
}
