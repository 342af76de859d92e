package db

import (
	"context"
	"errors"

	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/feedback"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedbackStore — feedback.Store поверх gorm.
type FeedbackStore struct {
	db *gorm.DB
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

func (s *FeedbackStore) Get(ctx context.Context, authorID string) (feedback.State, error) {
	var e FeedbackEntry
	err := s.db.WithContext(ctx).Where("author_id = ?", authorID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return feedback.NoFeedback{}, nil
	}
	if err != nil {
		return nil, err
	}
	return feedback.ErrorPending{Message: chat.MessageRef{ChannelID: e.ChannelID, MessageID: e.MessageID}}, nil
}

func (s *FeedbackStore) Set(ctx context.Context, authorID string, ref chat.MessageRef) error {
	e := FeedbackEntry{AuthorID: authorID, ChannelID: ref.ChannelID, MessageID: ref.MessageID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "author_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_id", "message_id", "updated_at"}),
	}).Create(&e).Error
}

func (s *FeedbackStore) Clear(ctx context.Context, authorID string) error {
	return s.db.WithContext(ctx).Unscoped().Where("author_id = ?", authorID).Delete(&FeedbackEntry{}).Error
}
