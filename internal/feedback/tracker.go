package feedback

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/metrics"
)

// Deleter — часть chat.Chat, нужная трекеру.
type Deleter interface {
	Delete(ctx context.Context, ref chat.MessageRef) error
}

// Tracker следит, чтобы у каждого автора было не больше одного нашего
// сообщения-ошибки: старое удаляется до того, как запись заменяется или стирается.
// Ошибки транспорта логируются и не пробрасываются; наружу уходят только
// ошибки хранилища.
type Tracker struct {
	store   Store
	chat    Deleter
	metrics *metrics.Metrics
}

func NewTracker(store Store, d Deleter, m *metrics.Metrics) *Tracker {
	return &Tracker{store: store, chat: d, metrics: m}
}

func (t *Tracker) State(ctx context.Context, authorID string) (State, error) {
	return t.store.Get(ctx, authorID)
}

// RecordError запоминает новое сообщение-ошибку, удаляя предыдущее.
func (t *Tracker) RecordError(ctx context.Context, authorID string, ref chat.MessageRef) error {
	st, err := t.store.Get(ctx, authorID)
	if err != nil {
		return fmt.Errorf("feedback get %s: %w", authorID, err)
	}
	if p, ok := st.(ErrorPending); ok && p.Message != ref {
		t.deleteMessage(ctx, p.Message)
	}
	if err := t.store.Set(ctx, authorID, ref); err != nil {
		return fmt.Errorf("feedback set %s: %w", authorID, err)
	}
	t.metrics.Feedback("posted")
	return nil
}

// ClearOnSuccess убирает устаревшую ошибку после успешной анкеты.
func (t *Tracker) ClearOnSuccess(ctx context.Context, authorID string) error {
	return t.clear(ctx, authorID)
}

// ClearOnExternalDeletion срабатывает, когда в канале голосования удалили
// сообщение, относящееся к анкете автора.
func (t *Tracker) ClearOnExternalDeletion(ctx context.Context, authorID string) error {
	return t.clear(ctx, authorID)
}

func (t *Tracker) clear(ctx context.Context, authorID string) error {
	st, err := t.store.Get(ctx, authorID)
	if err != nil {
		return fmt.Errorf("feedback get %s: %w", authorID, err)
	}
	switch st := st.(type) {
	case NoFeedback:
		return nil
	case ErrorPending:
		t.deleteMessage(ctx, st.Message)
	}
	if err := t.store.Clear(ctx, authorID); err != nil {
		return fmt.Errorf("feedback clear %s: %w", authorID, err)
	}
	return nil
}

func (t *Tracker) deleteMessage(ctx context.Context, ref chat.MessageRef) {
	err := t.chat.Delete(ctx, ref)
	switch {
	case err == nil:
		t.metrics.Feedback("deleted")
	case errors.Is(err, chat.ErrUnknownMessage):
		// уже удалено кем-то другим
		t.metrics.Feedback("already_gone")
	default:
		log.Printf("❌ Ошибка удаления сообщения %s/%s: %v", ref.ChannelID, ref.MessageID, err)
	}
}
