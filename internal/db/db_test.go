package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/feedback"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func TestFeedbackStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewFeedbackStore(openTestDB(t))

	st, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(feedback.NoFeedback); !ok {
		t.Fatalf("want NoFeedback, got %T", st)
	}

	first := chat.MessageRef{ChannelID: "c", MessageID: "1"}
	second := chat.MessageRef{ChannelID: "c", MessageID: "2"}
	if err := s.Set(ctx, "alice", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "alice", second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	st, err = s.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	p, ok := st.(feedback.ErrorPending)
	if !ok || p.Message != second {
		t.Fatalf("want ErrorPending(%v), got %#v", second, st)
	}

	var count int64
	s.db.Model(&FeedbackEntry{}).Where("author_id = ?", "alice").Count(&count)
	if count != 1 {
		t.Errorf("rows for alice = %d, want 1", count)
	}

	if err := s.Clear(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	st, _ = s.Get(ctx, "alice")
	if _, ok := st.(feedback.NoFeedback); !ok {
		t.Errorf("want NoFeedback after clear, got %T", st)
	}

	// после жёсткого удаления запись можно создать снова
	if err := s.Set(ctx, "alice", first); err != nil {
		t.Errorf("set after clear: %v", err)
	}
}

func TestFeedbackStore_WithTracker(t *testing.T) {
	ctx := context.Background()
	fc := newRecordingDeleter()
	tr := feedback.NewTracker(NewFeedbackStore(openTestDB(t)), fc, nil)

	tr.RecordError(ctx, "alice", chat.MessageRef{ChannelID: "c", MessageID: "1"})
	tr.RecordError(ctx, "alice", chat.MessageRef{ChannelID: "c", MessageID: "2"})

	if len(fc.deleted) != 1 || fc.deleted[0].MessageID != "1" {
		t.Errorf("deleted = %v, want [1]", fc.deleted)
	}
}

func TestVoteStore(t *testing.T) {
	ctx := context.Background()
	s := NewVoteStore(openTestDB(t))

	old := time.Now().Add(-100 * time.Hour)
	if err := s.Record(ctx, "fwd1", "alice", "Steve", old); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "poll1", "alice", "Steve", old); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "fwd2", "bob", "Bob", time.Now()); err != nil {
		t.Fatal(err)
	}
	// повторная запись не ошибка
	if err := s.Record(ctx, "fwd2", "bob", "Bob", time.Now()); err != nil {
		t.Fatalf("duplicate record: %v", err)
	}

	author, ok, err := s.Author(ctx, "poll1")
	if err != nil || !ok || author != "alice" {
		t.Fatalf("Author(poll1) = %q %v %v", author, ok, err)
	}
	if _, ok, _ := s.Author(ctx, "missing"); ok {
		t.Error("unknown message must not resolve")
	}

	n, err := s.Prune(ctx, time.Now().Add(-96*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
	if _, ok, _ := s.Author(ctx, "fwd1"); ok {
		t.Error("pruned record must be gone")
	}
	if _, ok, _ := s.Author(ctx, "fwd2"); !ok {
		t.Error("fresh record must survive")
	}
}

type recordingDeleter struct {
	deleted []chat.MessageRef
}

func newRecordingDeleter() *recordingDeleter {
	return &recordingDeleter{}
}

func (r *recordingDeleter) Delete(_ context.Context, ref chat.MessageRef) error {
	r.deleted = append(r.deleted, ref)
	return nil
}
