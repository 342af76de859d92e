package bot

import (
	"context"
	"sync"
	"time"
)

// VoteLog помнит, к чьей анкете относится сообщение в канале голосования.
// Сообщения там пишет сам бот, поэтому автор события удаления не подходит.
type VoteLog interface {
	Record(ctx context.Context, messageID, authorID, username string, at time.Time) error
	Author(ctx context.Context, messageID string) (string, bool, error)
	Prune(ctx context.Context, before time.Time) (int, error)
}

type voteEntry struct {
	authorID string
	username string
	at       time.Time
}

// MemoryVoteLog — VoteLog в памяти процесса.
type MemoryVoteLog struct {
	mu      sync.Mutex
	entries map[string]voteEntry
}

func NewMemoryVoteLog() *MemoryVoteLog {
	return &MemoryVoteLog{entries: make(map[string]voteEntry)}
}

func (l *MemoryVoteLog) Record(_ context.Context, messageID, authorID, username string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[messageID] = voteEntry{authorID: authorID, username: username, at: at}
	return nil
}

func (l *MemoryVoteLog) Author(_ context.Context, messageID string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[messageID]
	return e.authorID, ok, nil
}

func (l *MemoryVoteLog) Prune(_ context.Context, before time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for id, e := range l.entries {
		if e.at.Before(before) {
			delete(l.entries, id)
			count++
		}
	}
	return count, nil
}
