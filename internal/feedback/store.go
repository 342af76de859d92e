package feedback

import (
	"context"
	"sync"

	"go-discord-whitelist-bot/internal/chat"
)

// State — состояние автора: NoFeedback или ErrorPending.
type State interface {
	isState()
}

// NoFeedback — у автора нет нашего сообщения-ошибки.
type NoFeedback struct{}

// ErrorPending — у автора висит наше сообщение-ошибка.
type ErrorPending struct {
	Message chat.MessageRef
}

func (NoFeedback) isState()   {}
func (ErrorPending) isState() {}

// Store хранит не больше одной записи на автора.
type Store interface {
	Get(ctx context.Context, authorID string) (State, error)
	Set(ctx context.Context, authorID string, ref chat.MessageRef) error
	Clear(ctx context.Context, authorID string) error
}

// MemoryStore живёт до перезапуска процесса. Последняя запись побеждает.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]chat.MessageRef
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]chat.MessageRef)}
}

func (s *MemoryStore) Get(_ context.Context, authorID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.entries[authorID]; ok {
		return ErrorPending{Message: ref}, nil
	}
	return NoFeedback{}, nil
}

func (s *MemoryStore) Set(_ context.Context, authorID string, ref chat.MessageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[authorID] = ref
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, authorID)
	return nil
}

// Len — для тестов и логов.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
