package testutil

import (
	"context"
	"fmt"
	"sync"

	"go-discord-whitelist-bot/internal/chat"
)

// SentMessage — запись об отправленном сообщении.
type SentMessage struct {
	Ref chat.MessageRef
	Out chat.Outgoing
}

// Reaction — запись о поставленной реакции.
type Reaction struct {
	Ref   chat.MessageRef
	Emoji string
}

// FakeChat — chat.Chat в памяти, запоминает все вызовы.
type FakeChat struct {
	mu     sync.Mutex
	nextID int
	live   map[chat.MessageRef]chat.Outgoing

	Sent      []SentMessage
	Deleted   []chat.MessageRef
	Reactions []Reaction

	// MissingChannels — каналы, которые ResolveChannel не находит.
	MissingChannels map[string]bool
	// FailSend, если задан, может вернуть ошибку для конкретной отправки.
	FailSend func(channelID string, out chat.Outgoing) error
	// FailDelete возвращается из Delete вместо удаления.
	FailDelete error
	// FailReact возвращается из React.
	FailReact error
}

func NewFakeChat() *FakeChat {
	return &FakeChat{live: make(map[chat.MessageRef]chat.Outgoing)}
}

func (f *FakeChat) Send(_ context.Context, channelID string, out chat.Outgoing) (chat.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSend != nil {
		if err := f.FailSend(channelID, out); err != nil {
			return chat.MessageRef{}, err
		}
	}
	f.nextID++
	ref := chat.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("m%d", f.nextID)}
	f.live[ref] = out
	f.Sent = append(f.Sent, SentMessage{Ref: ref, Out: out})
	return ref, nil
}

func (f *FakeChat) Delete(_ context.Context, ref chat.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete != nil {
		return f.FailDelete
	}
	if _, ok := f.live[ref]; !ok {
		return fmt.Errorf("%w: %s", chat.ErrUnknownMessage, ref.MessageID)
	}
	delete(f.live, ref)
	f.Deleted = append(f.Deleted, ref)
	return nil
}

func (f *FakeChat) React(_ context.Context, ref chat.MessageRef, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailReact != nil {
		return f.FailReact
	}
	f.Reactions = append(f.Reactions, Reaction{Ref: ref, Emoji: emoji})
	return nil
}

func (f *FakeChat) ResolveChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MissingChannels[channelID] {
		return fmt.Errorf("%w %s", chat.ErrUnknownChannel, channelID)
	}
	return nil
}

// Seed кладёт «чужое» сообщение в канал, например анкету пользователя.
func (f *FakeChat) Seed(ref chat.MessageRef, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[ref] = chat.Outgoing{Content: content}
}

// Exists — есть ли сообщение в истории.
func (f *FakeChat) Exists(ref chat.MessageRef) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.live[ref]
	return ok
}

// Live возвращает живые сообщения бота в канале.
func (f *FakeChat) Live(channelID string) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, s := range f.Sent {
		if s.Ref.ChannelID != channelID {
			continue
		}
		if _, ok := f.live[s.Ref]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Remove удаляет сообщение «мимо бота», как это сделал бы модератор.
func (f *FakeChat) Remove(ref chat.MessageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.live, ref)
}
