package chat

import (
	"context"
	"errors"
)

var (
	// ErrUnknownMessage — сообщение уже удалено на стороне платформы.
	ErrUnknownMessage = errors.New("unknown message")
	// ErrUnknownChannel — канал не найден или недоступен боту.
	ErrUnknownChannel = errors.New("unknown channel")
)

// MessageRef указывает на сообщение в канале.
type MessageRef struct {
	ChannelID string
	MessageID string
}

func (r MessageRef) IsZero() bool {
	return r.MessageID == ""
}

// Forward — пересылка сообщения из другого канала.
type Forward struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// Poll — опрос с одним вариантом ответа.
type Poll struct {
	Question         string
	Answers          []string
	AllowMultiselect bool
	DurationHours    int
}

// Outgoing — исходящее сообщение. Заполняется одно из Content/Forward/Poll,
// ReplyTo можно добавить к Content.
type Outgoing struct {
	Content string
	ReplyTo *MessageRef
	Forward *Forward
	Poll    *Poll
}

// Message — входящее сообщение в нейтральном виде.
type Message struct {
	ID          string
	ChannelID   string
	GuildID     string
	AuthorID    string
	AuthorIsBot bool
	// IsMember — автор пришёл как участник гильдии, а не просто пользователь.
	IsMember    bool
	AuthorRoles []string
	TextChannel bool
	Content     string
}

func (m Message) Ref() MessageRef {
	return MessageRef{ChannelID: m.ChannelID, MessageID: m.ID}
}

func (m Message) HasRole(roleID string) bool {
	for _, r := range m.AuthorRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// Deletion — событие удаления сообщения. AuthorID пуст, если платформа
// не знала содержимое сообщения.
type Deletion struct {
	ChannelID string
	MessageID string
	AuthorID  string
}

// Chat — исходящие операции. Каждая возвращает ошибку, решение принимает вызывающий.
type Chat interface {
	Send(ctx context.Context, channelID string, out Outgoing) (MessageRef, error)
	Delete(ctx context.Context, ref MessageRef) error
	React(ctx context.Context, ref MessageRef, emoji string) error
	ResolveChannel(ctx context.Context, channelID string) error
}

// Notifier — дополнительное оповещение модераторов вне Discord.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) error { return nil }

// NopNotifier ничего не отправляет.
var NopNotifier Notifier = nopNotifier{}
