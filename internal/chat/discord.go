package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// EventHandler получает входящие события в нейтральном виде.
type EventHandler interface {
	HandleMessageCreate(ctx context.Context, m Message)
	HandleMessageUpdate(ctx context.Context, m Message)
	HandleMessageDelete(ctx context.Context, d Deletion)
}

// Discord — реализация Chat поверх discordgo.
type Discord struct {
	s       *discordgo.Session
	guildID string
}

func NewDiscord(s *discordgo.Session, guildID string) *Discord {
	return &Discord{s: s, guildID: guildID}
}

// Intents — события, которые нужны боту. IntentGuilds наполняет State
// каналами, без него не работает кэш сообщений и тип канала ищется через REST.
const Intents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildMembers |
	discordgo.IntentMessageContent

// Channels — каналы, события которых передаются обработчику.
type Channels struct {
	Applications string
	Votes        string
}

// Register подписывает обработчик на события сессии. discordgo вызывает
// каждый обработчик в своей горутине, так что анкеты обрабатываются параллельно.
// События из других каналов отбрасываются до обращения к State и REST.
func (d *Discord) Register(ctx context.Context, h EventHandler, ch Channels) {
	r := &router{d: d, h: h, ctx: ctx, ch: ch}
	d.s.AddHandler(r.messageCreate)
	d.s.AddHandler(r.messageUpdate)
	d.s.AddHandler(r.messageDelete)
}

type router struct {
	d   *Discord
	h   EventHandler
	ctx context.Context
	ch  Channels
}

func (r *router) messageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Message == nil || e.ChannelID != r.ch.Applications {
		return
	}
	r.h.HandleMessageCreate(r.ctx, r.d.convert(r.ctx, e.Message))
}

func (r *router) messageUpdate(_ *discordgo.Session, e *discordgo.MessageUpdate) {
	if e.Message == nil || e.Author == nil || e.ChannelID != r.ch.Applications {
		return
	}
	r.h.HandleMessageUpdate(r.ctx, r.d.convert(r.ctx, e.Message))
}

func (r *router) messageDelete(_ *discordgo.Session, e *discordgo.MessageDelete) {
	if e.Message == nil || e.ChannelID != r.ch.Votes {
		return
	}
	r.h.HandleMessageDelete(r.ctx, toDeletion(e))
}

func (d *Discord) Send(ctx context.Context, channelID string, out Outgoing) (MessageRef, error) {
	msg, err := d.s.ChannelMessageSendComplex(channelID, buildMessageSend(d.guildID, out), discordgo.WithContext(ctx))
	if err != nil {
		return MessageRef{}, mapError(err)
	}
	return MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (d *Discord) Delete(ctx context.Context, ref MessageRef) error {
	if err := d.s.ChannelMessageDelete(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)); err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) React(ctx context.Context, ref MessageRef, emoji string) error {
	if err := d.s.MessageReactionAdd(ref.ChannelID, ref.MessageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) ResolveChannel(ctx context.Context, channelID string) error {
	if _, err := d.s.State.Channel(channelID); err == nil {
		return nil
	}
	if _, err := d.s.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w %s: %v", ErrUnknownChannel, channelID, err)
	}
	return nil
}

// convert дополняет сообщение данными о канале и участнике, которых
// может не быть в самом событии (например, при редактировании).
func (d *Discord) convert(ctx context.Context, m *discordgo.Message) Message {
	textChannel := d.channelType(ctx, m.ChannelID) == discordgo.ChannelTypeGuildText
	member := m.Member
	if member == nil && m.GuildID != "" && m.Author != nil {
		member = d.member(ctx, m.GuildID, m.Author.ID)
	}
	return toMessage(m, textChannel, member)
}

func (d *Discord) channelType(ctx context.Context, channelID string) discordgo.ChannelType {
	if ch, err := d.s.State.Channel(channelID); err == nil {
		return ch.Type
	}
	ch, err := d.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("⚠️ Не удалось получить канал %s: %v", channelID, err)
		return -1
	}
	return ch.Type
}

func (d *Discord) member(ctx context.Context, guildID, userID string) *discordgo.Member {
	if m, err := d.s.State.Member(guildID, userID); err == nil {
		return m
	}
	m, err := d.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil
	}
	return m
}

func toMessage(m *discordgo.Message, textChannel bool, member *discordgo.Member) Message {
	out := Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		TextChannel: textChannel,
		Content:     m.Content,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
		out.AuthorIsBot = m.Author.Bot
	}
	if member != nil {
		out.IsMember = true
		out.AuthorRoles = append([]string(nil), member.Roles...)
	}
	return out
}

func toDeletion(e *discordgo.MessageDelete) Deletion {
	del := Deletion{ChannelID: e.ChannelID, MessageID: e.ID}
	if e.BeforeDelete != nil && e.BeforeDelete.Author != nil {
		del.AuthorID = e.BeforeDelete.Author.ID
	}
	return del
}

func buildMessageSend(guildID string, out Outgoing) *discordgo.MessageSend {
	data := &discordgo.MessageSend{Content: out.Content}
	switch {
	case out.Forward != nil:
		data.Reference = &discordgo.MessageReference{
			Type:      discordgo.MessageReferenceTypeForward,
			MessageID: out.Forward.MessageID,
			ChannelID: out.Forward.ChannelID,
			GuildID:   out.Forward.GuildID,
		}
	case out.ReplyTo != nil:
		data.Reference = &discordgo.MessageReference{
			MessageID: out.ReplyTo.MessageID,
			ChannelID: out.ReplyTo.ChannelID,
			GuildID:   guildID,
		}
	}
	if out.Poll != nil {
		data.Poll = toPoll(out.Poll)
	}
	return data
}

func toPoll(p *Poll) *discordgo.Poll {
	answers := make([]discordgo.PollAnswer, 0, len(p.Answers))
	for _, a := range p.Answers {
		answers = append(answers, discordgo.PollAnswer{Media: &discordgo.PollMedia{Text: a}})
	}
	return &discordgo.Poll{
		Question:         discordgo.PollMedia{Text: p.Question},
		Answers:          answers,
		AllowMultiselect: p.AllowMultiselect,
		LayoutType:       discordgo.PollLayoutTypeDefault,
		Duration:         p.DurationHours,
	}
}

func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return err
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMessage:
		return fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	case discordgo.ErrCodeUnknownChannel:
		return fmt.Errorf("%w: %v", ErrUnknownChannel, err)
	}
	return err
}
