package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-discord-whitelist-bot/internal/application"
	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/constants"
	"go-discord-whitelist-bot/internal/utils"
)

// VoteResult — что из голосования успели опубликовать.
type VoteResult struct {
	Forward  chat.MessageRef
	Poll     chat.MessageRef
	BackLink chat.MessageRef
	// Link — ссылка на пересланную анкету в канале голосования.
	Link string
}

// Published — опрос создан, остальное вторично.
func (r VoteResult) Published() bool {
	return !r.Poll.IsZero()
}

// NewApplicationPoll — опрос «Да/Нет» по нику заявителя.
func NewApplicationPoll(username string, durationHours int) chat.Poll {
	question := username
	if question == "" {
		question = constants.PollFallbackTitle
	}
	return chat.Poll{
		Question:         question,
		Answers:          []string{constants.PollAnswerYes, constants.PollAnswerNo},
		AllowMultiselect: false,
		DurationHours:    durationHours,
	}
}

// Publisher выкладывает анкету на голосование.
type Publisher struct {
	chat          chat.Chat
	votes         VoteLog
	guildID       string
	voteChannelID string
	pollDuration  int
	now           func() time.Time
}

func NewPublisher(c chat.Chat, votes VoteLog, guildID, voteChannelID string, pollDurationHours int) *Publisher {
	return &Publisher{
		chat:          c,
		votes:         votes,
		guildID:       guildID,
		voteChannelID: voteChannelID,
		pollDuration:  pollDurationHours,
		now:           time.Now,
	}
}

// Publish: пересылка анкеты → опрос → обратная ссылка в канал анкет.
// Обратная ссылка ведёт на пересланную анкету, а не на опрос.
// Откат при частичной ошибке не делается: возвращается то, что успели отправить,
// и первая ошибка.
func (p *Publisher) Publish(ctx context.Context, original chat.Message, app application.Application) (VoteResult, error) {
	var res VoteResult

	if err := p.chat.ResolveChannel(ctx, p.voteChannelID); err != nil {
		return res, fmt.Errorf("канал голосования: %w", err)
	}

	poll := NewApplicationPoll(app.Username, p.pollDuration)

	fwd, err := p.chat.Send(ctx, p.voteChannelID, chat.Outgoing{Forward: &chat.Forward{
		GuildID:   p.guildID,
		ChannelID: original.ChannelID,
		MessageID: original.ID,
	}})
	if err != nil {
		return res, fmt.Errorf("пересылка анкеты: %w", err)
	}
	res.Forward = fwd
	res.Link = utils.MessageLink(p.guildID, fwd.ChannelID, fwd.MessageID)
	p.record(ctx, fwd, original.AuthorID, app.Username)

	pollRef, err := p.chat.Send(ctx, p.voteChannelID, chat.Outgoing{Poll: &poll})
	if err != nil {
		return res, fmt.Errorf("отправка опроса: %w", err)
	}
	res.Poll = pollRef
	p.record(ctx, pollRef, original.AuthorID, app.Username)

	back, err := p.chat.Send(ctx, original.ChannelID, chat.Outgoing{
		Content: fmt.Sprintf(constants.MsgBackLink, poll.Question, res.Link),
	})
	if err != nil {
		return res, fmt.Errorf("обратная ссылка: %w", err)
	}
	res.BackLink = back
	return res, nil
}

func (p *Publisher) record(ctx context.Context, ref chat.MessageRef, authorID, username string) {
	if err := p.votes.Record(ctx, ref.MessageID, authorID, username, p.now()); err != nil {
		log.Printf("⚠️ Не удалось записать голосование %s: %v", ref.MessageID, err)
	}
}
