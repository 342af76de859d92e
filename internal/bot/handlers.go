package bot

import (
	"context"
	"fmt"
	"log"

	"go-discord-whitelist-bot/internal/application"
	"go-discord-whitelist-bot/internal/chat"
	"go-discord-whitelist-bot/internal/constants"
	"go-discord-whitelist-bot/internal/feedback"
	"go-discord-whitelist-bot/internal/metrics"
	"go-discord-whitelist-bot/internal/utils"

	"github.com/google/uuid"
)

// Config — идентификаторы гильдии, каналов и роли.
type Config struct {
	GuildID              string
	ApplicationChannelID string
	VoteChannelID        string
	WhitelistedRoleID    string
	PollDurationHours    int
}

// Handler принимает события чата и ведёт анкету от разбора до голосования.
type Handler struct {
	cfg       Config
	chat      chat.Chat
	validator application.Validator
	tracker   *feedback.Tracker
	publisher *Publisher
	votes     VoteLog
	notifier  chat.Notifier
	metrics   *metrics.Metrics
}

func NewHandler(
	cfg Config,
	c chat.Chat,
	v application.Validator,
	store feedback.Store,
	votes VoteLog,
	n chat.Notifier,
	m *metrics.Metrics,
) *Handler {
	if n == nil {
		n = chat.NopNotifier
	}
	return &Handler{
		cfg:       cfg,
		chat:      c,
		validator: v,
		tracker:   feedback.NewTracker(store, c, m),
		publisher: NewPublisher(c, votes, cfg.GuildID, cfg.VoteChannelID, cfg.PollDurationHours),
		votes:     votes,
		notifier:  n,
		metrics:   m,
	}
}

func (h *Handler) HandleMessageCreate(ctx context.Context, m chat.Message) {
	if !h.isApplication(m) {
		return
	}
	h.processApplication(ctx, m)
}

// HandleMessageUpdate пропускает уже принятых: платформа повторно присылает
// правки их старых анкет.
func (h *Handler) HandleMessageUpdate(ctx context.Context, m chat.Message) {
	if !h.isApplication(m) {
		return
	}
	if m.HasRole(h.cfg.WhitelistedRoleID) {
		return
	}
	h.processApplication(ctx, m)
}

// HandleMessageDelete убирает висящую ошибку автора, если удалили сообщение
// его голосования.
func (h *Handler) HandleMessageDelete(ctx context.Context, d chat.Deletion) {
	if d.ChannelID != h.cfg.VoteChannelID {
		return
	}
	authorID, ok, err := h.votes.Author(ctx, d.MessageID)
	if err != nil {
		log.Printf("⚠️ Ошибка поиска голосования %s: %v", d.MessageID, err)
	}
	if !ok {
		authorID = d.AuthorID
	}
	if authorID == "" {
		return
	}
	if err := h.tracker.ClearOnExternalDeletion(ctx, authorID); err != nil {
		log.Printf("❌ Ошибка очистки сообщений автора %s: %v", authorID, err)
	}
}

func (h *Handler) isApplication(m chat.Message) bool {
	return m.IsMember &&
		m.TextChannel &&
		m.ChannelID == h.cfg.ApplicationChannelID &&
		!m.AuthorIsBot &&
		utils.HasApplicationHeader(utils.NormalizeContent(m.Content))
}

func (h *Handler) processApplication(ctx context.Context, m chat.Message) {
	id := uuid.NewString()[:8]

	normalized := utils.NormalizeContent(m.Content)
	if m.ChannelID != h.cfg.ApplicationChannelID || !utils.HasApplicationHeader(normalized) {
		return
	}

	app := application.Parse(ctx, utils.StripMarkup(m.Content), h.validator)
	if !app.IsValid() {
		h.metrics.Application("rejected")
		if app.Error != "" {
			h.reportError(ctx, id, m, app.Error)
		}
		return
	}

	res, err := h.publisher.Publish(ctx, m, app)
	if err != nil {
		log.Printf("❌ [%s] Ошибка публикации голосования за %s: %v", id, app.Username, err)
	}
	if !res.Published() {
		h.metrics.Application("publish_failed")
		return
	}

	if err := h.chat.React(ctx, m.Ref(), constants.AcceptedReaction); err != nil {
		log.Printf("⚠️ [%s] Не удалось поставить реакцию: %v", id, err)
	}
	if err := h.tracker.ClearOnSuccess(ctx, m.AuthorID); err != nil {
		log.Printf("❌ [%s] Ошибка очистки сообщений автора %s: %v", id, m.AuthorID, err)
	}
	if err := h.notifier.Notify(ctx, fmt.Sprintf(constants.MsgRelay, app.Username, res.Link)); err != nil {
		log.Printf("⚠️ [%s] Ошибка оповещения модераторов: %v", id, err)
	}

	h.metrics.Application("published")
	log.Printf("✅ [%s] Голосование за %s создано (автор %s)", id, app.Username, m.AuthorID)
}

func (h *Handler) reportError(ctx context.Context, id string, m chat.Message, reason string) {
	orig := m.Ref()
	ref, err := h.chat.Send(ctx, m.ChannelID, chat.Outgoing{
		Content: fmt.Sprintf(constants.MsgFeedbackTemplate, reason),
		ReplyTo: &orig,
	})
	if err != nil {
		log.Printf("❌ [%s] Ошибка отправки сообщения об ошибке: %v", id, err)
		return
	}
	if err := h.tracker.RecordError(ctx, m.AuthorID, ref); err != nil {
		log.Printf("❌ [%s] Ошибка сохранения сообщения об ошибке: %v", id, err)
	}
}
