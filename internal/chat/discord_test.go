package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestBuildMessageSend_Forward(t *testing.T) {
	data := buildMessageSend("g", Outgoing{Forward: &Forward{GuildID: "g", ChannelID: "c", MessageID: "m"}})
	if data.Reference == nil {
		t.Fatal("expected reference")
	}
	if data.Reference.Type != discordgo.MessageReferenceTypeForward {
		t.Errorf("type = %v, want forward", data.Reference.Type)
	}
	if data.Reference.MessageID != "m" || data.Reference.ChannelID != "c" || data.Reference.GuildID != "g" {
		t.Errorf("unexpected reference %+v", data.Reference)
	}
	if data.Poll != nil {
		t.Error("forward must not carry a poll")
	}
}

func TestBuildMessageSend_Reply(t *testing.T) {
	data := buildMessageSend("g", Outgoing{Content: "hi", ReplyTo: &MessageRef{ChannelID: "c", MessageID: "m"}})
	if data.Content != "hi" {
		t.Errorf("content = %q", data.Content)
	}
	if data.Reference == nil || data.Reference.Type != discordgo.MessageReferenceTypeDefault {
		t.Fatalf("expected default reference, got %+v", data.Reference)
	}
	if data.Reference.GuildID != "g" {
		t.Errorf("guild = %q", data.Reference.GuildID)
	}
}

func TestBuildMessageSend_Poll(t *testing.T) {
	data := buildMessageSend("g", Outgoing{Poll: &Poll{
		Question:      "Steve",
		Answers:       []string{"Yes", "No"},
		DurationHours: 72,
	}})
	if data.Poll == nil {
		t.Fatal("expected poll")
	}
	if data.Poll.Question.Text != "Steve" {
		t.Errorf("question = %q", data.Poll.Question.Text)
	}
	if len(data.Poll.Answers) != 2 || data.Poll.Answers[0].Media.Text != "Yes" || data.Poll.Answers[1].Media.Text != "No" {
		t.Errorf("answers = %+v", data.Poll.Answers)
	}
	if data.Poll.AllowMultiselect {
		t.Error("poll must be single-select")
	}
	if data.Poll.Duration != 72 {
		t.Errorf("duration = %d", data.Poll.Duration)
	}
}

func TestToMessage(t *testing.T) {
	m := &discordgo.Message{
		ID:        "1",
		ChannelID: "c",
		GuildID:   "g",
		Content:   "Username: Steve",
		Author:    &discordgo.User{ID: "u", Bot: false},
	}

	msg := toMessage(m, true, &discordgo.Member{Roles: []string{"r1", "r2"}})
	if !msg.IsMember || !msg.TextChannel {
		t.Errorf("unexpected flags %+v", msg)
	}
	if !msg.HasRole("r2") || msg.HasRole("r3") {
		t.Errorf("roles = %v", msg.AuthorRoles)
	}
	if msg.AuthorID != "u" || msg.Ref() != (MessageRef{ChannelID: "c", MessageID: "1"}) {
		t.Errorf("unexpected message %+v", msg)
	}

	bare := toMessage(m, false, nil)
	if bare.IsMember {
		t.Error("message without member data must not be a member")
	}
}

func TestToDeletion(t *testing.T) {
	e := &discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: "1", ChannelID: "c"},
		BeforeDelete: &discordgo.Message{Author: &discordgo.User{ID: "u"}},
	}
	del := toDeletion(e)
	if del != (Deletion{ChannelID: "c", MessageID: "1", AuthorID: "u"}) {
		t.Errorf("unexpected deletion %+v", del)
	}

	e.BeforeDelete = nil
	if toDeletion(e).AuthorID != "" {
		t.Error("author must be empty without cached message")
	}
}

func TestMapError(t *testing.T) {
	restErr := func(code int) error {
		return &discordgo.RESTError{
			Response: &http.Response{Status: "404 Not Found"},
			Message:  &discordgo.APIErrorMessage{Code: code},
		}
	}

	if err := mapError(restErr(discordgo.ErrCodeUnknownMessage)); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("expected ErrUnknownMessage, got %v", err)
	}
	if err := mapError(restErr(discordgo.ErrCodeUnknownChannel)); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("expected ErrUnknownChannel, got %v", err)
	}
	other := errors.New("boom")
	if err := mapError(other); err != other {
		t.Errorf("unrelated error must pass through, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type recordingHandler struct {
	mu      sync.Mutex
	created []Message
	updated []Message
	deleted []Deletion
}

func (h *recordingHandler) HandleMessageCreate(_ context.Context, m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, m)
}

func (h *recordingHandler) HandleMessageUpdate(_ context.Context, m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, m)
}

func (h *recordingHandler) HandleMessageDelete(_ context.Context, d Deletion) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, d)
}

// newOfflineRouter собирает роутер над сессией, которая считает REST-запросы
// и ни один из них не выполняет.
func newOfflineRouter(t *testing.T) (*router, *recordingHandler, *int) {
	t.Helper()
	s, err := discordgo.New("Bot test")
	if err != nil {
		t.Fatal(err)
	}
	requests := 0
	s.Client = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		requests++
		return nil, errors.New("offline: " + r.URL.Path)
	})}
	s.ShouldRetryOnRateLimit = false
	s.State.MaxMessageCount = 10
	if err := s.State.GuildAdd(&discordgo.Guild{
		ID: "g",
		Channels: []*discordgo.Channel{
			{ID: "apps", GuildID: "g", Type: discordgo.ChannelTypeGuildText},
			{ID: "votes", GuildID: "g", Type: discordgo.ChannelTypeGuildText},
			{ID: "chatter", GuildID: "g", Type: discordgo.ChannelTypeGuildText},
		},
	}); err != nil {
		t.Fatal(err)
	}
	h := &recordingHandler{}
	r := &router{d: NewDiscord(s, "g"), h: h, ctx: context.Background(), ch: Channels{Applications: "apps", Votes: "votes"}}
	return r, h, &requests
}

func TestIntentsIncludeGuilds(t *testing.T) {
	for _, want := range []discordgo.Intent{
		discordgo.IntentGuilds,
		discordgo.IntentGuildMessages,
		discordgo.IntentGuildMembers,
		discordgo.IntentMessageContent,
	} {
		if Intents&want == 0 {
			t.Errorf("intent %d is missing", want)
		}
	}
}

func TestRouter_IgnoresOtherChannels(t *testing.T) {
	r, h, requests := newOfflineRouter(t)

	for i := 0; i < 5; i++ {
		msg := &discordgo.Message{ID: "x", ChannelID: "chatter", GuildID: "g", Author: &discordgo.User{ID: "u"}}
		r.messageCreate(nil, &discordgo.MessageCreate{Message: msg})
		r.messageUpdate(nil, &discordgo.MessageUpdate{Message: msg})
	}
	r.messageDelete(nil, &discordgo.MessageDelete{Message: &discordgo.Message{ID: "x", ChannelID: "apps"}})

	if *requests != 0 {
		t.Errorf("REST requests = %d, want 0", *requests)
	}
	if len(h.created)+len(h.updated)+len(h.deleted) != 0 {
		t.Errorf("handler must not see foreign events: %d/%d/%d", len(h.created), len(h.updated), len(h.deleted))
	}
}

func TestRouter_ApplicationChannelUsesState(t *testing.T) {
	r, h, requests := newOfflineRouter(t)

	r.messageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "a1",
		ChannelID: "apps",
		GuildID:   "g",
		Author:    &discordgo.User{ID: "alice"},
		Member:    &discordgo.Member{Roles: []string{"r1"}},
		Content:   "Username: Steve",
	}})

	if *requests != 0 {
		t.Errorf("REST requests = %d, want 0 with a warm State", *requests)
	}
	if len(h.created) != 1 {
		t.Fatalf("created = %d, want 1", len(h.created))
	}
	if m := h.created[0]; !m.TextChannel || !m.IsMember || m.AuthorID != "alice" {
		t.Errorf("message = %+v", m)
	}
}

func TestRouter_VoteDeletionCarriesCachedAuthor(t *testing.T) {
	r, h, _ := newOfflineRouter(t)

	cached := &discordgo.Message{ID: "v1", ChannelID: "votes", GuildID: "g", Author: &discordgo.User{ID: "alice"}}
	if err := r.d.s.State.MessageAdd(cached); err != nil {
		t.Fatalf("state must accept messages once the guild is cached: %v", err)
	}
	r.messageDelete(nil, &discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: "v1", ChannelID: "votes"},
		BeforeDelete: cached,
	})

	if len(h.deleted) != 1 || h.deleted[0].AuthorID != "alice" {
		t.Errorf("deleted = %+v", h.deleted)
	}
}
