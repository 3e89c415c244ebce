package conversation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/adapters/llm"
	"github.com/PabloGalante/throne-companions/internal/adapters/storage/memory"
	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/app/chatflow"
	"github.com/PabloGalante/throne-companions/internal/app/conversation"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/solicitation"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type fixture struct {
	svc      *conversation.Service
	users    *memory.UserStore
	messages *memory.MessageStore
	events   *memory.EventStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLLM(t, llm.NewMockLLM())
}

func newFixtureWithLLM(t *testing.T, client domain.LLMClient) *fixture {
	t.Helper()

	cfg, err := solicitation.Load("../../solicitation/testdata/solicitation.yaml")
	require.NoError(t, err)
	eng, err := solicitation.NewEngine(cfg)
	require.NoError(t, err)
	cache, err := behavior.NewCache(0)
	require.NoError(t, err)

	f := &fixture{
		users:    memory.NewUserStore(),
		messages: memory.NewMessageStore(),
		events:   memory.NewEventStore(),
	}
	f.svc = conversation.NewService(conversation.Deps{
		LLM:       client,
		Users:     f.users,
		Sessions:  memory.NewSessionStore(),
		Messages:  f.messages,
		Engines:   chatflow.StaticEngine{E: eng},
		Assembler: cache,
		Tracker:   analytics.NewTracker(f.events),
	})
	return f
}

func (f *fixture) addUser(t *testing.T, id domain.UserID, tr tier.Name, comp string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Tier: tr, ChosenCompanion: comp}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func TestStartSessionAndSendMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "test-user", tier.Apprentice, "aurora")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{
		UserID: "test-user",
		Title:  "Test session",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Session.ID)
	assert.Equal(t, "aurora", out.Session.CompanionID)
	assert.Equal(t, companion.Intro("aurora", tier.Apprentice), out.Welcome.Text)

	reply, err := f.svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: out.Session.ID,
		UserID:    "test-user",
		Text:      "Design a weekly study plan for calculus",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindText, reply.AgentMessage.Kind)
	assert.Contains(t, reply.AgentMessage.Text, "weekly study plan")
	assert.Equal(t, tier.ModeText, reply.UserMessage.Mode)

	_, msgs, err := f.svc.GetSessionTimeline(ctx, out.Session.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	sent, err := f.events.ListEvents(ctx, domain.EventFilter{Type: domain.EventMessageSent})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.KindText, sent[0].Payload.(domain.MessageSent).Kind)
}

func TestStartSessionRejectsUnknownCompanion(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u", tier.Novice, "sophia")

	_, err := f.svc.StartSession(context.Background(), conversation.StartSessionInput{UserID: "u", CompanionID: "cassian"})
	assert.ErrorIs(t, err, conversation.ErrUnknownCompanion)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.StartSession(context.Background(), conversation.StartSessionInput{UserID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLockedModeReturnsUpgradeCTA(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "u", tier.Novice, "sophia")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u"})
	require.NoError(t, err)

	reply, err := f.svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: out.Session.ID,
		Text:      "Read this to me out loud please",
		Mode:      "Voice",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindUpgradeCTA, reply.AgentMessage.Kind)
	assert.Equal(t, tier.Apprentice, reply.Outcome.RequiredTier)
	assert.Contains(t, reply.AgentMessage.Text, "Apprentice")
	assert.Contains(t, reply.AgentMessage.Text, "Novice")
}

func TestVagueMessageThenClarify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "u", tier.Regent, "vanessa")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u"})
	require.NoError(t, err)

	reply, err := f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, domain.KindSolicitation, reply.AgentMessage.Kind)
	assert.Equal(t, []string{"V1", "V2", "V3"}, reply.Outcome.Solicitation.Questions)

	clarified, err := f.svc.Clarify(ctx, conversation.ClarifyInput{
		SessionID:     out.Session.ID,
		Answers:       map[int]string{0: "save money", 1: ""},
		ChosenStarter: "VP1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindText, clarified.AgentMessage.Kind)
	assert.True(t, strings.HasPrefix(clarified.UserMessage.Text, "User intent (solicited):"))
	assert.Contains(t, clarified.UserMessage.Text, "- Goal: save money")
	// The mock echoes the last user turn, which is the preface plus the original message.
	assert.Contains(t, clarified.AgentMessage.Text, "hi")
}

type recordingLLM struct {
	requests []domain.GenerationRequest
}

func (r *recordingLLM) Provider() string { return "recording" }

func (r *recordingLLM) GenerateReply(_ context.Context, req domain.GenerationRequest) (string, error) {
	r.requests = append(r.requests, req)
	return "Noted.", nil
}

func userTurns(p llm.Prompt) []string {
	var out []string
	for _, turn := range p.Turns {
		if turn.Role == domain.RoleUser {
			out = append(out, turn.Text)
		}
	}
	return out
}

func TestClarifySendsSolicitedMessageOnce(t *testing.T) {
	ctx := context.Background()
	rec := &recordingLLM{}
	f := newFixtureWithLLM(t, rec)
	f.addUser(t, "u", tier.Regent, "sophia")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u"})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "hi"})
	require.NoError(t, err)
	require.Empty(t, rec.requests)

	clarified, err := f.svc.Clarify(ctx, conversation.ClarifyInput{
		SessionID: out.Session.ID,
		Answers:   map[int]string{0: "sleep better"},
	})
	require.NoError(t, err)
	require.Len(t, rec.requests, 1)

	req := rec.requests[0]
	assert.Equal(t, "hi", req.UserMessage)
	prompt := llm.BuildPrompt(req)
	users := userTurns(prompt)
	require.Len(t, users, 1)
	assert.True(t, strings.HasPrefix(users[0], "User intent (solicited):\n- Goal: sleep better\n"))
	assert.True(t, strings.HasSuffix(users[0], "hi"))
	for _, m := range req.History {
		assert.NotEqual(t, "hi", m.Text)
	}

	// The stored message is what the model saw.
	assert.Equal(t, users[0], clarified.UserMessage.Text)

	// A follow-up turn carries the clarified exchange once.
	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "What should I try tonight?"})
	require.NoError(t, err)
	require.Len(t, rec.requests, 2)
	assert.Equal(t, []string{clarified.UserMessage.Text, "What should I try tonight?"}, userTurns(llm.BuildPrompt(rec.requests[1])))
}

func TestClarifyOnlyAnswersLatestSolicitedExchange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "u", tier.Regent, "sophia")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u"})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "hi"})
	require.NoError(t, err)
	_, err = f.svc.Clarify(ctx, conversation.ClarifyInput{SessionID: out.Session.ID, Answers: map[int]string{0: "rest"}})
	require.NoError(t, err)

	// The clarified turn is answered, so there is nothing left to clarify.
	_, err = f.svc.Clarify(ctx, conversation.ClarifyInput{SessionID: out.Session.ID, Answers: map[int]string{0: "rest"}})
	assert.ErrorIs(t, err, conversation.ErrEmptyMessage)

	again, err := f.svc.Clarify(ctx, conversation.ClarifyInput{
		SessionID:     out.Session.ID,
		Answers:       map[int]string{0: "rest"},
		ChosenStarter: "SP1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(again.UserMessage.Text, "SP1"))
	assert.Equal(t, 1, strings.Count(again.UserMessage.Text, "User intent (solicited):"))
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "owner", tier.Novice, "sophia")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "owner"})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "   "})
	assert.ErrorIs(t, err, conversation.ErrEmptyMessage)

	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, UserID: "intruder", Text: "hello there friend"})
	assert.ErrorIs(t, err, conversation.ErrNotSessionOwner)

	_, err = f.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: "missing", Text: "hello there friend"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClarifyWithoutAnyText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "u", tier.Novice, "sophia")

	out, err := f.svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u"})
	require.NoError(t, err)

	_, err = f.svc.Clarify(ctx, conversation.ClarifyInput{SessionID: out.Session.ID, Answers: map[int]string{0: "rest"}})
	assert.ErrorIs(t, err, conversation.ErrEmptyMessage)
}
