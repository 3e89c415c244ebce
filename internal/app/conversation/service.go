package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/app/chatflow"
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// HistoryLimit is how many previous messages are handed to the LLM.
const HistoryLimit = 20

var (
	ErrUnknownCompanion = fmt.Errorf("%w: unknown companion", domain.ErrInvalidInput)
	ErrEmptyMessage     = fmt.Errorf("%w: message text is empty", domain.ErrInvalidInput)
	ErrNotSessionOwner  = errors.New("session belongs to another user")
)

// Deps groups the collaborators of the conversation service.
type Deps struct {
	LLM       domain.LLMClient
	Users     domain.UserStore
	Sessions  domain.SessionStore
	Messages  domain.MessageStore
	Engines   chatflow.EngineSource
	Assembler chatflow.Assembler
	Tracker   *analytics.Tracker
}

type Service struct {
	users        domain.UserStore
	sessionStore domain.SessionStore
	messageStore domain.MessageStore
	engines      chatflow.EngineSource
	tracker      *analytics.Tracker
	now          func() time.Time

	orchestrator *chatflow.Orchestrator
}

func NewService(d Deps) *Service {
	return &Service{
		users:        d.Users,
		sessionStore: d.Sessions,
		messageStore: d.Messages,
		engines:      d.Engines,
		tracker:      d.Tracker,
		now:          time.Now,
		orchestrator: chatflow.NewDefaultOrchestrator(d.LLM, d.Engines, d.Assembler, d.Tracker),
	}
}

type StartSessionInput struct {
	UserID domain.UserID
	// CompanionID defaults to the user's chosen companion.
	CompanionID string
	Title       string
}

type StartSessionOutput struct {
	Session *domain.Session
	Welcome *domain.Message
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	compID := strings.ToLower(strings.TrimSpace(in.CompanionID))
	if compID == "" {
		compID = user.ChosenCompanion
	}
	if !companion.Valid(compID) {
		return nil, fmt.Errorf("%w %q", ErrUnknownCompanion, compID)
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", user.ID,
		"companion_id", compID,
	)
	log.Info("starting new session")

	now := s.now().UTC()
	session := &domain.Session{
		ID:          domain.SessionID(domain.NewID()),
		UserID:      user.ID,
		CompanionID: compID,
		Title:       in.Title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	welcome := &domain.Message{
		ID:          domain.MessageID(domain.NewID()),
		SessionID:   session.ID,
		UserID:      user.ID,
		CompanionID: compID,
		Author:      domain.RoleAgent,
		Text:        companion.Intro(compID, user.Tier),
		Mode:        tier.ModeText,
		Tier:        user.Tier,
		Kind:        domain.KindText,
		CreatedAt:   now,
	}

	if err := s.messageStore.AppendMessage(ctx, welcome); err != nil {
		log.Error("failed to append welcome message", "error", err)
		return nil, err
	}

	s.tracker.SessionStarted(ctx, subject(user, session))
	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{
		Session: session,
		Welcome: welcome,
	}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	UserID    domain.UserID
	Text      string
	// Mode defaults to text.
	Mode        string
	IntentScore *float64
}

type SendMessageOutput struct {
	UserMessage  *domain.Message
	AgentMessage *domain.Message
	Outcome      *chatflow.Outcome
}

func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	session, user, err := s.load(ctx, in.SessionID, in.UserID)
	if err != nil {
		return nil, err
	}

	mode := tier.Mode(strings.ToLower(strings.TrimSpace(in.Mode)))
	if mode == "" {
		mode = tier.ModeText
	}

	return s.runTurn(ctx, session, user, turnInput{
		text:        text,
		stored:      text,
		mode:        mode,
		intentScore: in.IntentScore,
	})
}

type ClarifyInput struct {
	SessionID     domain.SessionID
	UserID        domain.UserID
	Answers       map[int]string
	ChosenStarter string
	// Text is the message to answer. Defaults to the solicited message of
	// the latest exchange, then to the chosen starter.
	Text string
}

// Clarify answers a previously solicited message using the user's
// clarification answers as a preface. The solicited exchange is replaced in
// the model's history by the prefaced message, which is what gets stored.
func (s *Service) Clarify(ctx context.Context, in ClarifyInput) (*SendMessageOutput, error) {
	session, user, err := s.load(ctx, in.SessionID, in.UserID)
	if err != nil {
		return nil, err
	}

	preface, err := s.engines.Engine().BuildPreface(in.Answers, session.CompanionID, in.ChosenStarter)
	if err != nil {
		return nil, err
	}

	solicited, err := s.solicitedMessage(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	var answering *domain.Message
	if solicited != nil && (text == "" || text == solicited.Text) {
		text = solicited.Text
		answering = solicited
	}
	if text == "" {
		text = strings.TrimSpace(in.ChosenStarter)
	}
	if text == "" {
		return nil, ErrEmptyMessage
	}

	return s.runTurn(ctx, session, user, turnInput{
		text:      text,
		stored:    preface + text,
		mode:      tier.ModeText,
		preface:   preface,
		answering: answering,
	})
}

type turnInput struct {
	text        string
	stored      string
	mode        tier.Mode
	intentScore *float64
	preface     string
	// answering is the solicited message a clarify turn replaces. It and
	// everything after it are left out of the history.
	answering *domain.Message
}

func (s *Service) runTurn(ctx context.Context, session *domain.Session, user *domain.User, in turnInput) (*SendMessageOutput, error) {
	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"user_id", user.ID,
		"mode", in.mode,
	)
	log.Info("sending message")

	history, err := s.messageStore.GetMessagesBySession(ctx, session.ID, HistoryLimit)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}
	if in.answering != nil {
		history = historyBefore(history, in.answering.ID)
	}

	userMsg := &domain.Message{
		ID:          domain.MessageID(domain.NewID()),
		SessionID:   session.ID,
		UserID:      user.ID,
		CompanionID: session.CompanionID,
		Author:      domain.RoleUser,
		Text:        in.stored,
		Mode:        in.mode,
		Tier:        user.Tier,
		Kind:        domain.KindText,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.messageStore.AppendMessage(ctx, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	out, err := s.orchestrator.Run(ctx, &chatflow.Turn{
		User:        user,
		Session:     session,
		Text:        in.text,
		Mode:        in.mode,
		IntentScore: in.intentScore,
		Preface:     in.preface,
		History:     history,
	})
	if err != nil {
		log.Error("orchestrator failed", "error", err)
		return nil, err
	}

	agentMsg := &domain.Message{
		ID:          domain.MessageID(domain.NewID()),
		SessionID:   session.ID,
		UserID:      user.ID,
		CompanionID: session.CompanionID,
		Author:      domain.RoleAgent,
		Text:        out.Text,
		Mode:        in.mode,
		Tier:        user.Tier,
		Kind:        out.Kind,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.messageStore.AppendMessage(ctx, agentMsg); err != nil {
		log.Error("failed to append agent message", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now().UTC()
	if err := s.sessionStore.UpdateSession(ctx, session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	s.tracker.MessageSent(ctx, subject(user, session), in.mode, out.Kind, utf8.RuneCountInString(in.text))
	log.Info("send message completed", "kind", out.Kind)

	return &SendMessageOutput{
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
		Outcome:      out,
	}, nil
}

func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"limit", limit,
	)

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return nil, nil, err
	}

	msgs, err := s.messageStore.GetMessagesBySession(ctx, sessionID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, err
	}

	log.Info("fetched session timeline", "message_count", len(msgs))

	return session, msgs, nil
}

func (s *Service) load(ctx context.Context, sessionID domain.SessionID, userID domain.UserID) (*domain.Session, *domain.User, error) {
	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if userID != "" && userID != session.UserID {
		return nil, nil, ErrNotSessionOwner
	}
	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// solicitedMessage returns the latest user message when the reply to it was
// a clarification request, or nil when the latest exchange was not solicited.
func (s *Service) solicitedMessage(ctx context.Context, sessionID domain.SessionID) (*domain.Message, error) {
	msgs, err := s.messageStore.GetMessagesBySession(ctx, sessionID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Author != domain.RoleUser {
			continue
		}
		if i+1 < len(msgs) && msgs[i+1].Kind == domain.KindSolicitation {
			return msgs[i], nil
		}
		return nil, nil
	}
	return nil, nil
}

func historyBefore(history []*domain.Message, id domain.MessageID) []*domain.Message {
	for i, m := range history {
		if m.ID == id {
			return history[:i]
		}
	}
	return history
}

func subject(u *domain.User, sess *domain.Session) analytics.Subject {
	return analytics.Subject{
		UserID:    u.ID,
		SessionID: sess.ID,
		Tier:      u.Tier,
		Companion: sess.CompanionID,
	}
}
