// Package account registers users and changes their tier, companion and
// feature flags.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

var (
	ErrInvalidTier      = fmt.Errorf("%w: unknown tier", domain.ErrInvalidInput)
	ErrUnknownCompanion = fmt.Errorf("%w: unknown companion", domain.ErrInvalidInput)
)

// Assembler builds behavior configs. *behavior.Cache satisfies it.
type Assembler interface {
	Assemble(uc behavior.UserContext) behavior.Config
}

// Service holds the logic of reading and changing users
type Service struct {
	store     domain.UserStore
	tracker   *analytics.Tracker
	assembler Assembler
	now       func() time.Time
}

// NewService creates an account service from a UserStore
func NewService(store domain.UserStore, tracker *analytics.Tracker, assembler Assembler) *Service {
	return &Service{
		store:     store,
		tracker:   tracker,
		assembler: assembler,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Tier      string
	Companion string
}

// Register creates a user. Empty tier and companion default to novice and
// sophia; unknown values are rejected.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	t, err := parseTier(in.Tier)
	if err != nil {
		return nil, err
	}
	comp, err := parseCompanion(in.Companion)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:              domain.UserID(domain.NewID()),
		Email:           strings.TrimSpace(in.Email),
		Tier:            t,
		ChosenCompanion: comp,
		CreatedAt:       now,
		LastActive:      now,
	}

	log := observability.LoggerFromContext(ctx).With("user_id", user.ID, "tier", user.Tier)
	if err := s.store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user", "error", err)
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info("user registered")

	return user, nil
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Tier      *string
	Companion *string
	Features  *tier.Features
}

// Update applies in to the user. A tier change records a tier_change event.
func (s *Service) Update(ctx context.Context, id domain.UserID, in UpdateInput) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := user.Tier

	if in.Tier != nil {
		t, err := parseTier(*in.Tier)
		if err != nil {
			return nil, err
		}
		user.Tier = t
	}
	if in.Companion != nil {
		comp, err := parseCompanion(*in.Companion)
		if err != nil {
			return nil, err
		}
		user.ChosenCompanion = comp
	}
	if in.Features != nil {
		user.Features = *in.Features
	}
	user.LastActive = s.now().UTC()

	log := observability.LoggerFromContext(ctx).With("user_id", user.ID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		log.Error("failed to update user", "error", err)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	if user.Tier != prev {
		s.tracker.TierChanged(ctx, analytics.Subject{UserID: user.ID, Tier: user.Tier}, prev, user.Tier, "account_update")
		log.Info("tier changed", "from", prev, "to", user.Tier)
	}

	return user, nil
}

// SetTier is used by billing once a payment is confirmed.
func (s *Service) SetTier(ctx context.Context, id domain.UserID, t tier.Name, subscriptionID, reason string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := user.Tier
	user.Tier = t
	if subscriptionID != "" {
		user.SubscriptionID = subscriptionID
	}
	user.LastActive = s.now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if prev != t {
		s.tracker.TierChanged(ctx, analytics.Subject{UserID: user.ID, Tier: t}, prev, t, reason)
	}
	return user, nil
}

// Behavior returns the assembled behavior config for the user.
func (s *Service) Behavior(ctx context.Context, id domain.UserID) (behavior.Config, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return behavior.Config{}, err
	}
	return s.assembler.Assemble(UserContext(user)), nil
}

// UserContext is the behavior input for u.
func UserContext(u *domain.User) behavior.UserContext {
	return behavior.UserContext{
		Tier:            u.Tier,
		ChosenCompanion: u.ChosenCompanion,
		Features:        u.Features,
	}
}

func parseTier(s string) (tier.Name, error) {
	if strings.TrimSpace(s) == "" {
		return tier.Default, nil
	}
	t, ok := tier.Parse(s)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidTier, s)
	}
	return t, nil
}

func parseCompanion(s string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(s))
	if id == "" {
		return companion.Default, nil
	}
	if !companion.Valid(id) {
		return "", fmt.Errorf("%w %q", ErrUnknownCompanion, s)
	}
	return id, nil
}
