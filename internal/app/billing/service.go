// Package billing moves users to a paid tier through an external payment
// provider.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

var (
	ErrInvalidUpgrade     = fmt.Errorf("%w: invalid upgrade", domain.ErrInvalidInput)
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrCheckoutMismatch   = fmt.Errorf("%w: checkout belongs to another user", domain.ErrInvalidInput)
	ErrPriceNotConfigured = errors.New("no price configured for tier")
)

// CheckoutSessionPlaceholder is replaced by the provider with the checkout ID.
const CheckoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// Accounts is the part of the account service billing needs.
type Accounts interface {
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
	SetTier(ctx context.Context, id domain.UserID, t tier.Name, subscriptionID, reason string) (*domain.User, error)
}

type Config struct {
	// Prices maps paid tiers to provider price IDs.
	Prices      map[tier.Name]string
	FrontendURL string
}

type Service struct {
	provider domain.BillingProvider
	accounts Accounts
	tracker  *analytics.Tracker
	cfg      Config
}

func NewService(provider domain.BillingProvider, accounts Accounts, tracker *analytics.Tracker, cfg Config) *Service {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Service{
		provider: provider,
		accounts: accounts,
		tracker:  tracker,
		cfg:      cfg,
	}
}

// Checkout creates a hosted checkout for moving the user to target. Only
// upgrades to a paid tier are accepted.
func (s *Service) Checkout(ctx context.Context, userID domain.UserID, target string) (*domain.Checkout, error) {
	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	t, ok := tier.Parse(target)
	if !ok || t == tier.Default {
		return nil, fmt.Errorf("%w: %q is not a paid tier", ErrInvalidUpgrade, target)
	}
	if !t.Outranks(user.Tier) {
		return nil, fmt.Errorf("%w: %s does not outrank %s", ErrInvalidUpgrade, t, user.Tier)
	}

	priceID := s.cfg.Prices[t]
	if priceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrPriceNotConfigured, t)
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", user.ID,
		"target_tier", t,
		"provider", s.provider.Name(),
	)

	co, err := s.provider.CreateCheckout(ctx, domain.CheckoutRequest{
		UserID:     user.ID,
		Email:      user.Email,
		Tier:       t,
		PriceID:    priceID,
		SuccessURL: s.cfg.FrontendURL + "/post-checkout?session_id=" + CheckoutSessionPlaceholder,
		CancelURL:  s.cfg.FrontendURL + "/pricing",
	})
	if err != nil {
		log.Error("failed to create checkout", "error", err)
		return nil, fmt.Errorf("creating checkout: %w", err)
	}

	s.tracker.UpgradeAttempted(ctx, analytics.Subject{UserID: user.ID, Tier: user.Tier}, t, co.ID, s.provider.Name())
	log.Info("checkout created", "checkout_id", co.ID)

	return co, nil
}

// Confirm applies a paid checkout to the user's account.
func (s *Service) Confirm(ctx context.Context, userID domain.UserID, checkoutID string) (*domain.User, error) {
	if strings.TrimSpace(checkoutID) == "" {
		return nil, fmt.Errorf("%w: missing checkout id", domain.ErrInvalidInput)
	}

	status, err := s.provider.GetCheckout(ctx, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("fetching checkout: %w", err)
	}
	if !status.Paid {
		return nil, ErrPaymentIncomplete
	}
	if status.UserID != "" && status.UserID != userID {
		return nil, ErrCheckoutMismatch
	}
	if !status.Tier.Valid() {
		return nil, fmt.Errorf("%w: checkout carries unknown tier %q", ErrInvalidUpgrade, status.Tier)
	}

	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Tier == status.Tier && user.SubscriptionID == status.SubscriptionID {
		return user, nil
	}

	user, err = s.accounts.SetTier(ctx, userID, status.Tier, status.SubscriptionID, "billing")
	if err != nil {
		return nil, err
	}

	s.tracker.UpgradeSucceeded(ctx, analytics.Subject{UserID: user.ID, Tier: user.Tier}, status.Tier, status.SubscriptionID)
	observability.LoggerFromContext(ctx).Info("upgrade confirmed",
		"user_id", user.ID,
		"tier", user.Tier,
		"checkout_id", checkoutID,
	)

	return user, nil
}
