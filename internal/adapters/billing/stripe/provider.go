// Package stripe implements domain.BillingProvider with Stripe Checkout
// subscriptions.
package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

const (
	metaTier = "tier"
	metaUser = "user_id"
)

type Config struct {
	SecretKey string
	// BackendURL overrides the Stripe API endpoint.
	BackendURL string
}

type Provider struct {
	sessions session.Client
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key must be set")
	}

	backendCfg := &stripeapi.BackendConfig{
		MaxNetworkRetries: stripeapi.Int64(2),
		LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelError},
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripeapi.String(cfg.BackendURL)
		backendCfg.MaxNetworkRetries = stripeapi.Int64(0)
	}

	return &Provider{
		sessions: session.Client{
			B:   stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
	}, nil
}

func (p *Provider) Name() string {
	return "stripe"
}

func (p *Provider) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:               stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Price:    stripeapi.String(req.PriceID),
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL:        stripeapi.String(req.SuccessURL),
		CancelURL:         stripeapi.String(req.CancelURL),
		ClientReferenceID: stripeapi.String(string(req.UserID)),
	}
	if req.Email != "" {
		params.CustomerEmail = stripeapi.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata(metaTier, string(req.Tier))
	params.AddMetadata(metaUser, string(req.UserID))

	s, err := p.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &domain.Checkout{ID: s.ID, URL: s.URL}, nil
}

func (p *Provider) GetCheckout(ctx context.Context, id string) (*domain.CheckoutStatus, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.sessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve checkout session: %w", err)
	}

	status := &domain.CheckoutStatus{
		ID:     s.ID,
		UserID: domain.UserID(s.Metadata[metaUser]),
		Tier:   tier.Name(s.Metadata[metaTier]),
		Paid:   s.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid,
	}
	if status.UserID == "" {
		status.UserID = domain.UserID(s.ClientReferenceID)
	}
	if s.Subscription != nil {
		status.SubscriptionID = s.Subscription.ID
	}
	return status, nil
}
