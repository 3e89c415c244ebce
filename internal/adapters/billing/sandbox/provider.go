// Package sandbox is an in-process payment provider for local mode and tests.
package sandbox

import (
	"context"
	"strings"
	"sync"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

const placeholder = "{CHECKOUT_SESSION_ID}"

type checkout struct {
	req  domain.CheckoutRequest
	paid bool
}

// Provider records checkouts in memory. With AutoPay every checkout is
// reported as paid; otherwise Pay must be called first.
type Provider struct {
	AutoPay bool

	mu        sync.Mutex
	checkouts map[string]*checkout
}

func NewProvider(autoPay bool) *Provider {
	return &Provider{
		AutoPay:   autoPay,
		checkouts: make(map[string]*checkout),
	}
}

func (p *Provider) Name() string {
	return "sandbox"
}

func (p *Provider) CreateCheckout(_ context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	id := "cs_sandbox_" + domain.NewID()

	p.mu.Lock()
	p.checkouts[id] = &checkout{req: req}
	p.mu.Unlock()

	return &domain.Checkout{
		ID:  id,
		URL: strings.ReplaceAll(req.SuccessURL, placeholder, id),
	}, nil
}

// Pay marks a checkout as paid.
func (p *Provider) Pay(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.checkouts[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.paid = true
	return nil
}

func (p *Provider) GetCheckout(_ context.Context, id string) (*domain.CheckoutStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.checkouts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	status := &domain.CheckoutStatus{
		ID:     id,
		UserID: c.req.UserID,
		Tier:   c.req.Tier,
		Paid:   c.paid || p.AutoPay,
	}
	if status.Paid {
		status.SubscriptionID = "sub_sandbox_" + strings.TrimPrefix(id, "cs_sandbox_")
	}
	return status, nil
}
