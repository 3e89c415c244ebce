// Package memory applies each tier's conversation retention window.
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// SummaryInterval is how often long-term memory is summarised.
const SummaryInterval = 7 * 24 * time.Hour

// longTermDays is the retention above which a tier gets summaries.
const longTermDays = 30

// ExpiryFor returns when a message written at now expires under t. The
// second result is false for unlimited retention.
func ExpiryFor(t tier.Name, now time.Time) (time.Time, bool) {
	def := tier.Lookup(t)
	if def.UnlimitedMemory() {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, def.MemoryRetentionDays), true
}

// ShouldSummarize reports whether a tier with long-term memory is due for a
// new summary. Users without a previous summary are never due.
func ShouldSummarize(t tier.Name, lastSummary, now time.Time) bool {
	if lastSummary.IsZero() {
		return false
	}
	def := tier.Lookup(t)
	if !def.UnlimitedMemory() && def.MemoryRetentionDays <= longTermDays {
		return false
	}
	return now.Sub(lastSummary) >= SummaryInterval
}

// PruneReport summarises one Prune run.
type PruneReport struct {
	Users   int `json:"users"`
	Deleted int `json:"deleted"`
}

type Service struct {
	users    domain.UserStore
	messages domain.MessageStore
	tracker  *analytics.Tracker
}

func NewService(users domain.UserStore, messages domain.MessageStore, tracker *analytics.Tracker) *Service {
	return &Service{users: users, messages: messages, tracker: tracker}
}

// Prune deletes every user's messages that fell out of their tier's
// retention window. A failure for one user does not stop the others.
func (s *Service) Prune(ctx context.Context, now time.Time) (PruneReport, error) {
	log := observability.LoggerFromContext(ctx).With("job", "memory_prune")

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return PruneReport{}, fmt.Errorf("listing users: %w", err)
	}

	var (
		report PruneReport
		errs   []error
	)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		def := tier.Lookup(u.Tier)
		if def.UnlimitedMemory() {
			continue
		}
		cutoff := now.AddDate(0, 0, -def.MemoryRetentionDays)

		n, err := s.messages.DeleteMessagesBefore(ctx, u.ID, cutoff)
		if err != nil {
			log.Error("prune failed", "user_id", u.ID, "error", err)
			errs = append(errs, fmt.Errorf("pruning user %s: %w", u.ID, err))
			continue
		}

		report.Users++
		report.Deleted += n
		if n > 0 {
			s.tracker.MemoryPruned(ctx, analytics.Subject{UserID: u.ID, Tier: def.Name}, n, cutoff)
		}
	}

	log.Info("prune finished", "users", report.Users, "deleted", report.Deleted)
	return report, errors.Join(errs...)
}
