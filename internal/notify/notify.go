// Package notify relays domain events to the notification collaborator.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/SscSPs/waqf_ledger/internal/utils"
)

// LogPublisher writes each event to the request logger.
type LogPublisher struct{}

var _ portssvc.EventPublisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("Domain event",
		slog.String("event", string(event.Type)),
		slog.String("distribution_id", event.DistributionID),
		slog.String("fiscal_year_id", event.FiscalYearID),
		slog.String("actor_id", event.ActorID),
		slog.String("recipient_id", event.RecipientID),
		slog.String("reason", event.Reason),
		slog.String("amount", utils.FormatMoney(event.Amount)))
	return nil
}

// Enqueuer is the subset of the posthog client used for relaying events.
type Enqueuer interface {
	Enqueue(distinctID string, event string, properties map[string]any) error
}

// PosthogPublisher captures events in PostHog, keyed by the recipient when there is one
// so the originating accountant can be notified.
type PosthogPublisher struct {
	client Enqueuer
}

// NewPosthogPublisher creates a PosthogPublisher.
func NewPosthogPublisher(client Enqueuer) *PosthogPublisher {
	return &PosthogPublisher{client: client}
}

var _ portssvc.EventPublisher = (*PosthogPublisher)(nil)

func (p *PosthogPublisher) Publish(_ context.Context, event domain.DomainEvent) error {
	distinctID := event.RecipientID
	if distinctID == "" {
		distinctID = event.ActorID
	}
	props := map[string]any{
		"actor_id":    event.ActorID,
		"amount":      utils.FormatMoney(event.Amount),
		"occurred_at": event.OccurredAt,
	}
	if event.DistributionID != "" {
		props["distribution_id"] = event.DistributionID
	}
	if event.FiscalYearID != "" {
		props["fiscal_year_id"] = event.FiscalYearID
	}
	if event.Reason != "" {
		props["reason"] = event.Reason
	}
	return p.client.Enqueue(distinctID, string(event.Type), props)
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []portssvc.EventPublisher

var _ portssvc.EventPublisher = Multi(nil)

func (m Multi) Publish(ctx context.Context, event domain.DomainEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New returns the publisher used by the service: log always, PostHog when initialized.
func New(posthog *utils.PosthogClientWrapper) portssvc.EventPublisher {
	if posthog == nil || !posthog.IsInitialized() {
		return LogPublisher{}
	}
	return Multi{LogPublisher{}, NewPosthogPublisher(posthog)}
}
