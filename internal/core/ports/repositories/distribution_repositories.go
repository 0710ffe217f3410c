package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatusChange describes one optimistic workflow transition.
type StatusChange struct {
	From            domain.DistributionStatus
	To              domain.DistributionStatus
	RejectionReason *string
	ApprovalNotes   *string
	JournalEntryID  *string
	DisbursedAt     *time.Time
	UserID          string
	At              time.Time
}

// DistributionReader defines read operations for distributions
type DistributionReader interface {
	// FindDistributionByID retrieves a distribution with its ordered details.
	FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error)

	// FindDistributionByIDForUpdate is FindDistributionByID with a row lock held until the transaction ends.
	FindDistributionByIDForUpdate(ctx context.Context, distributionID string) (*domain.Distribution, error)

	// ListDistributions returns a page of distributions (without details), newest period first.
	ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error)

	// FindOverlappingDistributions returns distributions in one of statuses whose period overlaps period.
	FindOverlappingDistributions(ctx context.Context, period domain.Period, statuses []domain.DistributionStatus) ([]domain.Distribution, error)

	// SumDisbursedBetween totals the distributable amount of distributions disbursed within [from, to].
	SumDisbursedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// ListApprovals returns the audit trail of a distribution in chronological order.
	ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error)
}

// DistributionWriter defines write operations for distributions
type DistributionWriter interface {
	// SaveDistribution persists a new distribution and its details.
	SaveDistribution(ctx context.Context, distribution domain.Distribution) error

	// UpdateDistributionStatus applies change only when the stored status equals change.From.
	// It returns a StaleStateError otherwise.
	UpdateDistributionStatus(ctx context.Context, distributionID string, change StatusChange) error

	// MarkDetailsPaid flips the listed details to paid and links their vouchers.
	MarkDetailsPaid(ctx context.Context, distributionID string, voucherByDetail map[string]string) error

	// SaveApproval appends one audit record.
	SaveApproval(ctx context.Context, approval domain.DistributionApproval) error
}

// DistributionRepositoryFacade combines all distribution repository interfaces
type DistributionRepositoryFacade interface {
	DistributionReader
	DistributionWriter
}
