package services

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// DistributionReaderSvc defines read operations for distributions
type DistributionReaderSvc interface {
	GetDistribution(ctx context.Context, distributionID string) (*domain.Distribution, error)
	ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error)
	ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error)
	ListVouchers(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error)

	// Preview runs the calculator against current data without writing anything.
	Preview(ctx context.Context, period domain.Period) (*domain.DistributionPreview, error)

	// Recompute reproduces a stored distribution's preview from its own settings snapshot,
	// source figures and beneficiaries.
	Recompute(ctx context.Context, distributionID string) (*domain.DistributionPreview, error)
}

// DistributionWorkflowSvc defines the approval workflow transitions
type DistributionWorkflowSvc interface {
	Create(ctx context.Context, actor domain.Actor, period domain.Period) (*domain.Distribution, error)
	Submit(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error)
	Approve(ctx context.Context, actor domain.Actor, distributionID string, notes string) (*domain.Distribution, error)
	Reject(ctx context.Context, actor domain.Actor, distributionID string, reason string) (*domain.Distribution, error)
	Disburse(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error)

	// Clone creates a new draft from a rejected distribution's period using current data.
	Clone(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error)
}

// DistributionSvcFacade combines all distribution service interfaces
type DistributionSvcFacade interface {
	DistributionReaderSvc
	DistributionWorkflowSvc
}

// DisbursementExecutor writes vouchers and ledger postings for an approved distribution.
type DisbursementExecutor interface {
	Execute(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error)
}

// EventPublisher relays domain events to the notification collaborator.
// Publish is called after the emitting transaction commits; its errors never undo the transition.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}
