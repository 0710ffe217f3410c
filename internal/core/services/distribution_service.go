package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
)

// blockingStatuses are the states that reserve a period against new drafts.
var blockingStatuses = []domain.DistributionStatus{
	domain.DistributionSubmitted,
	domain.DistributionApproved,
	domain.DistributionDisbursed,
}

type distributionService struct {
	BaseService
	txManager        portsrepo.TransactionManager
	distributionRepo portsrepo.DistributionRepositoryFacade
	settingsRepo     portsrepo.SettingsRepositoryFacade
	voucherRepo      portsrepo.VoucherRepositoryFacade
	revenueSource    portsrepo.RevenueSource
	beneficiaries    portsrepo.BeneficiaryRegistry
	calc             *calculator.Calculator
	executor         portssvc.DisbursementExecutor
	publisher        portssvc.EventPublisher
}

// NewDistributionService creates the approval workflow service. publisher may be nil.
func NewDistributionService(
	repos portsrepo.RepositoryProvider,
	calc *calculator.Calculator,
	executor portssvc.DisbursementExecutor,
	publisher portssvc.EventPublisher,
	now func() time.Time,
) portssvc.DistributionSvcFacade {
	return &distributionService{
		BaseService:      newBaseService(now),
		txManager:        repos.TxManager,
		distributionRepo: repos.DistributionRepo,
		settingsRepo:     repos.SettingsRepo,
		voucherRepo:      repos.VoucherRepo,
		revenueSource:    repos.RevenueSource,
		beneficiaries:    repos.Beneficiaries,
		calc:             calc,
		executor:         executor,
		publisher:        publisher,
	}
}

var _ portssvc.DistributionSvcFacade = (*distributionService)(nil)

// --- Reads ---

func (s *distributionService) GetDistribution(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	d, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("distribution not found: " + distributionID)
		}
		return nil, err
	}
	return d, nil
}

func (s *distributionService) ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.distributionRepo.ListDistributions(ctx, status, limit, nextToken)
}

func (s *distributionService) ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error) {
	if _, err := s.GetDistribution(ctx, distributionID); err != nil {
		return nil, err
	}
	return s.distributionRepo.ListApprovals(ctx, distributionID)
}

func (s *distributionService) ListVouchers(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error) {
	if _, err := s.GetDistribution(ctx, distributionID); err != nil {
		return nil, err
	}
	return s.voucherRepo.ListVouchersByDistribution(ctx, distributionID)
}

// Preview runs the calculator on current settings, source figures and beneficiaries.
func (s *distributionService) Preview(ctx context.Context, period domain.Period) (*domain.DistributionPreview, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.computeFresh(ctx, period)
}

// Recompute feeds the distribution's own snapshot back through the calculator.
func (s *distributionService) Recompute(ctx context.Context, distributionID string) (*domain.DistributionPreview, error) {
	d, err := s.GetDistribution(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	snapshot := domain.RevenueSnapshot{TotalRevenues: d.TotalRevenues, TotalExpenses: d.TotalExpenses}
	beneficiaries := make([]domain.Beneficiary, len(d.Details))
	for i, detail := range d.Details {
		beneficiaries[i] = domain.Beneficiary{BeneficiaryID: detail.BeneficiaryID, BeneficiaryType: detail.BeneficiaryType}
	}
	return s.calc.Compute(d.Period, snapshot, d.Settings, beneficiaries)
}

// --- Transitions ---

func (s *distributionService) Create(ctx context.Context, actor domain.Actor, period domain.Period) (*domain.Distribution, error) {
	if err := s.Authorize(ctx, actor, domain.CapCreateDistribution); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	ctx, span := s.StartSpan(ctx, "distribution.Create")
	var created *domain.Distribution
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.createDraft(ctx, actor, period, nil)
		return err
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to create distribution", slog.Time("period_start", period.Start), slog.Time("period_end", period.End))
		return nil, err
	}
	s.LogInfo(ctx, "Distribution draft created",
		slog.String("distribution_id", created.DistributionID),
		slog.String("distributable_amount", created.DistributableAmount.StringFixed(2)),
		slog.Int("beneficiaries", created.BeneficiariesCount))
	return created, nil
}

func (s *distributionService) Submit(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	if err := s.Authorize(ctx, actor, domain.CapSubmitDistribution); err != nil {
		return nil, err
	}

	ctx, span := s.StartSpan(ctx, "distribution.Submit", attribute.String("distribution_id", distributionID))
	var submitted *domain.Distribution
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.lockDistribution(ctx, distributionID)
		if err != nil {
			return err
		}
		if d.Status != domain.DistributionDraft {
			return staleDistribution(d, domain.DistributionDraft)
		}

		fresh, err := s.computeFresh(ctx, d.Period)
		if err != nil {
			return err
		}
		if err := compareWithFresh(d, fresh); err != nil {
			return err
		}
		if err := s.ensurePeriodFree(ctx, d.Period, d.DistributionID); err != nil {
			return err
		}

		if err := s.transition(ctx, d, actor, domain.ActionSubmit, domain.DistributionSubmitted, portsrepo.StatusChange{}, ""); err != nil {
			return err
		}
		submitted = d
		return nil
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to submit distribution", slog.String("distribution_id", distributionID))
		return nil, err
	}
	s.LogInfo(ctx, "Distribution submitted", slog.String("distribution_id", distributionID))
	return submitted, nil
}

func (s *distributionService) Approve(ctx context.Context, actor domain.Actor, distributionID string, notes string) (*domain.Distribution, error) {
	if err := s.Authorize(ctx, actor, domain.CapApproveDistribution); err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	change := portsrepo.StatusChange{}
	if notes != "" {
		change.ApprovalNotes = &notes
	}

	ctx, span := s.StartSpan(ctx, "distribution.Approve", attribute.String("distribution_id", distributionID))
	var approved *domain.Distribution
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.loadDistribution(ctx, distributionID)
		if err != nil {
			return err
		}
		if d.Status != domain.DistributionSubmitted {
			return staleDistribution(d, domain.DistributionSubmitted)
		}
		if err := s.transition(ctx, d, actor, domain.ActionApprove, domain.DistributionApproved, change, notes); err != nil {
			return err
		}
		approved = d
		return nil
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to approve distribution", slog.String("distribution_id", distributionID))
		return nil, err
	}

	s.LogInfo(ctx, "Distribution approved", slog.String("distribution_id", distributionID))
	s.publish(ctx, domain.DomainEvent{
		Type:           domain.EventDistributionApproved,
		DistributionID: distributionID,
		ActorID:        actor.UserID,
		RecipientID:    approved.CreatedBy,
		Reason:         notes,
		Amount:         approved.DistributableAmount,
		OccurredAt:     s.Now(),
	})
	return approved, nil
}

func (s *distributionService) Reject(ctx context.Context, actor domain.Actor, distributionID string, reason string) (*domain.Distribution, error) {
	if err := s.Authorize(ctx, actor, domain.CapRejectDistribution); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	ctx, span := s.StartSpan(ctx, "distribution.Reject", attribute.String("distribution_id", distributionID))
	var rejected *domain.Distribution
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.loadDistribution(ctx, distributionID)
		if err != nil {
			return err
		}
		if d.Status != domain.DistributionSubmitted {
			return staleDistribution(d, domain.DistributionSubmitted)
		}
		change := portsrepo.StatusChange{RejectionReason: &reason}
		if err := s.transition(ctx, d, actor, domain.ActionReject, domain.DistributionRejected, change, reason); err != nil {
			return err
		}
		rejected = d
		return nil
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to reject distribution", slog.String("distribution_id", distributionID))
		return nil, err
	}

	s.LogInfo(ctx, "Distribution rejected", slog.String("distribution_id", distributionID))
	s.publish(ctx, domain.DomainEvent{
		Type:           domain.EventDistributionRejected,
		DistributionID: distributionID,
		ActorID:        actor.UserID,
		RecipientID:    rejected.CreatedBy,
		Reason:         reason,
		Amount:         rejected.DistributableAmount,
		OccurredAt:     s.Now(),
	})
	return rejected, nil
}

func (s *distributionService) Disburse(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error) {
	if err := s.Authorize(ctx, actor, domain.CapDisburse); err != nil {
		return nil, err
	}
	result, err := s.executor.Execute(ctx, actor, distributionID)
	if err != nil {
		return nil, err
	}

	d, err := s.GetDistribution(ctx, distributionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to reload disbursed distribution", slog.String("distribution_id", distributionID))
		return result, nil
	}
	s.publish(ctx, domain.DomainEvent{
		Type:           domain.EventDistributionDisbursed,
		DistributionID: distributionID,
		ActorID:        actor.UserID,
		RecipientID:    d.CreatedBy,
		Amount:         d.DistributableAmount,
		OccurredAt:     s.Now(),
	})
	return result, nil
}

// Clone starts a new draft for a rejected distribution's period. The rejected record is not touched.
func (s *distributionService) Clone(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	if err := s.Authorize(ctx, actor, domain.CapCloneDistribution); err != nil {
		return nil, err
	}

	ctx, span := s.StartSpan(ctx, "distribution.Clone", attribute.String("distribution_id", distributionID))
	var clone *domain.Distribution
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		source, err := s.loadDistribution(ctx, distributionID)
		if err != nil {
			return err
		}
		if source.Status != domain.DistributionRejected {
			return staleDistribution(source, domain.DistributionRejected)
		}
		sourceID := source.DistributionID
		clone, err = s.createDraft(ctx, actor, source.Period, &sourceID)
		return err
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to clone distribution", slog.String("distribution_id", distributionID))
		return nil, err
	}
	s.LogInfo(ctx, "Distribution cloned", slog.String("source_id", distributionID), slog.String("distribution_id", clone.DistributionID))
	return clone, nil
}

// --- Helpers ---

// createDraft computes, checks the period and stores a new draft. It must run inside a transaction.
func (s *distributionService) createDraft(ctx context.Context, actor domain.Actor, period domain.Period, clonedFrom *string) (*domain.Distribution, error) {
	preview, err := s.computeFresh(ctx, period)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePeriodFree(ctx, period, ""); err != nil {
		return nil, err
	}

	now := s.Now()
	d := domain.Distribution{
		DistributionID:     uuid.NewString(),
		Period:             period,
		Breakdown:          preview.Breakdown,
		BeneficiariesCount: len(preview.Allocations),
		Status:             domain.DistributionDraft,
		Settings:           preview.Settings,
		ClonedFromID:       clonedFrom,
		AuditFields:        domain.NewAuditFields(actor.UserID, now),
	}
	d.Details = make([]domain.DistributionDetail, len(preview.Allocations))
	for i, a := range preview.Allocations {
		d.Details[i] = domain.DistributionDetail{
			DetailID:        uuid.NewString(),
			DistributionID:  d.DistributionID,
			LineNumber:      i + 1,
			BeneficiaryID:   a.BeneficiaryID,
			BeneficiaryType: a.BeneficiaryType,
			AllocatedAmount: a.Amount,
			PaymentStatus:   domain.PaymentPending,
		}
	}
	if err := s.distributionRepo.SaveDistribution(ctx, d); err != nil {
		return nil, err
	}

	action, notes := domain.ActionCreate, ""
	if clonedFrom != nil {
		action, notes = domain.ActionClone, "cloned from "+*clonedFrom
	}
	if err := s.recordApproval(ctx, d.DistributionID, action, "", domain.DistributionDraft, actor, notes); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *distributionService) computeFresh(ctx context.Context, period domain.Period) (*domain.DistributionPreview, error) {
	settings, err := s.settingsRepo.FindActiveSettings(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("no active distribution settings")
		}
		return nil, err
	}
	snapshot, err := s.revenueSource.SumForPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to read revenue source: %w", err)
	}
	beneficiaries, err := s.beneficiaries.ListActiveBeneficiaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read beneficiary registry: %w", err)
	}
	return s.calc.Compute(period, snapshot, *settings, beneficiaries)
}

// ensurePeriodFree fails when a distribution other than exceptID already holds an overlapping period.
func (s *distributionService) ensurePeriodFree(ctx context.Context, period domain.Period, exceptID string) error {
	existing, err := s.distributionRepo.FindOverlappingDistributions(ctx, period, blockingStatuses)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.DistributionID == exceptID {
			continue
		}
		return &apperrors.DuplicatePeriodError{ExistingID: e.DistributionID, PeriodStart: e.Period.Start, PeriodEnd: e.Period.End}
	}
	return nil
}

func (s *distributionService) loadDistribution(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	d, err := s.distributionRepo.FindDistributionByID(ctx, distributionID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("distribution not found: " + distributionID)
		}
		return nil, err
	}
	return d, nil
}

func (s *distributionService) lockDistribution(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	d, err := s.distributionRepo.FindDistributionByIDForUpdate(ctx, distributionID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("distribution not found: " + distributionID)
		}
		return nil, err
	}
	return d, nil
}

// transition applies an optimistic status change from d's current status and records it.
// d is updated in place on success.
func (s *distributionService) transition(ctx context.Context, d *domain.Distribution, actor domain.Actor, action domain.ApprovalAction, to domain.DistributionStatus, change portsrepo.StatusChange, notes string) error {
	from := d.Status
	now := s.Now()
	change.From = from
	change.To = to
	change.UserID = actor.UserID
	change.At = now
	if err := s.distributionRepo.UpdateDistributionStatus(ctx, d.DistributionID, change); err != nil {
		return err
	}
	if err := s.recordApproval(ctx, d.DistributionID, action, from, to, actor, notes); err != nil {
		return err
	}

	d.Status = to
	if change.RejectionReason != nil {
		d.RejectionReason = change.RejectionReason
	}
	if change.ApprovalNotes != nil {
		d.ApprovalNotes = change.ApprovalNotes
	}
	d.LastUpdatedAt = now
	d.LastUpdatedBy = actor.UserID
	return nil
}

func (s *distributionService) recordApproval(ctx context.Context, distributionID string, action domain.ApprovalAction, from, to domain.DistributionStatus, actor domain.Actor, notes string) error {
	return s.distributionRepo.SaveApproval(ctx, domain.DistributionApproval{
		ApprovalID:     uuid.NewString(),
		DistributionID: distributionID,
		Action:         action,
		FromStatus:     from,
		ToStatus:       to,
		ActorID:        actor.UserID,
		ActorRole:      actor.Role,
		Notes:          notes,
		CreatedAt:      s.Now(),
	})
}

// publish relays an event after commit. Failures are logged and never undo the transition.
func (s *distributionService) publish(ctx context.Context, event domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish domain event",
			slog.String("event", string(event.Type)),
			slog.String("distribution_id", event.DistributionID))
	}
}

func staleDistribution(d *domain.Distribution, expected domain.DistributionStatus) error {
	return &apperrors.StaleStateError{Resource: "distribution", ID: d.DistributionID, Expected: string(expected), Actual: string(d.Status)}
}

func validatePeriod(p domain.Period) error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: period start and end are required", apperrors.ErrValidation)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: period end %s is before start %s", apperrors.ErrValidation, p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
	}
	return nil
}

// compareWithFresh reports the first field where the stored draft differs from a fresh computation.
func compareWithFresh(d *domain.Distribution, fresh *domain.DistributionPreview) error {
	stale := func(field, stored, recomputed string) error {
		return &apperrors.StaleCalculationError{DistributionID: d.DistributionID, Field: field, Stored: stored, Fresh: recomputed}
	}
	if d.Settings.SettingsID != fresh.Settings.SettingsID || d.Settings.Version != fresh.Settings.Version {
		return stale("settings_version", strconv.Itoa(d.Settings.Version), strconv.Itoa(fresh.Settings.Version))
	}

	amounts := []struct {
		field         string
		stored, fresh decimal.Decimal
	}{
		{"total_revenues", d.TotalRevenues, fresh.TotalRevenues},
		{"total_expenses", d.TotalExpenses, fresh.TotalExpenses},
		{"net_revenues", d.NetRevenues, fresh.NetRevenues},
		{"maintenance_amount", d.MaintenanceAmount, fresh.MaintenanceAmount},
		{"nazer_share", d.NazerShare, fresh.NazerShare},
		{"waqif_charity", d.WaqifCharity, fresh.WaqifCharity},
		{"reserve_amount", d.ReserveAmount, fresh.ReserveAmount},
		{"distributable_amount", d.DistributableAmount, fresh.DistributableAmount},
	}
	for _, a := range amounts {
		if !a.stored.Equal(a.fresh) {
			return stale(a.field, a.stored.StringFixed(2), a.fresh.StringFixed(2))
		}
	}

	if len(d.Details) != len(fresh.Allocations) {
		return stale("beneficiaries_count", strconv.Itoa(len(d.Details)), strconv.Itoa(len(fresh.Allocations)))
	}
	for i, detail := range d.Details {
		a := fresh.Allocations[i]
		if detail.BeneficiaryID != a.BeneficiaryID {
			return stale(fmt.Sprintf("allocation[%d].beneficiary", i+1), detail.BeneficiaryID, a.BeneficiaryID)
		}
		if !detail.AllocatedAmount.Equal(a.Amount) {
			return stale(fmt.Sprintf("allocation[%d].amount", i+1), detail.AllocatedAmount.StringFixed(2), a.Amount.StringFixed(2))
		}
	}
	return nil
}
