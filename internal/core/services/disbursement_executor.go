package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/platform/config"
)

// DisbursementOptions selects the accounts and posting layout used for payouts.
type DisbursementOptions struct {
	PostingMode string // config.PostingConsolidated or config.PostingPerVoucher
	Accounts    config.LedgerAccounts
}

type disbursementExecutor struct {
	BaseService
	txManager        portsrepo.TransactionManager
	distributionRepo portsrepo.DistributionRepositoryFacade
	voucherRepo      portsrepo.VoucherRepositoryFacade
	accountRepo      portsrepo.AccountReader
	sequenceRepo     portsrepo.SequenceRepository
	ledger           portssvc.LedgerPoster
	opts             DisbursementOptions
}

// NewDisbursementExecutor creates the executor behind the disburse transition.
func NewDisbursementExecutor(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerPoster, opts DisbursementOptions, now func() time.Time) portssvc.DisbursementExecutor {
	if opts.PostingMode == "" {
		opts.PostingMode = config.PostingConsolidated
	}
	return &disbursementExecutor{
		BaseService:      newBaseService(now),
		txManager:        repos.TxManager,
		distributionRepo: repos.DistributionRepo,
		voucherRepo:      repos.VoucherRepo,
		accountRepo:      repos.AccountRepo,
		sequenceRepo:     repos.SequenceRepo,
		ledger:           ledger,
		opts:             opts,
	}
}

// Execute writes one voucher per detail, posts the payout entries and flips the distribution
// to disbursed, all in one transaction. Any failure leaves the distribution approved.
func (e *disbursementExecutor) Execute(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error) {
	ctx, span := e.StartSpan(ctx, "distribution.Disburse",
		attribute.String("distribution_id", distributionID),
		attribute.String("posting_mode", e.opts.PostingMode))

	var result *domain.DisbursementResult
	err := e.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = e.execute(ctx, actor, distributionID)
		return err
	})
	e.EndSpan(span, err)
	if err != nil {
		e.LogError(ctx, err, "Disbursement failed", slog.String("distribution_id", distributionID))
		return nil, &apperrors.DisbursementError{DistributionID: distributionID, Err: err}
	}

	e.LogInfo(ctx, "Distribution disbursed",
		slog.String("distribution_id", distributionID),
		slog.Int("vouchers", len(result.VoucherIDs)),
		slog.Int("journal_entries", len(result.JournalEntryIDs)))
	return result, nil
}

func (e *disbursementExecutor) execute(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error) {
	d, err := e.distributionRepo.FindDistributionByIDForUpdate(ctx, distributionID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("distribution not found: " + distributionID)
		}
		return nil, err
	}
	if d.Status != domain.DistributionApproved {
		return nil, staleDistribution(d, domain.DistributionApproved)
	}

	payable, err := e.accountByCode(ctx, e.opts.Accounts.DistributionsPayableCode)
	if err != nil {
		return nil, err
	}
	cash, err := e.accountByCode(ctx, e.opts.Accounts.CashCode)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	vouchers := make([]domain.PaymentVoucher, len(d.Details))
	for i, detail := range d.Details {
		n, err := e.sequenceRepo.NextNumber(ctx, SeriesPaymentVoucher)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate voucher number: %w", err)
		}
		vouchers[i] = domain.PaymentVoucher{
			VoucherID:      uuid.NewString(),
			VoucherNumber:  formatNumber(SeriesPaymentVoucher, n),
			DistributionID: d.DistributionID,
			DetailID:       detail.DetailID,
			BeneficiaryID:  detail.BeneficiaryID,
			Amount:         detail.AllocatedAmount,
			Status:         domain.VoucherPaid,
			PaidAt:         now,
			AuditFields:    domain.NewAuditFields(actor.UserID, now),
		}
	}

	var entryIDs []string
	switch e.opts.PostingMode {
	case config.PostingPerVoucher:
		for i := range vouchers {
			v := &vouchers[i]
			if !v.Amount.IsPositive() {
				continue
			}
			posted, err := e.ledger.Post(ctx, payoutEntry(now, payable.AccountID, cash.AccountID, v.Amount,
				fmt.Sprintf("Payment voucher %s for distribution %s", v.VoucherNumber, d.DistributionID),
				domain.RefPaymentVoucher, v.VoucherID), actor.UserID)
			if err != nil {
				return nil, err
			}
			id := posted.EntryID
			v.JournalEntryID = &id
			entryIDs = append(entryIDs, id)
		}
	default:
		if d.DistributableAmount.IsPositive() {
			posted, err := e.ledger.Post(ctx, payoutEntry(now, payable.AccountID, cash.AccountID, d.DistributableAmount,
				fmt.Sprintf("Disbursement of distribution %s (%s to %s)", d.DistributionID,
					d.Period.Start.Format(time.DateOnly), d.Period.End.Format(time.DateOnly)),
				domain.RefDistribution, d.DistributionID), actor.UserID)
			if err != nil {
				return nil, err
			}
			id := posted.EntryID
			for i := range vouchers {
				vouchers[i].JournalEntryID = &id
			}
			entryIDs = append(entryIDs, id)
		}
	}

	if err := e.voucherRepo.SaveVouchers(ctx, vouchers); err != nil {
		return nil, err
	}
	voucherByDetail := make(map[string]string, len(vouchers))
	voucherIDs := make([]string, len(vouchers))
	for i, v := range vouchers {
		voucherByDetail[v.DetailID] = v.VoucherID
		voucherIDs[i] = v.VoucherID
	}
	if err := e.distributionRepo.MarkDetailsPaid(ctx, d.DistributionID, voucherByDetail); err != nil {
		return nil, err
	}

	change := portsrepo.StatusChange{
		From:        domain.DistributionApproved,
		To:          domain.DistributionDisbursed,
		DisbursedAt: &now,
		UserID:      actor.UserID,
		At:          now,
	}
	if len(entryIDs) > 0 {
		change.JournalEntryID = &entryIDs[0]
	}
	if err := e.distributionRepo.UpdateDistributionStatus(ctx, d.DistributionID, change); err != nil {
		return nil, err
	}
	if err := e.distributionRepo.SaveApproval(ctx, domain.DistributionApproval{
		ApprovalID:     uuid.NewString(),
		DistributionID: d.DistributionID,
		Action:         domain.ActionDisburse,
		FromStatus:     domain.DistributionApproved,
		ToStatus:       domain.DistributionDisbursed,
		ActorID:        actor.UserID,
		ActorRole:      actor.Role,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}

	if entryIDs == nil {
		entryIDs = []string{}
	}
	return &domain.DisbursementResult{
		DistributionID:  d.DistributionID,
		JournalEntryIDs: entryIDs,
		VoucherIDs:      voucherIDs,
	}, nil
}

func (e *disbursementExecutor) accountByCode(ctx context.Context, code string) (*domain.Account, error) {
	acc, err := e.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, &apperrors.UnknownAccountError{AccountID: code}
		}
		return nil, err
	}
	return acc, nil
}

// payoutEntry debits the obligation and credits cash for amount.
func payoutEntry(date time.Time, payableID, cashID string, amount decimal.Decimal, description, refType, refID string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryDate:     date,
		Description:   description,
		ReferenceType: refType,
		ReferenceID:   refID,
		Lines: []domain.JournalLine{
			domain.Debit(payableID, amount, "Distributions payable"),
			domain.Credit(cashID, amount, "Cash paid to beneficiaries"),
		},
	}
}
