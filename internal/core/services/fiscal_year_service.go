package services

import (
	"context"
	"fmt"
	"log/slog"
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
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

type fiscalYearService struct {
	BaseService
	txManager        portsrepo.TransactionManager
	fiscalYearRepo   portsrepo.FiscalYearRepositoryFacade
	journalRepo      portsrepo.LedgerAggregator
	accountRepo      portsrepo.AccountReader
	settingsRepo     portsrepo.SettingsRepositoryFacade
	distributionRepo portsrepo.DistributionReader
	ledger           portssvc.LedgerPoster
	corpusCode       string
	publisher        portssvc.EventPublisher
}

// NewFiscalYearService creates the fiscal year service. Closing entries credit the account
// with corpusCode. publisher may be nil.
func NewFiscalYearService(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerPoster, corpusCode string, publisher portssvc.EventPublisher, now func() time.Time) portssvc.FiscalYearSvcFacade {
	return &fiscalYearService{
		BaseService:      newBaseService(now),
		txManager:        repos.TxManager,
		fiscalYearRepo:   repos.FiscalYearRepo,
		journalRepo:      repos.JournalRepo,
		accountRepo:      repos.AccountRepo,
		settingsRepo:     repos.SettingsRepo,
		distributionRepo: repos.DistributionRepo,
		ledger:           ledger,
		corpusCode:       corpusCode,
		publisher:        publisher,
	}
}

var _ portssvc.FiscalYearSvcFacade = (*fiscalYearService)(nil)

func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, actor domain.Actor, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageFiscalYears); err != nil {
		return nil, err
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	now := s.Now()
	fy := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		StartDate:    dateOnly(req.StartDate),
		EndDate:      dateOnly(req.EndDate),
		AuditFields:  domain.NewAuditFields(actor.UserID, now),
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.fiscalYearRepo.ListFiscalYears(ctx)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if domain.Overlaps(e.StartDate, e.EndDate, fy.StartDate, fy.EndDate) {
				return fmt.Errorf("%w: fiscal year %q already covers part of %s to %s", apperrors.ErrDuplicate,
					e.Name, fy.StartDate.Format(time.DateOnly), fy.EndDate.Format(time.DateOnly))
			}
		}
		return s.fiscalYearRepo.SaveFiscalYear(ctx, fy)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create fiscal year", slog.String("name", fy.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID), slog.String("name", fy.Name))
	return &fy, nil
}

func (s *fiscalYearService) GetFiscalYear(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("fiscal year not found: " + fiscalYearID)
		}
		return nil, err
	}
	return fy, nil
}

func (s *fiscalYearService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.fiscalYearRepo.ListFiscalYears(ctx)
}

func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, actor domain.Actor, fiscalYearID string, previewOnly bool) (*domain.ClosingSummary, error) {
	capability := domain.CapCloseFiscalYear
	if previewOnly {
		capability = domain.CapPreviewClose
	}
	if err := s.Authorize(ctx, actor, capability); err != nil {
		return nil, err
	}

	ctx, span := s.StartSpan(ctx, "fiscal_year.Close",
		attribute.String("fiscal_year_id", fiscalYearID),
		attribute.Bool("preview_only", previewOnly))
	var summary *domain.ClosingSummary
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var fy *domain.FiscalYear
		var err error
		if previewOnly {
			fy, err = s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
		} else {
			fy, err = s.fiscalYearRepo.FindFiscalYearByIDForUpdate(ctx, fiscalYearID)
		}
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewNotFoundError("fiscal year not found: " + fiscalYearID)
			}
			return err
		}
		if fy.IsClosed {
			return &apperrors.StaleStateError{Resource: "fiscal year", ID: fiscalYearID, Expected: "open", Actual: "closed"}
		}

		rows, err := s.journalRepo.SumPostedLinesByAccount(ctx, fiscalYearID)
		if err != nil {
			return err
		}
		summary, err = s.summarize(ctx, *fy, rows)
		if err != nil {
			return err
		}
		summary.PreviewOnly = previewOnly
		if previewOnly {
			return nil
		}

		closingEntryID, err := s.postClosingEntry(ctx, *fy, rows, actor.UserID)
		if err != nil {
			return err
		}
		if closingEntryID != "" {
			summary.ClosingEntryID = &closingEntryID
		}
		return s.fiscalYearRepo.MarkFiscalYearClosed(ctx, fiscalYearID, closingEntryID, actor.UserID, s.Now())
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to close fiscal year", slog.String("fiscal_year_id", fiscalYearID), slog.Bool("preview_only", previewOnly))
		return nil, err
	}
	if previewOnly {
		return summary, nil
	}

	s.LogInfo(ctx, "Fiscal year closed",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.String("net_income", summary.NetIncome.StringFixed(2)),
		slog.String("corpus_residual", summary.CorpusResidual.StringFixed(2)))
	if s.publisher != nil {
		if perr := s.publisher.Publish(ctx, domain.DomainEvent{
			Type:         domain.EventFiscalYearClosed,
			FiscalYearID: fiscalYearID,
			ActorID:      actor.UserID,
			Amount:       summary.NetIncome,
			OccurredAt:   s.Now(),
		}); perr != nil {
			s.LogError(ctx, perr, "Failed to publish domain event", slog.String("event", string(domain.EventFiscalYearClosed)))
		}
	}
	return summary, nil
}

// summarize applies the active settings once to the year's net income.
func (s *fiscalYearService) summarize(ctx context.Context, fy domain.FiscalYear, rows []domain.TrialBalanceRow) (*domain.ClosingSummary, error) {
	revenues, expenses := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.AccountType {
		case domain.Revenue:
			revenues = revenues.Add(r.Net())
		case domain.Expense:
			expenses = expenses.Add(r.Net())
		}
	}
	net := domain.RoundMoney(revenues.Sub(expenses))
	summary := &domain.ClosingSummary{
		FiscalYearID:  fy.FiscalYearID,
		TotalRevenues: domain.RoundMoney(revenues),
		TotalExpenses: domain.RoundMoney(expenses),
		NetIncome:     net,
		NazerShare:    decimal.Zero,
		WaqifShare:    decimal.Zero,
	}

	if net.IsPositive() {
		settings, err := s.settingsRepo.FindActiveSettings(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, apperrors.NewNotFoundError("no active distribution settings")
			}
			return nil, err
		}
		b := calculator.RunPipeline(net, *settings)
		summary.NazerShare = b.NazerShare
		summary.WaqifShare = b.WaqifCharity
		summary.SettingsVersion = settings.Version
	}

	distributed, err := s.distributionRepo.SumDisbursedBetween(ctx, fy.StartDate, fy.EndDate)
	if err != nil {
		return nil, err
	}
	summary.Distributed = domain.RoundMoney(distributed)
	summary.CorpusResidual = net.Sub(summary.NazerShare).Sub(summary.WaqifShare).Sub(summary.Distributed)
	return summary, nil
}

// postClosingEntry zeroes every revenue and expense account into the corpus account.
// It returns an empty id when there is nothing to close.
func (s *fiscalYearService) postClosingEntry(ctx context.Context, fy domain.FiscalYear, rows []domain.TrialBalanceRow, userID string) (string, error) {
	var lines []domain.JournalLine
	debits, credits := decimal.Zero, decimal.Zero
	for _, r := range rows {
		if r.AccountType != domain.Revenue && r.AccountType != domain.Expense {
			continue
		}
		bal := r.Net()
		if bal.IsZero() {
			continue
		}
		// Revenue is credit-normal, so a positive balance is cleared with a debit.
		debitSide := (r.AccountType == domain.Revenue) == bal.IsPositive()
		amount := bal.Abs()
		if debitSide {
			lines = append(lines, domain.Debit(r.AccountID, amount, "Close "+r.AccountCode))
			debits = debits.Add(amount)
		} else {
			lines = append(lines, domain.Credit(r.AccountID, amount, "Close "+r.AccountCode))
			credits = credits.Add(amount)
		}
	}
	if len(lines) == 0 {
		return "", nil
	}

	if diff := debits.Sub(credits); !diff.IsZero() {
		corpus, err := s.accountRepo.FindAccountByCode(ctx, s.corpusCode)
		if err != nil {
			if isNotFound(err) {
				return "", &apperrors.UnknownAccountError{AccountID: s.corpusCode}
			}
			return "", err
		}
		if diff.IsPositive() {
			lines = append(lines, domain.Credit(corpus.AccountID, diff, "Net income to endowment corpus"))
		} else {
			lines = append(lines, domain.Debit(corpus.AccountID, diff.Neg(), "Net loss from endowment corpus"))
		}
	}

	posted, err := s.ledger.Post(ctx, domain.JournalEntry{
		EntryDate:     fy.EndDate,
		Description:   "Closing entry for fiscal year " + fy.Name,
		ReferenceType: domain.RefFiscalYearClosing,
		ReferenceID:   fy.FiscalYearID,
		Lines:         lines,
	}, userID)
	if err != nil {
		return "", err
	}
	return posted.EntryID, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
