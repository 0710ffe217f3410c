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
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/utils/accounting"
)

// Sequence series for human-readable numbers.
const (
	SeriesJournalEntry   = "JE"
	SeriesPaymentVoucher = "PV"
)

func formatNumber(series string, n int64) string {
	return fmt.Sprintf("%s-%06d", series, n)
}

// ledgerService is the sole writer of account balances.
type ledgerService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	accountRepo    portsrepo.AccountRepositoryFacade
	journalRepo    portsrepo.JournalRepositoryFacade
	fiscalYearRepo portsrepo.FiscalYearReader
	sequenceRepo   portsrepo.SequenceRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repos portsrepo.RepositoryProvider, now func() time.Time) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:    newBaseService(now),
		txManager:      repos.TxManager,
		accountRepo:    repos.AccountRepo,
		journalRepo:    repos.JournalRepo,
		fiscalYearRepo: repos.FiscalYearRepo,
		sequenceRepo:   repos.SequenceRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostEntry implements portssvc.LedgerWriterSvc
func (s *ledgerService) PostEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapPostJournal); err != nil {
		return nil, err
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	return s.Post(ctx, entryFromRequest(req), actor.UserID)
}

// CreateDraftEntry implements portssvc.LedgerWriterSvc
func (s *ledgerService) CreateDraftEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapPostJournal); err != nil {
		return nil, err
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	entry := entryFromRequest(req)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.prepareNewEntry(ctx, &entry, actor.UserID); err != nil {
			return err
		}
		return s.journalRepo.SaveEntry(ctx, entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft journal entry")
		return nil, err
	}
	s.LogInfo(ctx, "Draft journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// PostDraftEntry implements portssvc.LedgerWriterSvc
func (s *ledgerService) PostDraftEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapPostJournal); err != nil {
		return nil, err
	}

	ctx, span := s.StartSpan(ctx, "ledger.PostDraftEntry", attribute.String("entry_id", entryID))
	var posted *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		draft, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if draft.Status != domain.EntryDraft {
			return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: string(domain.EntryDraft), Actual: string(draft.Status)}
		}
		posted, err = s.postInTx(ctx, *draft, actor.UserID, false)
		return err
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to post draft journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return posted, nil
}

// Post implements portssvc.LedgerPoster
func (s *ledgerService) Post(ctx context.Context, entry domain.JournalEntry, userID string) (*domain.JournalEntry, error) {
	ctx, span := s.StartSpan(ctx, "ledger.Post", attribute.String("reference_type", entry.ReferenceType))
	var posted *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.prepareNewEntry(ctx, &entry, userID); err != nil {
			return err
		}
		var err error
		posted, err = s.postInTx(ctx, entry, userID, true)
		return err
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("reference_type", entry.ReferenceType), slog.String("reference_id", entry.ReferenceID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.String("fiscal_year_id", posted.FiscalYearID))
	return posted, nil
}

// ReverseEntry implements portssvc.LedgerWriterSvc
func (s *ledgerService) ReverseEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapReverseJournal); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	ctx, span := s.StartSpan(ctx, "ledger.ReverseEntry", attribute.String("entry_id", entryID))
	var reversal *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		original, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if original.Status != domain.EntryPosted {
			return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: string(domain.EntryPosted), Actual: string(original.Status)}
		}
		if original.ReversedByID != nil {
			return fmt.Errorf("%w: journal entry %s was already reversed by %s", apperrors.ErrConflict, entryID, *original.ReversedByID)
		}
		if original.ReversesEntryID != nil {
			return fmt.Errorf("%w: journal entry %s is itself a reversal", apperrors.ErrConflict, entryID)
		}

		lines := make([]domain.JournalLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = domain.JournalLine{
				AccountID:    l.AccountID,
				DebitAmount:  l.CreditAmount,
				CreditAmount: l.DebitAmount,
				Description:  l.Description,
			}
		}
		originalID := original.EntryID
		candidate := domain.JournalEntry{
			EntryDate:       s.Now(),
			Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
			ReferenceType:   domain.RefReversal,
			ReferenceID:     originalID,
			ReversesEntryID: &originalID,
			Lines:           lines,
		}
		if err := s.prepareNewEntry(ctx, &candidate, actor.UserID); err != nil {
			return err
		}
		reversal, err = s.postInTx(ctx, candidate, actor.UserID, true)
		if err != nil {
			return err
		}
		return s.journalRepo.MarkEntryReversed(ctx, originalID, reversal.EntryID, actor.UserID, s.Now())
	})
	s.EndSpan(span, err)
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	return reversal, nil
}

// GetEntry implements portssvc.LedgerReaderSvc
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("journal entry not found: " + entryID)
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries implements portssvc.LedgerReaderSvc
func (s *ledgerService) ListEntries(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.journalRepo.ListEntriesByFiscalYear(ctx, fiscalYearID, limit, nextToken)
}

// GetTrialBalance implements portssvc.LedgerReaderSvc
func (s *ledgerService) GetTrialBalance(ctx context.Context, fiscalYearID string) (*domain.TrialBalance, error) {
	if _, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("fiscal year not found: " + fiscalYearID)
		}
		return nil, err
	}
	rows, err := s.journalRepo.SumPostedLinesByAccount(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	tb := &domain.TrialBalance{
		FiscalYearID: fiscalYearID,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		ByAccount:    rows,
	}
	for _, r := range rows {
		tb.TotalDebits = tb.TotalDebits.Add(r.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(r.Credit)
	}
	return tb, nil
}

// prepareNewEntry assigns identifiers, numbering and audit fields to an entry that has not been stored yet.
func (s *ledgerService) prepareNewEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	n, err := s.sequenceRepo.NextNumber(ctx, SeriesJournalEntry)
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}
	now := s.Now()
	entry.EntryID = uuid.NewString()
	entry.EntryNumber = formatNumber(SeriesJournalEntry, n)
	entry.Status = domain.EntryDraft
	entry.EntryDate = entry.EntryDate.UTC()
	if entry.ReferenceType == "" {
		entry.ReferenceType = domain.RefManual
	}
	entry.AuditFields = domain.NewAuditFields(userID, now)
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
		entry.Lines[i].LineNumber = i + 1
	}
	return nil
}

// postInTx validates entry and posts it. It must run inside a transaction. When isNew is set
// the entry is stored before being flipped to posted; otherwise it must already exist as a draft.
func (s *ledgerService) postInTx(ctx context.Context, entry domain.JournalEntry, userID string, isNew bool) (*domain.JournalEntry, error) {
	accounts, err := s.validateEntry(ctx, &entry)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(accounts))
	for id := range accounts {
		accountIDs = append(accountIDs, id)
	}
	locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	changes, err := accounting.BalanceChanges(entry.Lines, locked)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if isNew {
		if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
			return nil, err
		}
	}
	if err := s.journalRepo.MarkEntryPosted(ctx, entry.EntryID, entry.FiscalYearID, now, userID); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccountBalances(ctx, changes, userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.EntryPosted
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return &entry, nil
}

// validateEntry checks line shape, active accounts, exact balance and an open fiscal year,
// in that order. On success it sets entry.FiscalYearID and returns the referenced accounts.
func (s *ledgerService) validateEntry(ctx context.Context, entry *domain.JournalEntry) (map[string]domain.Account, error) {
	if strings.TrimSpace(entry.Description) == "" {
		return nil, fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
	}
	debits, credits, err := accounting.ValidateLines(entry.Lines)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	for i, l := range entry.Lines {
		if !l.Amount().Equal(domain.RoundMoney(l.Amount())) {
			return nil, fmt.Errorf("%w: line %d amount %s has more than %d decimal places", apperrors.ErrValidation, i+1, l.Amount().String(), domain.MinorUnitPlaces)
		}
	}

	ids := make([]string, 0, len(entry.Lines))
	seen := make(map[string]bool, len(entry.Lines))
	for _, l := range entry.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return nil, &apperrors.UnknownAccountError{AccountID: id}
		}
		if !acc.IsActive {
			return nil, &apperrors.UnknownAccountError{AccountID: id, Inactive: true}
		}
	}

	if !debits.Equal(credits) {
		return nil, &apperrors.ImbalancedEntryError{TotalDebits: debits, TotalCredits: credits}
	}

	fy, err := s.fiscalYearRepo.FindFiscalYearCovering(ctx, entry.EntryDate)
	if err != nil {
		if isNotFound(err) {
			return nil, &apperrors.ClosedPeriodError{Date: entry.EntryDate}
		}
		return nil, err
	}
	if fy.IsClosed {
		return nil, &apperrors.ClosedPeriodError{FiscalYearID: fy.FiscalYearID, Date: entry.EntryDate}
	}
	entry.FiscalYearID = fy.FiscalYearID
	return accounts, nil
}

func entryFromRequest(req dto.CreateJournalEntryRequest) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return domain.JournalEntry{
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Lines:         lines,
	}
}
