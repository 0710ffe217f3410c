package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/models"
	"github.com/SscSPs/waqf_ledger/internal/utils/mapping"
	"github.com/SscSPs/waqf_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, description, status, fiscal_year_id,
	reference_type, reference_id, reverses_entry_id, reversed_by_id, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit_amount, credit_amount, description`

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntry inserts the entry header and its lines in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.EntryID, m.EntryNumber, m.EntryDate, m.Description, m.Status, m.FiscalYearID,
		m.ReferenceType, m.ReferenceID, m.ReversesEntryID, m.ReversedByID, m.PostedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	for _, line := range entry.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(`INSERT INTO journal_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.LineID, l.EntryID, l.LineNumber, l.AccountID, l.DebitAmount, l.CreditAmount, l.Description)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			if isUniqueViolation(err) {
				batchErr = fmt.Errorf("%w: journal entry %s (%s) already exists", apperrors.ErrDuplicate, m.EntryID, m.EntryNumber)
			} else {
				batchErr = fmt.Errorf("failed to save journal entry %s: %w", m.EntryID, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal entry batch: %w", err)
	}
	return batchErr
}

// FindEntryByID retrieves an entry together with its ordered lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1`, entryID)
}

// FindEntryByIDForUpdate locks the entry header row.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE`, entryID)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, query string, entryID string) (*domain.JournalEntry, error) {
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entry %s: %w", entryID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, notFound(err, "failed to scan journal entry %s", entryID)
	}

	lineRows, err := r.db(ctx).Query(ctx,
		`SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal entry %s: %w", entryID, err)
	}
	lines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines of journal entry %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	entry.Lines = mapping.ToDomainJournalLineSlice(lines)
	return &entry, nil
}

// ListEntriesByFiscalYear retrieves a page of entries, newest first, using token-based pagination.
func (r *PgxJournalRepository) ListEntriesByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{fiscalYearID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE fiscal_year_id = $1`
	cur, hasCursor, err := pagination.Decode(nextToken)
	if err != nil {
		return nil, nil, err
	}
	if hasCursor {
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, cur.SortKey, cur.CreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries for fiscal year %s: %w", fiscalYearID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan journal entries: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token = pagination.After(last.EntryDate, last.CreatedAt).Token()
	}
	return mapping.ToDomainJournalEntrySlice(ms), token, nil
}

// MarkEntryPosted flips a draft to posted.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, fiscalYearID string, postedAt time.Time, userID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, fiscal_year_id = $3, posted_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $6`,
		entryID, string(domain.EntryPosted), fiscalYearID, postedAt, userID, string(domain.EntryDraft))
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	var status string
	err = r.db(ctx).QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1`, entryID).Scan(&status)
	if err != nil {
		return notFound(err, "failed to read status of journal entry %s", entryID)
	}
	return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: string(domain.EntryDraft), Actual: status}
}

// MarkEntryReversed links the original entry to its reversal, at most once.
func (r *PgxJournalRepository) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, userID string, now time.Time) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET reversed_by_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND reversed_by_id IS NULL`,
		entryID, reversingEntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s reversed: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.FindEntryByID(ctx, entryID); err != nil {
		return err
	}
	return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: "not reversed", Actual: "reversed"}
}

// SumPostedLinesByAccount totals posted lines per account, ordered by account code.
func (r *PgxJournalRepository) SumPostedLinesByAccount(ctx context.Context, fiscalYearID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       SUM(l.debit_amount) AS debit, SUM(l.credit_amount) AS credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.fiscal_year_id = $1 AND e.status = $2
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.db(ctx).Query(ctx, query, fiscalYearID, string(domain.EntryPosted))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate lines for fiscal year %s: %w", fiscalYearID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TrialBalanceRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan trial balance rows: %w", err)
	}
	return mapping.ToDomainTrialBalanceRows(ms), nil
}
