package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/finbooks/ledger_backend/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `
	entry_id, entry_number, entry_date, posting_date, period_id, description,
	source_type, source_id, status, reversed_entry_id, reversal_of_entry_id, audit,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, entry_id, account_id, account_number, account_name,
	debit, credit, memo, department, project, cost_center`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var sourceID, reversedID, reversalOfID *string
	var auditRaw []byte
	err := row.Scan(
		&e.EntryID, &e.EntryNumber, &e.EntryDate, &e.PostingDate, &e.PeriodID, &e.Description,
		&e.SourceType, &sourceID, &e.Status, &reversedID, &reversalOfID, &auditRaw,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		return e, err
	}
	if sourceID != nil {
		e.SourceID = *sourceID
	}
	if reversedID != nil {
		e.ReversedEntryID = *reversedID
	}
	if reversalOfID != nil {
		e.ReversalOfEntryID = *reversalOfID
	}
	if len(auditRaw) > 0 {
		if err := json.Unmarshal(auditRaw, &e.Audit); err != nil {
			return e, err
		}
	}
	return e, nil
}

// nullable maps empty strings to NULL so the partial unique index on
// (source_type, source_id) never matches entries without a source document.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	auditJSON, err := json.Marshal(entry.Audit)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to encode audit trail", err)
	}

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID, entry.EntryNumber, entry.EntryDate, entry.PostingDate,
		entry.PeriodID, entry.Description, entry.SourceType, nullable(entry.SourceID),
		entry.Status, nullable(entry.ReversedEntryID), nullable(entry.ReversalOfEntryID), auditJSON,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert journal entry "+entry.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, line := range entry.Lines {
		batch.Queue(lineQuery,
			line.LineID, entry.EntryID, line.AccountID, line.AccountNumber, line.AccountName,
			line.Debit, line.Credit, line.Memo, line.Department, line.Project, line.CostCenter,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return translateError(err, "failed to insert journal line for entry "+entry.EntryID)
		}
	}
	return results.Close()
}

// SaveEntry writes the entry header and all lines in a single transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err, "failed to commit journal entry "+entry.EntryID)
	}
	return nil
}

// SaveReversal inserts the reversal entry and flips the original to REVERSED
// atomically. The flip is conditional on the original still being POSTED: if a
// concurrent reversal won, the transaction rolls back and already_reversed is
// returned so only one reversal can ever exist.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, auditOriginal domain.AuditRecord, actor string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	auditJSON, err := json.Marshal([]domain.AuditRecord{auditOriginal})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to encode audit trail", err)
	}

	flipQuery := `
		UPDATE journal_entries
		SET status = $2, reversed_entry_id = $3, audit = audit || $4::jsonb,
			last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND status = $7`

	tag, err := tx.Exec(ctx, flipQuery,
		originalEntryID, domain.EntryReversed, reversal.EntryID, auditJSON, at, actor, domain.EntryPosted,
	)
	if err != nil {
		return translateError(err, "failed to mark entry reversed "+originalEntryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeAlreadyReversed, "entry has already been reversed")
	}

	if err := insertEntryTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err, "failed to commit reversal of "+originalEntryID)
	}
	return nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, where string, arg any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + where

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to find journal entry")
	}

	lineQuery := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id`
	rows, err := r.Pool.Query(ctx, lineQuery, entry.EntryID)
	if err != nil {
		return nil, translateError(err, "failed to query journal lines for "+entry.EntryID)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.JournalLine
		err := rows.Scan(
			&l.LineID, &l.EntryID, &l.AccountID, &l.AccountNumber, &l.AccountName,
			&l.Debit, &l.Credit, &l.Memo, &l.Department, &l.Project, &l.CostCenter,
		)
		if err != nil {
			return nil, translateError(err, "failed to scan journal line")
		}
		entry.Lines = append(entry.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading journal lines")
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `entry_id = $1`, entryID)
}

func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber int64) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `entry_number = $1`, entryNumber)
}

// ListEntries returns entry headers without lines, newest first, with keyset
// pagination on (posting_date, entry_number).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, sourceType domain.SourceType, status domain.EntryStatus, from, to *time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argPos := 1

	addArg := func(clause string, v any) {
		query += ` AND ` + clause + `$` + strconv.Itoa(argPos)
		args = append(args, v)
		argPos++
	}

	if sourceType != "" {
		addArg(`source_type = `, sourceType)
	}
	if status != "" {
		addArg(`status = `, status)
	}
	if from != nil {
		addArg(`entry_date >= `, *from)
	}
	if to != nil {
		addArg(`entry_date <= `, *to)
	}

	if nextToken != nil && *nextToken != "" {
		postingDate, entryNumber, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid pagination token", err)
		}
		query += ` AND (posting_date, entry_number) < ($` + strconv.Itoa(argPos) + `, $` + strconv.Itoa(argPos+1) + `)`
		args = append(args, postingDate, entryNumber)
		argPos += 2
	}

	query += ` ORDER BY posting_date DESC, entry_number DESC LIMIT $` + strconv.Itoa(argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "failed to list journal entries")
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, translateError(err, "failed to scan journal entry row")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err, "failed reading journal entry rows")
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeEntryToken(last.PostingDate, last.EntryNumber)
		token = &t
	}
	return entries, token, nil
}

func (r *PgxJournalRepository) ExistsForSource(ctx context.Context, sourceType domain.SourceType, sourceID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM journal_entries
			WHERE source_type = $1 AND source_id = $2 AND status <> $3
		)`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, sourceType, sourceID, domain.EntryReversed).Scan(&exists); err != nil {
		return false, translateError(err, "failed to check source existence")
	}
	return exists, nil
}
