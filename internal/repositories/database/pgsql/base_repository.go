package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/ledger_backend/internal/apperrors"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// Constraint names the repositories map to application errors.
const (
	constraintAccountNumber = "uq_accounts_number"
	constraintPeriodMonth   = "uq_periods_year_month"
	constraintEntrySource   = "uq_journal_entries_source"
)

// BaseRepository provides common transaction plumbing for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBUnavailable, "failed to begin transaction", err)
	}
	return tx, nil
}

// Rollback rolls back a transaction, ignoring the already-committed case.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		_ = err // nothing useful to do; the commit path reports real failures
	}
}

// translateError maps low-level pgx failures onto application errors so no
// raw driver error crosses the engine boundary. Unique violations map by
// constraint name; connectivity failures map to db_unavailable.
func translateError(err error, message string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case constraintEntrySource:
				return apperrors.Wrap(apperrors.CodeDuplicateSource, "an entry for this source already exists", err)
			case constraintAccountNumber:
				return apperrors.ErrDuplicate
			case constraintPeriodMonth:
				return apperrors.ErrDuplicate
			default:
				return apperrors.ErrDuplicate
			}
		}
		return apperrors.Wrap(apperrors.CodeInternal, message, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.CodeDBUnavailable, message, err)
	}
	return apperrors.Wrap(apperrors.CodeInternal, message, err)
}
