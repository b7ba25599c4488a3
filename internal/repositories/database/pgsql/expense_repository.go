package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `
	expense_id, expense_number, vendor, category_account, amount, expense_date,
	description, status, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	var journalEntryID *string
	err := row.Scan(
		&e.ExpenseID, &e.ExpenseNumber, &e.Vendor, &e.CategoryAccount, &e.Amount, &e.ExpenseDate,
		&e.Description, &e.Status, &journalEntryID,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if journalEntryID != nil {
		e.JournalEntryID = *journalEntryID
	}
	return e, err
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID, expense.ExpenseNumber, expense.Vendor, expense.CategoryAccount,
		expense.Amount, expense.ExpenseDate, expense.Description, expense.Status,
		nullable(expense.JournalEntryID),
		expense.CreatedAt, expense.CreatedBy, expense.LastUpdatedAt, expense.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert expense "+expense.ExpenseID)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1`

	expense, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to find expense "+expenseID)
	}
	return &expense, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, status domain.ExpenseStatus) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY expense_number DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to list expenses")
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan expense row")
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading expense rows")
	}
	return expenses, nil
}

// MarkExpensePaid is conditional on the expense still being PENDING so a
// double pay call cannot post twice.
func (r *PgxExpenseRepository) MarkExpensePaid(ctx context.Context, expenseID, journalEntryID string, actor string, at time.Time) error {
	query := `
		UPDATE expenses
		SET status = $2, journal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $1 AND status = $6`

	tag, err := r.Pool.Exec(ctx, query,
		expenseID, domain.ExpensePaid, journalEntryID, at, actor, domain.ExpensePending,
	)
	if err != nil {
		return translateError(err, "failed to mark expense paid "+expenseID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "expense is not pending")
	}
	return nil
}
