package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, account_number, name, account_type, sub_type, normal_balance,
	parent_number, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.AccountNumber, &a.Name, &a.AccountType, &a.SubType, &a.NormalBalance,
		&a.ParentNumber, &a.Description, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.AccountNumber, account.Name, account.AccountType,
		account.SubType, account.NormalBalance, account.ParentNumber, account.Description,
		account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert account "+account.AccountNumber)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to find account "+number)
	}
	return &account, nil
}

func (r *PgxAccountRepository) FindAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error) {
	if len(numbers) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = ANY($1)`

	rows, err := r.Pool.Query(ctx, query, numbers)
	if err != nil {
		return nil, translateError(err, "failed to query accounts by number")
	}
	defer rows.Close()

	found := make(map[string]domain.Account, len(numbers))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan account row")
		}
		found[account.AccountNumber] = account
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading account rows")
	}
	return found, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, accountType domain.AccountType, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	argPos := 1

	if accountType != "" {
		query += ` AND account_type = $` + strconv.Itoa(argPos)
		args = append(args, accountType)
		argPos++
	}
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY account_number ASC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan account row")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading account rows")
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, sub_type = $3, parent_number = $4, description = $5,
			is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1`

	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.Name, account.SubType, account.ParentNumber,
		account.Description, account.IsActive, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to update account "+account.AccountNumber)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
