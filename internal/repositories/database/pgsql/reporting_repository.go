package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// entryFilter restricts aggregation to posted entries, excluding reversal
// entries. A reversed original drops out via its REVERSED status, so skipping
// its reversal keeps the books net of the whole pair.
const entryFilter = `e.status = 'POSTED' AND e.reversal_of_entry_id IS NULL`

func (r *PgxReportingRepository) GetTrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_number, a.name, a.account_type,
			COALESCE(SUM(l.debit), 0) AS total_debits,
			COALESCE(SUM(l.credit), 0) AS total_credits
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + entryFilter + ` AND e.entry_date <= $1
		GROUP BY a.account_number, a.name, a.account_type
		ORDER BY a.account_number ASC`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, translateError(err, "failed to query trial balance")
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountNumber, &row.AccountName, &row.AccountType, &row.TotalDebits, &row.TotalCredits); err != nil {
			return nil, translateError(err, "failed to scan trial balance row")
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading trial balance rows")
	}
	return result, nil
}

func (r *PgxReportingRepository) GetNetAmountsByType(ctx context.Context, from, to time.Time, types []domain.AccountType) (map[domain.AccountType][]domain.AccountAmount, error) {
	query := `
		SELECT a.account_type, a.account_number, a.name, a.sub_type,
			COALESCE(SUM(CASE WHEN a.normal_balance = 'DEBIT'
				THEN l.debit - l.credit
				ELSE l.credit - l.debit END), 0) AS net_amount
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + entryFilter + `
			AND e.entry_date >= $1 AND e.entry_date <= $2
			AND a.account_type = ANY($3)
		GROUP BY a.account_type, a.account_number, a.name, a.sub_type
		ORDER BY a.account_number ASC`

	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	rows, err := r.Pool.Query(ctx, query, from, to, typeStrings)
	if err != nil {
		return nil, translateError(err, "failed to query net amounts by type")
	}
	defer rows.Close()

	result := make(map[domain.AccountType][]domain.AccountAmount, len(types))
	for rows.Next() {
		var accountType domain.AccountType
		var amount domain.AccountAmount
		if err := rows.Scan(&accountType, &amount.AccountNumber, &amount.Name, &amount.SubType, &amount.NetAmount); err != nil {
			return nil, translateError(err, "failed to scan net amount row")
		}
		result[accountType] = append(result[accountType], amount)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading net amount rows")
	}
	return result, nil
}

func (r *PgxReportingRepository) GetAccountNetChange(ctx context.Context, from, to time.Time, accountNumbers []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT l.account_number, COALESCE(SUM(l.debit - l.credit), 0) AS net_change
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE ` + entryFilter + `
			AND e.entry_date >= $1 AND e.entry_date <= $2
			AND l.account_number = ANY($3)
		GROUP BY l.account_number`

	rows, err := r.Pool.Query(ctx, query, from, to, accountNumbers)
	if err != nil {
		return nil, translateError(err, "failed to query account net change")
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal, len(accountNumbers))
	for rows.Next() {
		var number string
		var change decimal.Decimal
		if err := rows.Scan(&number, &change); err != nil {
			return nil, translateError(err, "failed to scan net change row")
		}
		result[number] = change
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading net change rows")
	}
	return result, nil
}

func (r *PgxReportingRepository) GetEntryAmounts(ctx context.Context, from, to time.Time) ([]domain.EntryAmount, error) {
	query := `
		SELECT e.entry_id, e.entry_number, e.source_type, COALESCE(SUM(l.debit), 0) AS amount
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE ` + entryFilter + `
			AND e.entry_date >= $1 AND e.entry_date <= $2
		GROUP BY e.entry_id, e.entry_number, e.source_type
		ORDER BY e.entry_number ASC`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, translateError(err, "failed to query entry amounts")
	}
	defer rows.Close()

	var result []domain.EntryAmount
	for rows.Next() {
		var ea domain.EntryAmount
		if err := rows.Scan(&ea.EntryID, &ea.EntryNumber, &ea.SourceType, &ea.Amount); err != nil {
			return nil, translateError(err, "failed to scan entry amount row")
		}
		result = append(result, ea)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading entry amount rows")
	}
	return result, nil
}
