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

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `
	period_id, name, start_date, end_date, fiscal_year, fiscal_quarter, fiscal_month, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID, &p.Name, &p.StartDate, &p.EndDate,
		&p.FiscalYear, &p.FiscalQuarter, &p.FiscalMonth, &p.Status,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID, period.Name, period.StartDate, period.EndDate,
		period.FiscalYear, period.FiscalQuarter, period.FiscalMonth, period.Status,
		period.CreatedAt, period.CreatedBy, period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to insert accounting period "+period.Name)
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1`

	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to find accounting period "+periodID)
	}
	return &period, nil
}

func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE $1::date BETWEEN start_date AND end_date
		ORDER BY start_date ASC
		LIMIT 1`

	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError(err, "failed to resolve accounting period for date")
	}
	return &period, nil
}

func (r *PgxPeriodRepository) ExistsForYearMonth(ctx context.Context, fiscalYear, fiscalMonth int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounting_periods WHERE fiscal_year = $1 AND fiscal_month = $2)`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, fiscalYear, fiscalMonth).Scan(&exists); err != nil {
		return false, translateError(err, "failed to check period existence")
	}
	return exists, nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods`
	args := []any{}
	if fiscalYear != 0 {
		query += ` WHERE fiscal_year = $1`
		args = append(args, fiscalYear)
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to list accounting periods")
	}
	defer rows.Close()

	var periods []domain.AccountingPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan period row")
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed reading period rows")
	}
	return periods, nil
}

// UpdatePeriodStatus flips the period status only if the row still holds the
// expected from status, so two concurrent close calls cannot both succeed.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.PeriodStatus, actor string, at time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1 AND status = $2`

	tag, err := r.Pool.Exec(ctx, query, periodID, from, to, at, actor)
	if err != nil {
		return translateError(err, "failed to update period status "+periodID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
