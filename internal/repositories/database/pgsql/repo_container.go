package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/ledger_backend/internal/core/services"
)

// NewRepos builds every pgsql repository over the shared connection pool.
func NewRepos(dbPool *pgxpool.Pool) services.Repos {
	return services.Repos{
		Accounts:  newPgxAccountRepository(dbPool),
		Periods:   newPgxPeriodRepository(dbPool),
		Journal:   newPgxJournalRepository(dbPool),
		Sequences: NewPgsqlSequenceRepository(dbPool),
		Expenses:  newPgxExpenseRepository(dbPool),
		Reporting: newPgxReportingRepository(dbPool),
	}
}
