package services

import (
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
)

// Repos bundles the repository implementations the services are built from.
type Repos struct {
	Accounts  portsrepo.AccountRepositoryFacade
	Periods   portsrepo.PeriodRepositoryFacade
	Journal   portsrepo.JournalRepositoryFacade
	Sequences portsrepo.SequenceRepository
	Expenses  portsrepo.ExpenseRepositoryFacade
	Reporting portsrepo.ReportingRepository
}

// Container wires every service with its dependencies.
type Container struct {
	Accounts  portssvc.AccountSvcFacade
	Periods   portssvc.PeriodSvcFacade
	Journal   portssvc.JournalSvcFacade
	Posting   portssvc.PostingSvcFacade
	Expenses  portssvc.ExpenseSvcFacade
	Reporting portssvc.ReportingSvcFacade
}

// NewContainer builds the service graph: accounts and periods feed the journal
// engine, which the auto-posting adapter and expenses delegate to.
func NewContainer(repos Repos) *Container {
	accountSvc := NewAccountService(repos.Accounts)
	periodSvc := NewPeriodService(repos.Periods)
	journalSvc := NewJournalService(repos.Journal, repos.Sequences, accountSvc, periodSvc)
	postingSvc := NewPostingService(journalSvc, accountSvc, repos.Journal)
	expenseSvc := NewExpenseService(repos.Expenses, repos.Sequences, accountSvc, journalSvc)
	reportingSvc := NewReportingService(repos.Reporting)

	return &Container{
		Accounts:  accountSvc,
		Periods:   periodSvc,
		Journal:   journalSvc,
		Posting:   postingSvc,
		Expenses:  expenseSvc,
		Reporting: reportingSvc,
	}
}
