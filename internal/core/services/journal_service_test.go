package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/core/services"
	"github.com/finbooks/ledger_backend/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockSeq         *MockSequenceRepository
	mockAccountSvc  *MockAccountSvc
	mockPeriodSvc   *MockPeriodSvc
	service         portssvc.JournalSvcFacade
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockSeq = new(MockSequenceRepository)
	suite.mockAccountSvc = new(MockAccountSvc)
	suite.mockPeriodSvc = new(MockPeriodSvc)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockSeq, suite.mockAccountSvc, suite.mockPeriodSvc)
}

// --- Helpers ---

func testAccount(number, name string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		Name:          name,
		AccountType:   accountType,
		NormalBalance: domain.NormalBalanceFor(accountType),
		IsActive:      true,
	}
}

func openPeriodFor(date time.Time) *domain.AccountingPeriod {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &domain.AccountingPeriod{
		PeriodID:    uuid.NewString(),
		Name:        date.Month().String(),
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, -1),
		FiscalYear:  date.Year(),
		FiscalMonth: int(date.Month()),
		Status:      domain.PeriodOpen,
	}
}

func balancedRequest(amount string) dto.CreateJournalEntryRequest {
	amt := decimal.RequireFromString(amount)
	return dto.CreateJournalEntryRequest{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Consulting invoice",
		Lines: []dto.CreateLineRequest{
			{AccountNumber: domain.AcctAccountsReceivable, Debit: amt},
			{AccountNumber: domain.AcctServiceRevenue, Credit: amt},
		},
	}
}

func (suite *JournalServiceTestSuite) expectResolvedAccounts(accounts ...domain.Account) {
	byNumber := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.AccountNumber] = a
	}
	suite.mockAccountSvc.On("GetAccountsByNumbers", mock.Anything, mock.Anything).Return(byNumber, nil)
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := balancedRequest("1500.00")
	ar := testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset)
	revenue := testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue)
	period := openPeriodFor(req.Date)

	suite.expectResolvedAccounts(ar, revenue)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, req.Date).Return(period, nil)
	suite.mockSeq.On("Next", ctx, services.SeriesJournalEntries, int64(services.SeriesJournalEntriesStart)).Return(int64(10001), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(int64(10001), entry.EntryNumber)
	suite.Equal(domain.EntryPosted, entry.Status)
	suite.Equal(domain.SourceManual, entry.SourceType)
	suite.Equal(period.PeriodID, entry.PeriodID)
	suite.True(entry.IsBalanced())

	// Lines carry the account snapshot taken at posting time.
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(ar.AccountID, entry.Lines[0].AccountID)
	suite.Equal("Accounts Receivable", entry.Lines[0].AccountName)
	suite.Equal("Service Revenue", entry.Lines[1].AccountName)

	suite.Require().Len(entry.Audit, 1)
	suite.Equal(domain.AuditCreated, entry.Audit[0].Action)
	suite.Equal("alice", entry.Audit[0].Actor)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockSeq.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnbalancedRejected() {
	ctx := context.Background()
	req := balancedRequest("100.00")
	req.Lines[1].Credit = decimal.RequireFromString("100.02")

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeDebitsCreditsMismatch, apperrors.CodeOf(err))

	// The mismatch details report both computed totals.
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("100", appErr.Details["totalDebits"])
	suite.Equal("100.02", appErr.Details["totalCredits"])

	// A rejected entry never draws a sequence number.
	suite.mockSeq.AssertNotCalled(suite.T(), "Next", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_WithinEpsilonAccepted() {
	ctx := context.Background()
	req := balancedRequest("333.33")
	// One cent apart: inside the rounding tolerance.
	req.Lines[1].Credit = decimal.RequireFromString("333.34")
	ar := testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset)
	revenue := testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue)

	suite.expectResolvedAccounts(ar, revenue)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, req.Date).Return(openPeriodFor(req.Date), nil)
	suite.mockSeq.On("Next", ctx, services.SeriesJournalEntries, int64(services.SeriesJournalEntriesStart)).Return(int64(10001), nil)
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil)

	entry, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().NoError(err)
	suite.True(entry.IsBalanced())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleLineRejected() {
	ctx := context.Background()
	req := balancedRequest("50.00")
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NegativeAmountRejected() {
	ctx := context.Background()
	req := balancedRequest("50.00")
	req.Lines[0].Debit = decimal.RequireFromString("-50.00")
	req.Lines[1].Credit = decimal.RequireFromString("-50.00")

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccountRejected() {
	ctx := context.Background()
	req := balancedRequest("75.00")
	// Only one of the two referenced accounts exists.
	suite.expectResolvedAccounts(testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset))

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeAccountNotFound, apperrors.CodeOf(err))
	suite.mockSeq.AssertNotCalled(suite.T(), "Next", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	ctx := context.Background()
	req := balancedRequest("75.00")
	ar := testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset)
	revenue := testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue)
	revenue.IsActive = false

	suite.expectResolvedAccounts(ar, revenue)

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeAccountNotFound, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ClosedPeriodRejected() {
	ctx := context.Background()
	req := balancedRequest("200.00")
	period := openPeriodFor(req.Date)
	period.Status = domain.PeriodClosed

	suite.expectResolvedAccounts(
		testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset),
		testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue),
	)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, req.Date).Return(period, nil)

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodePeriodClosed, apperrors.CodeOf(err))
	suite.mockSeq.AssertNotCalled(suite.T(), "Next", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LockedPeriodRejected() {
	ctx := context.Background()
	req := balancedRequest("200.00")
	period := openPeriodFor(req.Date)
	period.Status = domain.PeriodLocked

	suite.expectResolvedAccounts(
		testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset),
		testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue),
	)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, req.Date).Return(period, nil)

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodePeriodLocked, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoPeriodRejected() {
	ctx := context.Background()
	req := balancedRequest("200.00")

	suite.expectResolvedAccounts(
		testAccount(domain.AcctAccountsReceivable, "Accounts Receivable", domain.Asset),
		testAccount(domain.AcctServiceRevenue, "Service Revenue", domain.Revenue),
	)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, req.Date).
		Return(nil, apperrors.New(apperrors.CodeNoOpenPeriod, "no accounting period contains 2024-03-15"))

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeNoOpenPeriod, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_MissingDescriptionRejected() {
	ctx := context.Background()
	req := balancedRequest("10.00")
	req.Description = ""

	_, err := suite.service.CreateEntry(ctx, req, "alice")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

// --- ReverseEntry ---

func postedEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	amt := decimal.RequireFromString("850.00")
	return &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: 10001,
		EntryDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PostingDate: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		PeriodID:    uuid.NewString(),
		Description: "Consulting invoice",
		SourceType:  domain.SourceInvoice,
		SourceID:    "inv-42",
		Status:      domain.EntryPosted,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountNumber: domain.AcctAccountsReceivable, AccountName: "Accounts Receivable", Debit: amt, Project: "atlas"},
			{LineID: uuid.NewString(), EntryID: entryID, AccountNumber: domain.AcctServiceRevenue, AccountName: "Service Revenue", Credit: amt, Project: "atlas"},
		},
	}
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := postedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, mock.AnythingOfType("time.Time")).Return(openPeriodFor(time.Now().UTC()), nil)
	suite.mockSeq.On("Next", ctx, services.SeriesJournalEntries, int64(services.SeriesJournalEntriesStart)).Return(int64(10002), nil)
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), original.EntryID, mock.AnythingOfType("domain.AuditRecord"), "bob", mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, original.EntryID, "bob")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(int64(10002), reversal.EntryNumber)
	suite.Equal(original.EntryID, reversal.ReversalOfEntryID)
	suite.Equal(domain.SourceAdjustment, reversal.SourceType)
	suite.True(reversal.IsBalanced())

	// Debits and credits are swapped per line; dimensions survive.
	suite.Require().Len(reversal.Lines, 2)
	suite.True(reversal.Lines[0].Credit.Equal(original.Lines[0].Debit))
	suite.True(reversal.Lines[1].Debit.Equal(original.Lines[1].Credit))
	suite.Equal("atlas", reversal.Lines[0].Project)

	suite.Contains(reversal.Description, "Reversal of entry #10001")
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := postedEntry()
	original.Status = domain.EntryReversed

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil)

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, "bob")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeAlreadyReversed, apperrors.CodeOf(err))
	suite.mockSeq.AssertNotCalled(suite.T(), "Next", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	original := postedEntry()
	original.Status = domain.EntryDraft

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil)

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, "bob")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeCanOnlyReversePosted, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestReverseEntry_LockedPeriodRejected() {
	ctx := context.Background()
	original := postedEntry()
	lockedPeriod := openPeriodFor(original.EntryDate)
	lockedPeriod.Status = domain.PeriodLocked

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, original.EntryDate).Return(lockedPeriod, nil)

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, "bob")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodePeriodLocked, apperrors.CodeOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_LostRace() {
	ctx := context.Background()
	original := postedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil)
	suite.mockPeriodSvc.On("ResolveForDate", ctx, mock.AnythingOfType("time.Time")).Return(openPeriodFor(time.Now().UTC()), nil)
	suite.mockSeq.On("Next", ctx, services.SeriesJournalEntries, int64(services.SeriesJournalEntriesStart)).Return(int64(10002), nil)
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.Anything, original.EntryID, mock.Anything, "bob", mock.Anything).
		Return(apperrors.New(apperrors.CodeAlreadyReversed, "entry has already been reversed"))

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, "bob")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeAlreadyReversed, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindEntryByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.ReverseEntry(ctx, "missing", "bob")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
}

// --- Listing ---

func (suite *JournalServiceTestSuite) TestListEntries_DefaultLimit() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ListEntries", ctx, domain.SourceType(""), domain.EntryStatus(""), (*time.Time)(nil), (*time.Time)(nil), 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	page, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Empty(page.Entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
