package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/core/services"
	"github.com/finbooks/ledger_backend/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPeriodRepository
	service  portssvc.PeriodSvcFacade
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPeriodRepository)
	suite.service = services.NewPeriodService(suite.mockRepo)
}

func marchRequest() dto.CreatePeriodRequest {
	return dto.CreatePeriodRequest{
		StartDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:  2024,
		FiscalMonth: 3,
	}
}

func storedPeriod(status domain.PeriodStatus) *domain.AccountingPeriod {
	return &domain.AccountingPeriod{
		PeriodID:      uuid.NewString(),
		Name:          "March 2024",
		StartDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:    2024,
		FiscalQuarter: 1,
		FiscalMonth:   3,
		Status:        status,
	}
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_Success() {
	ctx := context.Background()
	suite.mockRepo.On("ExistsForYearMonth", ctx, 2024, 3).Return(false, nil)
	suite.mockRepo.On("SavePeriod", ctx, mock.AnythingOfType("domain.AccountingPeriod")).Return(nil)

	period, err := suite.service.CreatePeriod(ctx, marchRequest(), "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(period)
	suite.Equal("March 2024", period.Name)
	suite.Equal(1, period.FiscalQuarter)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_DuplicateMonthRejected() {
	ctx := context.Background()
	suite.mockRepo.On("ExistsForYearMonth", ctx, 2024, 3).Return(true, nil)

	_, err := suite.service.CreatePeriod(ctx, marchRequest(), "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_EndBeforeStartRejected() {
	ctx := context.Background()
	req := marchRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate

	_, err := suite.service.CreatePeriod(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_DuplicateRaceMapped() {
	ctx := context.Background()
	suite.mockRepo.On("ExistsForYearMonth", ctx, 2024, 3).Return(false, nil)
	// The unique constraint fires even though the pre-check passed.
	suite.mockRepo.On("SavePeriod", ctx, mock.AnythingOfType("domain.AccountingPeriod")).Return(apperrors.ErrDuplicate)

	_, err := suite.service.CreatePeriod(ctx, marchRequest(), "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *PeriodServiceTestSuite) TestGenerateYear_SkipsExistingMonths() {
	ctx := context.Background()
	for month := 1; month <= 12; month++ {
		exists := month <= 2
		// CreatePeriod re-checks, so existing months are asked once and the
		// rest twice.
		suite.mockRepo.On("ExistsForYearMonth", ctx, 2024, month).Return(exists, nil)
	}
	suite.mockRepo.On("SavePeriod", ctx, mock.AnythingOfType("domain.AccountingPeriod")).Return(nil)

	created, err := suite.service.GenerateYear(ctx, 2024, "admin")

	suite.Require().NoError(err)
	suite.Len(created, 10)
	suite.Equal(3, created[0].FiscalMonth)
	suite.Equal("March 2024", created[0].Name)
	// Month boundaries are full calendar months.
	suite.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), created[0].StartDate)
	suite.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), created[0].EndDate)
}

func (suite *PeriodServiceTestSuite) TestResolveForDate_NoPeriod() {
	ctx := context.Background()
	date := time.Date(2031, 7, 4, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("FindPeriodForDate", ctx, date).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.ResolveForDate(ctx, date)

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeNoOpenPeriod, apperrors.CodeOf(err))
}

func (suite *PeriodServiceTestSuite) TestResolveForDate_ReturnsWhateverStatus() {
	ctx := context.Background()
	locked := storedPeriod(domain.PeriodLocked)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("FindPeriodForDate", ctx, date).Return(locked, nil)

	period, err := suite.service.ResolveForDate(ctx, date)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodLocked, period.Status)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod() {
	ctx := context.Background()
	open := storedPeriod(domain.PeriodOpen)
	suite.mockRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(open, nil)
	suite.mockRepo.On("UpdatePeriodStatus", ctx, open.PeriodID, domain.PeriodOpen, domain.PeriodClosed, "admin", mock.AnythingOfType("time.Time")).Return(nil)

	period, err := suite.service.ClosePeriod(ctx, open.PeriodID, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodClosed, period.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod() {
	ctx := context.Background()
	closed := storedPeriod(domain.PeriodClosed)
	suite.mockRepo.On("FindPeriodByID", ctx, closed.PeriodID).Return(closed, nil)
	suite.mockRepo.On("UpdatePeriodStatus", ctx, closed.PeriodID, domain.PeriodClosed, domain.PeriodOpen, "admin", mock.AnythingOfType("time.Time")).Return(nil)

	period, err := suite.service.ReopenPeriod(ctx, closed.PeriodID, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
}

func (suite *PeriodServiceTestSuite) TestLockClosedPeriod() {
	ctx := context.Background()
	closed := storedPeriod(domain.PeriodClosed)
	suite.mockRepo.On("FindPeriodByID", ctx, closed.PeriodID).Return(closed, nil)
	suite.mockRepo.On("UpdatePeriodStatus", ctx, closed.PeriodID, domain.PeriodClosed, domain.PeriodLocked, "admin", mock.AnythingOfType("time.Time")).Return(nil)

	period, err := suite.service.LockPeriod(ctx, closed.PeriodID, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodLocked, period.Status)
}

func (suite *PeriodServiceTestSuite) TestLockedPeriodIsTerminal() {
	ctx := context.Background()
	locked := storedPeriod(domain.PeriodLocked)
	suite.mockRepo.On("FindPeriodByID", ctx, locked.PeriodID).Return(locked, nil)

	_, err := suite.service.ReopenPeriod(ctx, locked.PeriodID, "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodePeriodLocked, apperrors.CodeOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestReopenOpenPeriodRejected() {
	ctx := context.Background()
	open := storedPeriod(domain.PeriodOpen)
	suite.mockRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(open, nil)

	_, err := suite.service.ReopenPeriod(ctx, open.PeriodID, "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *PeriodServiceTestSuite) TestTransition_LostRace() {
	ctx := context.Background()
	open := storedPeriod(domain.PeriodOpen)
	suite.mockRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(open, nil)
	// The conditional update matched zero rows: someone else moved the period.
	suite.mockRepo.On("UpdatePeriodStatus", ctx, open.PeriodID, domain.PeriodOpen, domain.PeriodClosed, "admin", mock.AnythingOfType("time.Time")).Return(apperrors.ErrNotFound)

	_, err := suite.service.ClosePeriod(ctx, open.PeriodID, "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func (suite *PeriodServiceTestSuite) TestTransition_PeriodNotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindPeriodByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.ClosePeriod(ctx, "missing", "admin")

	suite.Require().Error(err)
	suite.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
