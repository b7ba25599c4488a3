package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// periodHandler handles HTTP requests for the accounting calendar.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to accounting periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.POST("/generate", h.generateYear)
		periods.GET("", h.listPeriods)
		periods.GET("/resolve", h.resolveForDate)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
	}
}

func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

func (h *periodHandler) generateYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	periods, err := h.periodService.GenerateYear(c.Request.Context(), req.FiscalYear, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Fiscal year generated", slog.Int("fiscal_year", req.FiscalYear), slog.Int("periods_created", len(periods)))
	c.JSON(http.StatusCreated, gin.H{"periods": dto.ToPeriodResponses(periods)})
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	fiscalYear := 0
	if yearStr := c.Query("fiscalYear"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": apperrors.CodeInvalidInput, "error": "fiscalYear must be an integer"})
			return
		}
		fiscalYear = year
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": dto.ToPeriodResponses(periods)})
}

func (h *periodHandler) resolveForDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": apperrors.CodeInvalidInput, "error": "date query parameter is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apperrors.CodeInvalidInput, "error": "date must be YYYY-MM-DD"})
		return
	}

	period, err := h.periodService.ResolveForDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	h.transition(c, h.periodService.ClosePeriod)
}

func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, h.periodService.ReopenPeriod)
}

func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, h.periodService.LockPeriod)
}

// transition runs one of the period lifecycle operations and reports the
// resulting state.
func (h *periodHandler) transition(c *gin.Context, fn func(ctx context.Context, periodID, actor string) (*domain.AccountingPeriod, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)
	periodID := c.Param("periodID")

	period, err := fn(c.Request.Context(), periodID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Period status changed",
		slog.String("period_id", periodID),
		slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
