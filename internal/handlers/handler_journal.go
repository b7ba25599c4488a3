package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// journalHandler handles HTTP requests for the journal entry engine.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.GET("/number/:entryNumber", h.getEntryByNumber)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Journal entry posted",
		slog.Int64("entry_number", entry.EntryNumber),
		slog.String("entry_id", entry.EntryID),
		slog.String("total", entry.TotalDebits().String()))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) getEntryByNumber(c *gin.Context) {
	entryNumber, err := strconv.ParseInt(c.Param("entryNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apperrors.CodeInvalidInput, "error": "entryNumber must be an integer"})
		return
	}

	entry, err := h.journalService.GetEntryByNumber(c.Request.Context(), entryNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)
	entryID := c.Param("entryID")

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", entryID),
		slog.Int64("reversal_entry_number", reversal.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
