package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// postingHandler accepts business events from the sibling subsystems and
// translates them into journal entries.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers the auto-posting event endpoints.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	events := rg.Group("/events")
	{
		events.POST("/invoices", h.postInvoice)
		events.POST("/invoice-adjustments", h.postInvoiceAdjustment)
		events.POST("/payments", h.postPayment)
		events.POST("/refunds", h.postRefund)
		events.POST("/time-entries", h.postTimeEntry)
		events.POST("/renewals", h.postRenewal)
		events.POST("/recognitions", h.postRecognition)
		events.GET("/:sourceType/:sourceID/exists", h.existsForSource)
	}

	repost := rg.Group("/repost")
	{
		repost.POST("/invoices", h.repostInvoices)
		repost.POST("/payments", h.repostPayments)
		repost.POST("/time-entries", h.repostTimeEntries)
		repost.POST("/renewals", h.repostRenewals)
	}
}

// respondPosted writes the created entry, or a no-op marker when the event
// produced nothing (zero amount, missing mapped account, duplicate source).
func respondPosted(c *gin.Context, entry *domain.JournalEntry, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"posted": false})
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Event posted to ledger",
		slog.Int64("entry_number", entry.EntryNumber),
		slog.String("source_type", string(entry.SourceType)),
		slog.String("source_id", entry.SourceID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *postingHandler) postInvoice(c *gin.Context) {
	var ev dto.InvoiceEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostInvoiceCreated(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postInvoiceAdjustment(c *gin.Context) {
	var ev dto.InvoiceAdjustmentEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostInvoiceAdjustment(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postPayment(c *gin.Context) {
	var ev dto.PaymentEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostPaymentReceived(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postRefund(c *gin.Context) {
	var ev dto.RefundEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostRefundIssued(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postTimeEntry(c *gin.Context) {
	var ev dto.TimeEntryEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostTimeEntry(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postRenewal(c *gin.Context) {
	var ev dto.RenewalEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostRenewalCreated(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) postRecognition(c *gin.Context) {
	var ev dto.RecognitionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.postingService.PostRevenueRecognition(c.Request.Context(), ev, middleware.GetActorFromContext(c))
	respondPosted(c, entry, err)
}

func (h *postingHandler) existsForSource(c *gin.Context) {
	sourceType := domain.SourceType(c.Param("sourceType"))
	if !domain.ValidSourceType(sourceType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source type"})
		return
	}

	exists, err := h.postingService.ExistsForSource(c.Request.Context(), sourceType, c.Param("sourceID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// repost runs a bulk idempotent posting job. Already-posted sources count as
// skipped, so rerunning a job is safe.
func repost[E any](c *gin.Context, fn func(ctx context.Context, events []E, actor string) dto.BulkPostResult) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var events []E
	if err := c.ShouldBindJSON(&events); err != nil {
		bindError(c, err)
		return
	}

	result := fn(c.Request.Context(), events, middleware.GetActorFromContext(c))
	logger.Info("Bulk repost finished",
		slog.Int("posted", result.Posted),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) repostInvoices(c *gin.Context) {
	repost(c, h.postingService.RepostInvoices)
}

func (h *postingHandler) repostPayments(c *gin.Context) {
	repost(c, h.postingService.RepostPayments)
}

func (h *postingHandler) repostTimeEntries(c *gin.Context) {
	repost(c, h.postingService.RepostTimeEntries)
}

func (h *postingHandler) repostRenewals(c *gin.Context) {
	repost(c, h.postingService.RepostRenewals)
}
