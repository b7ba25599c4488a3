package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/ledger_backend/internal/core/services"
)

// RegisterRoutes sets up all application routes, injecting service dependencies.
func RegisterRoutes(r *gin.Engine, svc *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")

	registerAccountRoutes(v1, svc.Accounts)
	registerPeriodRoutes(v1, svc.Periods)
	registerJournalRoutes(v1, svc.Journal)
	registerPostingRoutes(v1, svc.Posting)
	registerExpenseRoutes(v1, svc.Expenses)
	registerReportingRoutes(v1, svc.Reporting)
}
