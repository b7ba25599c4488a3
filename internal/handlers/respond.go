package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// statusForCode maps stable engine error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeAccountNotFound:
		return http.StatusNotFound
	case apperrors.CodeDebitsCreditsMismatch, apperrors.CodeNoOpenPeriod:
		return http.StatusUnprocessableEntity
	case apperrors.CodePeriodClosed, apperrors.CodePeriodLocked,
		apperrors.CodeAlreadyReversed, apperrors.CodeCanOnlyReversePosted,
		apperrors.CodeDuplicateAccount, apperrors.CodeDuplicateSource:
		return http.StatusConflict
	case apperrors.CodeDBUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the stable error code, message and details for err.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := apperrors.CodeOf(err)
	status := statusForCode(code)

	body := gin.H{"code": code, "error": err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("code", code), slog.String("error", err.Error()))
		body["error"] = "internal server error"
	} else {
		logger.Warn("Request rejected", slog.String("code", code), slog.String("error", err.Error()))
	}
	c.JSON(status, body)
}

// bindError writes a 400 for a request body or query that failed binding.
func bindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"code": apperrors.CodeInvalidInput, "error": "Invalid request format: " + err.Error()})
}
