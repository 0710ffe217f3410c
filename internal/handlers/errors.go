package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeImbalanced       = "IMBALANCED_ENTRY"
	codeUnknownAccount   = "UNKNOWN_ACCOUNT"
	codeClosedPeriod     = "CLOSED_PERIOD"
	codeDuplicatePeriod  = "DUPLICATE_PERIOD"
	codeStaleCalculation = "STALE_CALCULATION"
	codeStaleState       = "STALE_STATE"
	codePermissionDenied = "PERMISSION_DENIED"
	codeNotFound         = "NOT_FOUND"
	codeConflict         = "CONFLICT"
	codeInternal         = "INTERNAL_ERROR"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// classify maps a service error onto an HTTP status, error code and optional details.
func classify(err error) (int, errorResponse) {
	var (
		calcErr     *apperrors.CalculationError
		imbalanced  *apperrors.ImbalancedEntryError
		unknownAcc  *apperrors.UnknownAccountError
		closed      *apperrors.ClosedPeriodError
		dupPeriod   *apperrors.DuplicatePeriodError
		staleCalc   *apperrors.StaleCalculationError
		staleState  *apperrors.StaleStateError
		denied      *apperrors.PermissionDeniedError
		appErr      *apperrors.AppError
		disburseErr *apperrors.DisbursementError
	)
	msg := err.Error()

	switch {
	case errors.As(err, &denied):
		return http.StatusForbidden, errorResponse{Error: msg, Code: codePermissionDenied}
	case errors.As(err, &calcErr):
		return http.StatusUnprocessableEntity, errorResponse{Error: msg, Code: string(calcErr.Reason)}
	case errors.As(err, &imbalanced):
		return http.StatusUnprocessableEntity, errorResponse{Error: msg, Code: codeImbalanced, Details: map[string]any{
			"totalDebits":  imbalanced.TotalDebits,
			"totalCredits": imbalanced.TotalCredits,
		}}
	case errors.As(err, &unknownAcc):
		return http.StatusUnprocessableEntity, errorResponse{Error: msg, Code: codeUnknownAccount, Details: map[string]any{
			"accountID": unknownAcc.AccountID,
			"inactive":  unknownAcc.Inactive,
		}}
	case errors.As(err, &closed):
		return http.StatusConflict, errorResponse{Error: msg, Code: codeClosedPeriod}
	case errors.As(err, &dupPeriod):
		return http.StatusConflict, errorResponse{Error: msg, Code: codeDuplicatePeriod, Details: map[string]any{
			"existingID": dupPeriod.ExistingID,
		}}
	case errors.As(err, &staleCalc):
		return http.StatusConflict, errorResponse{Error: msg, Code: codeStaleCalculation, Details: map[string]any{
			"field":  staleCalc.Field,
			"stored": staleCalc.Stored,
			"fresh":  staleCalc.Fresh,
		}}
	case errors.As(err, &staleState):
		return http.StatusConflict, errorResponse{Error: msg, Code: codeStaleState, Details: map[string]any{
			"expected": staleState.Expected,
			"actual":   staleState.Actual,
		}}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: msg, Code: codeNotFound}
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, errorResponse{Error: msg, Code: codeValidation}
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, errorResponse{Error: msg, Code: codeConflict}
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		return appErr.Code, errorResponse{Error: appErr.Message, Code: codeValidation}
	}

	body := errorResponse{Error: "internal server error", Code: codeInternal}
	if errors.As(err, &disburseErr) {
		body.Error = "disbursement failed; nothing was written"
	}
	return http.StatusInternalServerError, body
}

// respondError writes the classified error and logs it at a level matching the status.
func respondError(c *gin.Context, err error, operation string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, body := classify(err)
	attrs := []any{slog.String("operation", operation), slog.Int("status", status), slog.String("error", err.Error())}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", attrs...)
		_ = c.Error(err)
	} else {
		logger.Warn("Request rejected", attrs...)
	}
	c.JSON(status, body)
}

// respondBindError reports a malformed request body or query.
func respondBindError(c *gin.Context, err error, operation string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request",
		slog.String("operation", operation), slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format: " + err.Error(), Code: codeValidation})
}

// requireActor returns the authenticated caller or aborts with 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Code: codePermissionDenied})
		return domain.Actor{}, false
	}
	return actor, true
}
