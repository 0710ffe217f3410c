package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	ledger portssvc.LedgerReaderSvc
}

// registerReportingRoutes registers report routes nested under a fiscal year.
func registerReportingRoutes(fiscalYears *gin.RouterGroup, ledger portssvc.LedgerReaderSvc) {
	h := &reportingHandler{ledger: ledger}
	fiscalYears.GET("/:id/trial-balance", h.getTrialBalance)
}

// getTrialBalance godoc
// @Summary Trial balance of a fiscal year
// @Description Sums posted lines per account over the fiscal year
// @Tags reports
// @Produce json
// @Param id path string true "Fiscal year ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Fiscal year not found"
// @Failure 500 {object} errorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /fiscal-years/{id}/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("id")
	logger = logger.With(slog.String("fiscal_year_id", fiscalYearID))
	logger.Info("Received request to generate trial balance report")

	tb, err := h.ledger.GetTrialBalance(c.Request.Context(), fiscalYearID)
	if err != nil {
		respondError(c, err, "GetTrialBalance")
		return
	}

	logger.Info("Trial balance report generated successfully",
		slog.Int("row_count", len(tb.ByAccount)),
		slog.Bool("balanced", tb.IsBalanced()))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
