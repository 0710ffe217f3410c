package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fiscalYearHandler struct {
	fiscalYears portssvc.FiscalYearSvcFacade
}

// registerFiscalYearRoutes registers fiscal year routes and returns the group so
// reports can nest under it.
func registerFiscalYearRoutes(rg *gin.RouterGroup, fiscalYears portssvc.FiscalYearSvcFacade) *gin.RouterGroup {
	h := &fiscalYearHandler{fiscalYears: fiscalYears}

	group := rg.Group("/fiscal-years")
	{
		group.POST("", h.createFiscalYear)
		group.GET("", h.listFiscalYears)
		group.GET("/:id", h.getFiscalYear)
		group.POST("/:id/close", h.closeFiscalYear)
	}
	return group
}

// createFiscalYear godoc
// @Summary Open a fiscal year
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   fiscalYear body dto.CreateFiscalYearRequest true "Name and inclusive date range"
// @Success 201 {object} domain.FiscalYear
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 409 {object} errorResponse "Overlaps an existing fiscal year"
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateFiscalYear")
		return
	}

	fy, err := h.fiscalYears.CreateFiscalYear(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "CreateFiscalYear")
		return
	}

	logger.Info("Fiscal year created successfully", slog.String("fiscal_year_id", fy.FiscalYearID))
	c.JSON(http.StatusCreated, fy)
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Tags fiscal-years
// @Produce  json
// @Success 200 {array} domain.FiscalYear
// @Security BearerAuth
// @Router /fiscal-years [get]
func (h *fiscalYearHandler) listFiscalYears(c *gin.Context) {
	years, err := h.fiscalYears.ListFiscalYears(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListFiscalYears")
		return
	}
	c.JSON(http.StatusOK, years)
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Tags fiscal-years
// @Produce  json
// @Param   id path string true "Fiscal year ID"
// @Success 200 {object} domain.FiscalYear
// @Failure 404 {object} errorResponse "Fiscal year not found"
// @Security BearerAuth
// @Router /fiscal-years/{id} [get]
func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	fy, err := h.fiscalYears.GetFiscalYear(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetFiscalYear")
		return
	}
	c.JSON(http.StatusOK, fy)
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Computes the closing summary. With previewOnly nothing is written; otherwise the closing entry is posted and the year closed.
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   id path string true "Fiscal year ID"
// @Param   body body dto.CloseFiscalYearRequest false "Close options"
// @Success 200 {object} domain.ClosingSummary
// @Failure 403 {object} errorResponse "Role may not close or preview"
// @Failure 409 {object} errorResponse "Fiscal year already closed"
// @Security BearerAuth
// @Router /fiscal-years/{id}/close [post]
func (h *fiscalYearHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CloseFiscalYearRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "CloseFiscalYear")
			return
		}
	}

	fiscalYearID := c.Param("id")
	summary, err := h.fiscalYears.CloseFiscalYear(c.Request.Context(), actor, fiscalYearID, req.PreviewOnly)
	if err != nil {
		respondError(c, err, "CloseFiscalYear")
		return
	}

	logger.Info("Fiscal year closing computed",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.Bool("preview_only", req.PreviewOnly),
		slog.String("net_income", summary.NetIncome.StringFixed(2)))
	c.JSON(http.StatusOK, summary)
}
