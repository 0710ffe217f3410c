package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// distributionHandler exposes the distribution workflow: preview, the approval
// state machine and disbursement.
type distributionHandler struct {
	distributions portssvc.DistributionSvcFacade
}

// newDistributionHandler creates a new distributionHandler.
func newDistributionHandler(ds portssvc.DistributionSvcFacade) *distributionHandler {
	return &distributionHandler{distributions: ds}
}

// registerDistributionRoutes registers routes related to distributions.
func registerDistributionRoutes(rg *gin.RouterGroup, ds portssvc.DistributionSvcFacade) {
	h := newDistributionHandler(ds)

	group := rg.Group("/distributions")
	{
		group.POST("/preview", h.preview)
		group.POST("", h.createDistribution)
		group.GET("", h.listDistributions)
		group.GET("/:id", h.getDistribution)
		group.GET("/:id/recompute", h.recompute)
		group.GET("/:id/approvals", h.listApprovals)
		group.GET("/:id/vouchers", h.listVouchers)
		group.POST("/:id/submit", h.submit)
		group.POST("/:id/approve", h.approve)
		group.POST("/:id/reject", h.reject)
		group.POST("/:id/disburse", h.disburse)
		group.POST("/:id/clone", h.clone)
	}
}

// preview godoc
// @Summary Preview a distribution
// @Description Runs the calculator for a period against the active settings. Nothing is persisted.
// @Tags distributions
// @Accept  json
// @Produce  json
// @Param   period body dto.PeriodRequest true "Inclusive period"
// @Success 200 {object} domain.DistributionPreview
// @Failure 400 {object} errorResponse "Invalid period"
// @Failure 422 {object} errorResponse "Calculation refused"
// @Security BearerAuth
// @Router /distributions/preview [post]
func (h *distributionHandler) preview(c *gin.Context) {
	var req dto.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "PreviewDistribution")
		return
	}

	p, err := h.distributions.Preview(c.Request.Context(), req.Period())
	if err != nil {
		respondError(c, err, "PreviewDistribution")
		return
	}
	c.JSON(http.StatusOK, p)
}

// createDistribution godoc
// @Summary Create a draft distribution
// @Description Computes and stores a draft for the period with a snapshot of the active settings.
// @Tags distributions
// @Accept  json
// @Produce  json
// @Param   period body dto.PeriodRequest true "Inclusive period"
// @Success 201 {object} domain.Distribution
// @Failure 403 {object} errorResponse "Role may not create distributions"
// @Failure 409 {object} errorResponse "Period overlaps an active distribution"
// @Failure 422 {object} errorResponse "Calculation refused"
// @Security BearerAuth
// @Router /distributions [post]
func (h *distributionHandler) createDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateDistribution")
		return
	}

	logger.Info("Received request to create distribution",
		slog.Time("period_start", req.PeriodStart), slog.Time("period_end", req.PeriodEnd))
	d, err := h.distributions.Create(c.Request.Context(), actor, req.Period())
	if err != nil {
		respondError(c, err, "CreateDistribution")
		return
	}

	logger.Info("Distribution created successfully",
		slog.String("distribution_id", d.DistributionID),
		slog.String("distributable", d.DistributableAmount.StringFixed(2)))
	c.JSON(http.StatusCreated, d)
}

// listDistributions godoc
// @Summary List distributions
// @Tags distributions
// @Produce  json
// @Param   status query string false "Filter by status" Enums(draft, submitted, approved, rejected, disbursed)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDistributionsResponse
// @Security BearerAuth
// @Router /distributions [get]
func (h *distributionHandler) listDistributions(c *gin.Context) {
	var params dto.ListDistributionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListDistributions")
		return
	}

	list, next, err := h.distributions.ListDistributions(c.Request.Context(), params.Status, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "ListDistributions")
		return
	}
	c.JSON(http.StatusOK, dto.ListDistributionsResponse{Distributions: list, NextToken: next})
}

// getDistribution godoc
// @Summary Get a distribution with its details
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {object} domain.Distribution
// @Failure 404 {object} errorResponse "Distribution not found"
// @Security BearerAuth
// @Router /distributions/{id} [get]
func (h *distributionHandler) getDistribution(c *gin.Context) {
	d, err := h.distributions.GetDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetDistribution")
		return
	}
	c.JSON(http.StatusOK, d)
}

// recompute godoc
// @Summary Recompute a stored distribution
// @Description Re-runs the calculator with the distribution's own settings snapshot and current sources.
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {object} domain.DistributionPreview
// @Security BearerAuth
// @Router /distributions/{id}/recompute [get]
func (h *distributionHandler) recompute(c *gin.Context) {
	p, err := h.distributions.Recompute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "RecomputeDistribution")
		return
	}
	c.JSON(http.StatusOK, p)
}

// listApprovals godoc
// @Summary Audit trail of a distribution
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {array} domain.DistributionApproval
// @Security BearerAuth
// @Router /distributions/{id}/approvals [get]
func (h *distributionHandler) listApprovals(c *gin.Context) {
	list, err := h.distributions.ListApprovals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "ListApprovals")
		return
	}
	c.JSON(http.StatusOK, list)
}

// listVouchers godoc
// @Summary Payment vouchers of a disbursed distribution
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {array} domain.PaymentVoucher
// @Security BearerAuth
// @Router /distributions/{id}/vouchers [get]
func (h *distributionHandler) listVouchers(c *gin.Context) {
	list, err := h.distributions.ListVouchers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "ListVouchers")
		return
	}
	c.JSON(http.StatusOK, list)
}

// submit godoc
// @Summary Submit a draft for approval
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {object} domain.Distribution
// @Failure 409 {object} errorResponse "Not a draft, or stale against current sources"
// @Security BearerAuth
// @Router /distributions/{id}/submit [post]
func (h *distributionHandler) submit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	d, err := h.distributions.Submit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "SubmitDistribution")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Distribution submitted", slog.String("distribution_id", d.DistributionID))
	c.JSON(http.StatusOK, d)
}

// approve godoc
// @Summary Approve a submitted distribution
// @Tags distributions
// @Accept  json
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Param   body body dto.ApproveDistributionRequest false "Approval notes"
// @Success 200 {object} domain.Distribution
// @Failure 403 {object} errorResponse "Only the nazer may approve"
// @Failure 409 {object} errorResponse "Not submitted"
// @Security BearerAuth
// @Router /distributions/{id}/approve [post]
func (h *distributionHandler) approve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ApproveDistributionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "ApproveDistribution")
			return
		}
	}

	d, err := h.distributions.Approve(c.Request.Context(), actor, c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err, "ApproveDistribution")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Distribution approved", slog.String("distribution_id", d.DistributionID))
	c.JSON(http.StatusOK, d)
}

// reject godoc
// @Summary Reject a submitted distribution
// @Tags distributions
// @Accept  json
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Param   body body dto.RejectDistributionRequest true "Rejection reason"
// @Success 200 {object} domain.Distribution
// @Failure 400 {object} errorResponse "Reason missing"
// @Failure 403 {object} errorResponse "Only the nazer may reject"
// @Failure 409 {object} errorResponse "Not submitted"
// @Security BearerAuth
// @Router /distributions/{id}/reject [post]
func (h *distributionHandler) reject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RejectDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RejectDistribution")
		return
	}

	d, err := h.distributions.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "RejectDistribution")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Distribution rejected", slog.String("distribution_id", d.DistributionID))
	c.JSON(http.StatusOK, d)
}

// disburse godoc
// @Summary Disburse an approved distribution
// @Description Posts the disbursement journal entries, issues vouchers and marks every detail paid in one transaction.
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 200 {object} domain.DisbursementResult
// @Failure 403 {object} errorResponse "Role may not disburse"
// @Failure 409 {object} errorResponse "Not approved, or entry date in a closed period"
// @Failure 500 {object} errorResponse "Disbursement failed; nothing was written"
// @Security BearerAuth
// @Router /distributions/{id}/disburse [post]
func (h *distributionHandler) disburse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	distributionID := c.Param("id")
	logger.Info("Received request to disburse distribution", slog.String("distribution_id", distributionID))

	res, err := h.distributions.Disburse(c.Request.Context(), actor, distributionID)
	if err != nil {
		respondError(c, err, "DisburseDistribution")
		return
	}

	logger.Info("Distribution disbursed successfully",
		slog.String("distribution_id", distributionID),
		slog.Int("vouchers", len(res.VoucherIDs)),
		slog.Int("journal_entries", len(res.JournalEntryIDs)))
	c.JSON(http.StatusOK, res)
}

// clone godoc
// @Summary Clone a rejected distribution into a new draft
// @Tags distributions
// @Produce  json
// @Param   id path string true "Distribution ID"
// @Success 201 {object} domain.Distribution
// @Failure 409 {object} errorResponse "Source is not rejected"
// @Security BearerAuth
// @Router /distributions/{id}/clone [post]
func (h *distributionHandler) clone(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	d, err := h.distributions.Clone(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "CloneDistribution")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Distribution cloned",
		slog.String("source_id", c.Param("id")), slog.String("distribution_id", d.DistributionID))
	c.JSON(http.StatusCreated, d)
}
