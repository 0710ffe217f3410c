package dto

import (
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// PeriodRequest identifies a distribution period. Dates are inclusive.
type PeriodRequest struct {
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required,gtefield=PeriodStart"`
}

// Period converts the request to a domain.Period.
func (r PeriodRequest) Period() domain.Period {
	return domain.Period{Start: r.PeriodStart, End: r.PeriodEnd}
}

// ApproveDistributionRequest carries optional approval notes.
type ApproveDistributionRequest struct {
	Notes string `json:"notes"`
}

// RejectDistributionRequest carries the mandatory rejection reason.
type RejectDistributionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListDistributionsParams defines query parameters for listing distributions.
type ListDistributionsParams struct {
	Status    *domain.DistributionStatus `form:"status" binding:"omitempty,oneof=draft submitted approved rejected disbursed"`
	Limit     int                        `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string                    `form:"nextToken"`
}

// ListDistributionsResponse wraps a page of distributions.
type ListDistributionsResponse struct {
	Distributions []domain.Distribution `json:"distributions"`
	NextToken     *string               `json:"nextToken,omitempty"`
}
