package dto

import (
	"time"
)

// CreateFiscalYearRequest defines a new fiscal year. Dates are inclusive.
type CreateFiscalYearRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
}

// CloseFiscalYearRequest selects between a dry run and the real close.
type CloseFiscalYearRequest struct {
	PreviewOnly bool `json:"previewOnly"`
}
