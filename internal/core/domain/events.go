package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a domain event relayed to the notification collaborator.
type EventType string

const (
	EventDistributionApproved  EventType = "DistributionApproved"
	EventDistributionRejected  EventType = "DistributionRejected"
	EventDistributionDisbursed EventType = "DistributionDisbursed"
	EventFiscalYearClosed      EventType = "FiscalYearClosed"
)

// DomainEvent is emitted after a transition commits.
type DomainEvent struct {
	Type           EventType       `json:"type"`
	DistributionID string          `json:"distributionID,omitempty"`
	FiscalYearID   string          `json:"fiscalYearID,omitempty"`
	ActorID        string          `json:"actorID"`
	RecipientID    string          `json:"recipientID,omitempty"` // e.g. the originating accountant
	Reason         string          `json:"reason,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}
