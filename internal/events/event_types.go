package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestSubmitted EventType = "request_submitted"
	EventRequestAssigned  EventType = "request_assigned"
	EventRequestDecided   EventType = "request_decided"
	EventPaymentConfirmed EventType = "payment_confirmed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestSubmittedPayload payload.
type RequestSubmittedPayload struct {
	ServiceID     string          `json:"service_id"`
	ServiceName   string          `json:"service_name"`
	DepartmentID  string          `json:"department_id"`
	DocumentCount int             `json:"document_count"`
	Fee           decimal.Decimal `json:"fee"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	ReviewerID string `json:"reviewer_id"`
}

// RequestDecidedPayload payload.
type RequestDecidedPayload struct {
	Decision domain.RequestStatus `json:"decision"`
	Notes    string               `json:"notes,omitempty"`
}

// PaymentConfirmedPayload payload.
type PaymentConfirmedPayload struct {
	Amount decimal.Decimal `json:"amount"`
}
