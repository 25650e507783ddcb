package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates simulated payment states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment records the simulated fee for a request. Amount is a snapshot of
// the service fee at submission time and never tracks later fee edits.
type Payment struct {
	ID          string
	RequestID   string
	Amount      decimal.Decimal
	Status      PaymentStatus
	PaymentDate *time.Time
}
