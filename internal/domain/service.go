package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a specific offering within a department. Fee is fixed-point;
// zero means the service is free of charge.
type Service struct {
	ID           string
	Name         string
	Description  string
	DepartmentID string
	Fee          decimal.Decimal
	Requirements string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServiceSummary joins the owning department name for listings.
type ServiceSummary struct {
	Service
	DepartmentName string
	RequestCount   int64
}
