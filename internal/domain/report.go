package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overview aggregates headline numbers for the admin dashboard.
type Overview struct {
	TotalRequests   int64
	TotalUsers      int64
	RequestsToday   int64
	PendingRequests int64
	TotalRevenue    decimal.Decimal
}

// StatusCount is one slice of the requests-by-status breakdown.
type StatusCount struct {
	Status RequestStatus
	Count  int64
}

// DepartmentPerformance reports per-department review throughput.
type DepartmentPerformance struct {
	DepartmentName    string
	TotalRequests     int64
	Approved          int64
	Rejected          int64
	AvgProcessingDays *float64
}

// ServicePopularity counts requests per service.
type ServicePopularity struct {
	ServiceName    string
	DepartmentName string
	RequestCount   int64
}

// RevenueEntry groups completed payments by day and service.
type RevenueEntry struct {
	Date         time.Time
	ServiceName  string
	PaymentCount int64
	TotalAmount  decimal.Decimal
}

// Report bundles the periodic admin report sections.
type Report struct {
	Period                string                  `json:"period"`
	ByStatus              []StatusCount           `json:"by_status"`
	DepartmentPerformance []DepartmentPerformance `json:"department_performance"`
	ServicePopularity     []ServicePopularity     `json:"service_popularity"`
	Revenue               []RevenueEntry          `json:"revenue"`
}
