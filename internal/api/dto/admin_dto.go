package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// AdminUserRequest payload for creating or updating accounts. Password may be
// empty on update to keep the current one.
type AdminUserRequest struct {
	NationalID   string      `json:"national_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	DepartmentID *string     `json:"department_id"`
	JobTitle     *string     `json:"job_title"`
}

// AdminUserResponse joins the department name for listings.
type AdminUserResponse struct {
	UserResponse
	DepartmentName *string `json:"department_name,omitempty"`
}

// DepartmentRequest payload.
type DepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DepartmentResponse with admin-view counts.
type DepartmentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ServiceCount int64     `json:"service_count"`
	StaffCount   int64     `json:"staff_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServiceRequest payload. Fee is a decimal string such as "150.00".
type ServiceRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id"`
	Fee          string `json:"fee"`
	Requirements string `json:"requirements"`
}

// OverviewResponse is the admin dashboard headline block.
type OverviewResponse struct {
	TotalRequests   int64           `json:"total_requests"`
	TotalUsers      int64           `json:"total_users"`
	RequestsToday   int64           `json:"requests_today"`
	PendingRequests int64           `json:"pending_requests"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

// ReportResponse is the periodic report.
type ReportResponse struct {
	Period                string                     `json:"period"`
	ByStatus              []StatusCountEntry         `json:"by_status"`
	DepartmentPerformance []DepartmentPerformanceRow `json:"department_performance"`
	ServicePopularity     []ServicePopularityRow     `json:"service_popularity"`
	Revenue               []RevenueRow               `json:"revenue"`
}

// StatusCountEntry is one slice of the status breakdown.
type StatusCountEntry struct {
	Status domain.RequestStatus `json:"status"`
	Count  int64                `json:"count"`
}

// DepartmentPerformanceRow reports review throughput per department.
type DepartmentPerformanceRow struct {
	DepartmentName    string   `json:"department_name"`
	TotalRequests     int64    `json:"total_requests"`
	Approved          int64    `json:"approved"`
	Rejected          int64    `json:"rejected"`
	AvgProcessingDays *float64 `json:"avg_processing_days,omitempty"`
}

// ServicePopularityRow counts requests per service.
type ServicePopularityRow struct {
	ServiceName    string `json:"service_name"`
	DepartmentName string `json:"department_name"`
	RequestCount   int64  `json:"request_count"`
}

// RevenueRow groups completed payments by day and service.
type RevenueRow struct {
	Date         time.Time       `json:"date"`
	ServiceName  string          `json:"service_name"`
	PaymentCount int64           `json:"payment_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
