package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// RequestSummaryResponse is the list-view shape of a service request.
type RequestSummaryResponse struct {
	ID                string               `json:"id"`
	ServiceName       string               `json:"service_name"`
	DepartmentName    string               `json:"department_name"`
	CitizenName       string               `json:"citizen_name"`
	CitizenNationalID string               `json:"citizen_national_id"`
	Status            domain.RequestStatus `json:"status"`
	Notes             string               `json:"notes,omitempty"`
	SubmittedAt       time.Time            `json:"submitted_at"`
	ReviewedAt        *time.Time           `json:"reviewed_at,omitempty"`
	ReviewerName      *string              `json:"reviewer_name,omitempty"`
}

// RequestDetailResponse adds documents, payment and history.
type RequestDetailResponse struct {
	RequestSummaryResponse
	Documents []DocumentResponse `json:"documents"`
	Payment   *PaymentResponse   `json:"payment,omitempty"`
	History   []ReviewEventEntry `json:"history"`
}

// DocumentResponse metadata.
type DocumentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PaymentResponse is the simulated fee record.
type PaymentResponse struct {
	ID          string               `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	Status      domain.PaymentStatus `json:"status"`
	PaymentDate *time.Time           `json:"payment_date,omitempty"`
}

// ReviewEventEntry is one step of the derived review timeline.
type ReviewEventEntry struct {
	Action      string    `json:"action"`
	OccurredAt  time.Time `json:"occurred_at"`
	OfficerName *string   `json:"officer_name,omitempty"`
}

// DecideRequest payload for approving or rejecting.
type DecideRequest struct {
	Decision domain.RequestStatus `json:"decision"`
	Notes    string               `json:"notes"`
}

// AssignRequest payload.
type AssignRequest struct {
	OfficerID string `json:"officer_id"`
}

// NotificationResponse is one in-app notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// OfficerStatsResponse is the reviewer workload dashboard.
type OfficerStatsResponse struct {
	TotalAssigned int64 `json:"total_assigned"`
	InProgress    int64 `json:"in_progress"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
}

// ServiceSummaryResponse is one catalog entry.
type ServiceSummaryResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	DepartmentID   string          `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	Fee            decimal.Decimal `json:"fee"`
	Requirements   string          `json:"requirements"`
	RequestCount   int64           `json:"request_count"`
}
