package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusSubmitted   RequestStatus = "submitted"
	RequestStatusUnderReview RequestStatus = "under_review"
	RequestStatusApproved    RequestStatus = "approved"
	RequestStatusRejected    RequestStatus = "rejected"
)

// Valid reports whether the status is one of the enumerated values.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusSubmitted, RequestStatusUnderReview, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from the status.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusSubmitted:   {RequestStatusUnderReview, RequestStatusApproved, RequestStatusRejected},
	RequestStatusUnderReview: {RequestStatusUnderReview, RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved:    {},
	RequestStatusRejected:    {},
}

// CanTransition reports whether moving from current to next is legal.
// Terminal states allow no transitions; reopening is not supported.
func CanTransition(current, next RequestStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ReviewableStatuses are the states a decision or assignment may act on.
var ReviewableStatuses = []RequestStatus{RequestStatusSubmitted, RequestStatusUnderReview}

// Request is the central lifecycle entity. CitizenID is immutable after
// creation; status only changes through the lifecycle service.
type Request struct {
	ID          string
	CitizenID   string
	ServiceID   string
	Status      RequestStatus
	Notes       string
	SubmittedAt time.Time
	ReviewedBy  *string
	ReviewedAt  *time.Time
}

// RequestSummary joins display fields needed by every list and detail view.
type RequestSummary struct {
	Request
	ServiceName       string
	DepartmentID      string
	DepartmentName    string
	CitizenName       string
	CitizenNationalID string
	ReviewerName      *string
}

// ReviewEvent is one step of a request's derived review history.
type ReviewEvent struct {
	Action      string
	OccurredAt  time.Time
	OfficerName *string
}

// History derives the review timeline from the request's timestamps.
func (r *RequestSummary) History() []ReviewEvent {
	events := []ReviewEvent{{Action: "submitted", OccurredAt: r.SubmittedAt}}
	if r.ReviewedAt != nil {
		events = append(events, ReviewEvent{
			Action:      "reviewed",
			OccurredAt:  *r.ReviewedAt,
			OfficerName: r.ReviewerName,
		})
	}
	return events
}

// OfficerStats aggregates a reviewer's workload counters.
type OfficerStats struct {
	TotalAssigned int64
	InProgress    int64
	Approved      int64
	Rejected      int64
}
