package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusValid(t *testing.T) {
	for _, status := range []RequestStatus{
		RequestStatusSubmitted, RequestStatusUnderReview, RequestStatusApproved, RequestStatusRejected,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, RequestStatus("archived").Valid())
	assert.False(t, RequestStatus("").Valid())
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestStatusSubmitted.Terminal())
	assert.False(t, RequestStatusUnderReview.Terminal())
	assert.True(t, RequestStatusApproved.Terminal())
	assert.True(t, RequestStatusRejected.Terminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestStatusSubmitted, RequestStatusUnderReview, true},
		{RequestStatusSubmitted, RequestStatusApproved, true},
		{RequestStatusSubmitted, RequestStatusRejected, true},
		{RequestStatusUnderReview, RequestStatusApproved, true},
		{RequestStatusUnderReview, RequestStatusRejected, true},
		{RequestStatusApproved, RequestStatusUnderReview, false},
		{RequestStatusApproved, RequestStatusRejected, false},
		{RequestStatusRejected, RequestStatusSubmitted, false},
		{RequestStatusRejected, RequestStatusApproved, false},
		{RequestStatusUnderReview, RequestStatusSubmitted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestHistoryDerivation(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	summary := &RequestSummary{}
	summary.SubmittedAt = submitted

	history := summary.History()
	require.Len(t, history, 1)
	assert.Equal(t, "submitted", history[0].Action)

	reviewed := submitted.Add(48 * time.Hour)
	officer := "Omid"
	summary.ReviewedAt = &reviewed
	summary.ReviewerName = &officer

	history = summary.History()
	require.Len(t, history, 2)
	assert.Equal(t, "reviewed", history[1].Action)
	assert.Equal(t, reviewed, history[1].OccurredAt)
	require.NotNil(t, history[1].OfficerName)
	assert.Equal(t, "Omid", *history[1].OfficerName)
}

func TestActorFor(t *testing.T) {
	dept := "dept-1"
	user := &User{ID: "u1", Role: RoleOfficer, DepartmentID: &dept}
	actor := ActorFor(user)
	assert.Equal(t, "u1", actor.ID)
	assert.Equal(t, RoleOfficer, actor.Role)
	assert.Equal(t, &dept, actor.DepartmentID)
}

func TestRoleOfficerLevel(t *testing.T) {
	assert.False(t, RoleCitizen.OfficerLevel())
	assert.True(t, RoleOfficer.OfficerLevel())
	assert.True(t, RoleDepartmentHead.OfficerLevel())
	assert.False(t, RoleAdmin.OfficerLevel())
}
