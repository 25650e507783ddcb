package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

func TestCanActOn(t *testing.T) {
	deptA := "dept-a"
	deptB := "dept-b"

	tests := []struct {
		name  string
		actor domain.Actor
		dept  string
		want  bool
	}{
		{"admin anywhere", domain.Actor{Role: domain.RoleAdmin}, deptA, true},
		{"officer own department", domain.Actor{Role: domain.RoleOfficer, DepartmentID: &deptA}, deptA, true},
		{"officer other department", domain.Actor{Role: domain.RoleOfficer, DepartmentID: &deptA}, deptB, false},
		{"head own department", domain.Actor{Role: domain.RoleDepartmentHead, DepartmentID: &deptA}, deptA, true},
		{"head other department", domain.Actor{Role: domain.RoleDepartmentHead, DepartmentID: &deptA}, deptB, false},
		{"officer without department", domain.Actor{Role: domain.RoleOfficer}, deptA, false},
		{"citizen never", domain.Actor{Role: domain.RoleCitizen}, deptA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanActOn(tt.actor, tt.dept))
		})
	}
}

func TestCanAssign(t *testing.T) {
	assert.False(t, CanAssign(domain.Actor{Role: domain.RoleCitizen}))
	assert.False(t, CanAssign(domain.Actor{Role: domain.RoleOfficer}))
	assert.True(t, CanAssign(domain.Actor{Role: domain.RoleDepartmentHead}))
	assert.True(t, CanAssign(domain.Actor{Role: domain.RoleAdmin}))
}

func TestCanView(t *testing.T) {
	dept := "dept-a"
	req := &domain.RequestSummary{}
	req.CitizenID = "citizen-1"
	req.DepartmentID = dept

	assert.True(t, CanView(domain.Actor{ID: "citizen-1", Role: domain.RoleCitizen}, req))
	assert.False(t, CanView(domain.Actor{ID: "citizen-2", Role: domain.RoleCitizen}, req))
	assert.True(t, CanView(domain.Actor{Role: domain.RoleOfficer, DepartmentID: &dept}, req))
	assert.True(t, CanView(domain.Actor{Role: domain.RoleAdmin}, req))
}
