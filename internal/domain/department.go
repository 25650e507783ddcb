package domain

import "time"

// Department represents a government organizational unit offering services.
type Department struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepartmentSummary carries admin-view counts alongside the department.
type DepartmentSummary struct {
	Department
	ServiceCount int64
	StaffCount   int64
}
