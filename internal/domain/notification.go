package domain

import "time"

// Notification is an append-only message to a user, created as a side
// effect of lifecycle transitions. Delivery beyond the row is out of scope.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	CreatedAt time.Time
}
