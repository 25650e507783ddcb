package domain

import "time"

// Document is an attachment uploaded at submission time. Locator is opaque
// to the core: a local path or an object-storage URL.
type Document struct {
	ID         string
	RequestID  string
	FileName   string
	Locator    string
	UploadedAt time.Time
}
