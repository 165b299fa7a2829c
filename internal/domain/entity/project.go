package entity

import (
	"time"
)

// Project groups tasks under a single owning user. Deleting a project
// cascades to its tasks at the database level.
type Project struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
