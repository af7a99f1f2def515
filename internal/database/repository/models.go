package repository

import "time"

// Todo represents a todos row.
type Todo struct {
	ID        string
	Text      string
	Done      bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
