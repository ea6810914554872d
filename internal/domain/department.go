package domain

import "time"

// Department represents an organizational unit instructors submit hours for.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
