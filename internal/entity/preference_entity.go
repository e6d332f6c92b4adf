package entity

import (
	"time"

	"github.com/google/uuid"
)

// Preference is the persisted view state of one reader session.
type Preference struct {
	SessionId  uuid.UUID
	Layout     string
	Notes      string
	Script     string
	References []string
	Highlight  bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
