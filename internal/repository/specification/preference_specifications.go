package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters preferences by reader session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
