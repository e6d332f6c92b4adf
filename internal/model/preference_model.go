package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Preference struct {
	SessionId  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Layout     string         `gorm:"type:varchar(32);not null"`
	Notes      string         `gorm:"type:varchar(32);not null"`
	Script     string         `gorm:"type:varchar(32);not null"`
	References datatypes.JSON `gorm:"type:jsonb"`
	Highlight  bool           `gorm:"not null;default:false"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Preference) TableName() string {
	return "reader_preferences"
}
