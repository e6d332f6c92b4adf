package mapper

import (
	"encoding/json"
	"time"

	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/model"

	"gorm.io/datatypes"
)

type PreferenceMapper struct{}

func NewPreferenceMapper() *PreferenceMapper {
	return &PreferenceMapper{}
}

func (m *PreferenceMapper) ToEntity(p *model.Preference) *entity.Preference {
	if p == nil {
		return nil
	}

	var refs []string
	// Corrupt reference JSON degrades to nil; the service substitutes the
	// default selection.
	_ = json.Unmarshal(p.References, &refs)

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Preference{
		SessionId:  p.SessionId,
		Layout:     p.Layout,
		Notes:      p.Notes,
		Script:     p.Script,
		References: refs,
		Highlight:  p.Highlight,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *PreferenceMapper) ToModel(p *entity.Preference) *model.Preference {
	if p == nil {
		return nil
	}

	refs, _ := json.Marshal(p.References)

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Preference{
		SessionId:  p.SessionId,
		Layout:     p.Layout,
		Notes:      p.Notes,
		Script:     p.Script,
		References: datatypes.JSON(refs),
		Highlight:  p.Highlight,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
