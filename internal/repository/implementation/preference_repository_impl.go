package implementation

import (
	"context"
	"errors"

	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/mapper"
	"bilara-reader-be/internal/model"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PreferenceMapper
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewPreferenceMapper(),
	}
}

func (r *PreferenceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PreferenceRepositoryImpl) Save(ctx context.Context, preference *entity.Preference) error {
	m := r.mapper.ToModel(preference)
	// Upsert on session id: a session writes its whole preference vector.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*preference = *r.mapper.ToEntity(m)
	return nil
}

func (r *PreferenceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Preference, error) {
	var m model.Preference
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PreferenceRepositoryImpl) Delete(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Preference{}, "session_id = ?", sessionId).Error
}
