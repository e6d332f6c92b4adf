package memory

import (
	"context"
	"time"

	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PreferenceRepository keeps session preferences in process memory. Used when
// no database connection is configured and by the service tests.
type PreferenceRepository struct {
	cache *cache.Cache
}

func NewPreferenceRepository() *PreferenceRepository {
	// Sessions idle for a day are dropped; sweep every hour.
	return &PreferenceRepository{
		cache: cache.New(24*time.Hour, 1*time.Hour),
	}
}

func (r *PreferenceRepository) Save(ctx context.Context, preference *entity.Preference) error {
	cp := *preference
	r.cache.Set(preference.SessionId.String(), &cp, cache.DefaultExpiration)
	return nil
}

// FindOne supports only the BySessionID specification; other filters are a
// database concern.
func (r *PreferenceRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Preference, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			if x, found := r.cache.Get(s.SessionID.String()); found {
				cp := *x.(*entity.Preference)
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, sessionId uuid.UUID) error {
	r.cache.Delete(sessionId.String())
	return nil
}

var _ contract.PreferenceRepository = (*PreferenceRepository)(nil)
