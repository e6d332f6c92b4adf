package contract

import (
	"context"

	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PreferenceRepository interface {
	// Save upserts the session's preference row.
	Save(ctx context.Context, preference *entity.Preference) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Preference, error)
	Delete(ctx context.Context, sessionId uuid.UUID) error
}
