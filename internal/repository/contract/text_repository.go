package contract

import (
	"context"

	"bilara-reader-be/internal/entity"
)

type TextRepository interface {
	// GetDocument loads the skeleton and every available overlay for a text
	// uid in the given translation language. Optional overlays that do not
	// exist in the archive are simply absent from the result.
	GetDocument(ctx context.Context, uid, lang string) (*entity.Document, error)
}
