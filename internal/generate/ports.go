package generate

import (
	"context"

	"docgen/internal/models"
)

// TemplateSource loads template rows and their stored content.
type TemplateSource interface {
	Template(ctx context.Context, id uint) (*models.Template, error)
	Content(ctx context.Context, tpl *models.Template) ([]byte, error)
}

// CatalogSource supplies the entity/client/value reads the engine snapshots
// at the start of a batch.
type CatalogSource interface {
	Entities(ctx context.Context) ([]models.Entity, error)
	ClientsByID(ctx context.Context, ids []uint) ([]models.Client, error)
	ValuesForClients(ctx context.Context, clientIDs []uint) ([]models.Value, error)
}

// OutputStore persists generated artifacts so history rows have
// addressable paths.
type OutputStore interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) error
}

// HistorySink appends generation records. Failures here are reported as
// warnings, never as generation errors.
type HistorySink interface {
	Append(ctx context.Context, records []models.GenerationRecord) error
}

// Converter turns a rendered DOCX into another output format (PDF).
type Converter interface {
	Convert(ctx context.Context, filename string, data []byte) ([]byte, error)
}
