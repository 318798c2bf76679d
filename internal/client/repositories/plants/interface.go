// Package plants caches plant knowledge records fetched from the knowledge
// store so that the catalog and record views keep working offline.
package plants

import (
	"context"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
)

// Repository describes the local record cache.
type Repository interface {
	// CreateOrUpdate stores p under p.ID, replacing any cached copy.
	CreateOrUpdate(ctx context.Context, p *models.Plant) error

	// GetByID returns the cached record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Plant, error)

	// List returns cached records whose name or scientific name contains
	// search (case-insensitive), ordered by name. limit <= 0 means no limit.
	List(ctx context.Context, search string, limit int) ([]models.Plant, error)
}
