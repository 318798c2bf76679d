package scans

import (
	"context"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, s models.Scan) error
	Page(ctx context.Context, offset, limit int) ([]models.Scan, error)
	GetByID(ctx context.Context, id string) (*models.Scan, error)
	Clear(ctx context.Context) error
}
