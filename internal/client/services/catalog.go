package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/client/catalog"
	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/client/parser"
	"github.com/dmitrijs2005/herbscan/internal/client/repositories/plants"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/logging"
)

// CatalogPage is one page of the catalog as shown to the user.
type CatalogPage struct {
	Plants []models.Plant
	Total  int
	Skip   int
	Limit  int

	// Offline is set when the page came from the local cache because the
	// server could not be reached.
	Offline bool

	// Rejected lists records left out because they failed validation.
	Rejected []error
}

// CatalogService browses the knowledge store and keeps a local copy of
// every record it sees.
//
// Fetched records are merged into the cached copy field by field: whatever
// the fresh record carries wins, and optional fields it lacks keep their
// cached value. The catalog listing sends summaries only, so this keeps the
// full record once it has been opened.
type CatalogService interface {
	Browse(ctx context.Context, search string, skip int) (*CatalogPage, error)
	Get(ctx context.Context, id string) (*models.Plant, bool, error)
	Search(query string) []models.Plant
	Import(ctx context.Context, r io.Reader) (int, []error, error)
	Reload(ctx context.Context) error
}

type catalogService struct {
	client   client.Client
	repo     plants.Repository
	index    *catalog.Index
	pageSize int
	log      logging.Logger
}

func NewCatalogService(c client.Client, repo plants.Repository, index *catalog.Index, pageSize int, log logging.Logger) CatalogService {
	if pageSize <= 0 {
		pageSize = client.DefaultListLimit
	}
	return &catalogService{
		client:   c,
		repo:     repo,
		index:    index,
		pageSize: pageSize,
		log:      log.With("component", "catalog"),
	}
}

// Browse fetches one page of the remote catalog and loads it into the search
// index. When the server is unavailable the page is served from the cache.
func (s *catalogService) Browse(ctx context.Context, search string, skip int) (*CatalogPage, error) {
	payload, err := s.client.ListPlants(ctx, client.ListOptions{Search: search, Skip: skip, Limit: s.pageSize})
	if errors.Is(err, client.ErrUnavailable) {
		s.log.Warn(ctx, "server unavailable, using cached catalog", "error", err)
		return s.browseCached(ctx, search, skip)
	}
	if err != nil {
		return nil, fmt.Errorf("list plants error: %w", err)
	}

	page, rejected, err := parser.ParsePlantList(payload)
	if err != nil {
		return nil, err
	}
	for _, r := range rejected {
		s.log.Warn(ctx, "catalog record rejected", "error", r)
	}

	merged := make([]models.Plant, 0, len(page.Plants))
	for i := range page.Plants {
		merged = append(merged, s.remember(ctx, &page.Plants[i]))
	}
	rejected = append(rejected, s.index.Load(merged)...)

	return &CatalogPage{
		Plants:   merged,
		Total:    page.Total,
		Skip:     page.Skip,
		Limit:    page.Limit,
		Rejected: rejected,
	}, nil
}

func (s *catalogService) browseCached(ctx context.Context, search string, skip int) (*CatalogPage, error) {
	all, err := s.repo.List(ctx, search, 0)
	if err != nil {
		return nil, fmt.Errorf("cached catalog error: %w", err)
	}

	skip = min(max(skip, 0), len(all))
	end := min(skip+s.pageSize, len(all))
	records := all[skip:end]

	rejected := s.index.Load(records)
	return &CatalogPage{
		Plants:   records,
		Total:    len(all),
		Skip:     skip,
		Limit:    s.pageSize,
		Offline:  true,
		Rejected: rejected,
	}, nil
}

// Get returns the full record for id. The boolean is true when the record
// came from the cache because the server was unavailable.
func (s *catalogService) Get(ctx context.Context, id string) (*models.Plant, bool, error) {
	payload, err := s.client.GetPlant(ctx, id)
	if errors.Is(err, client.ErrUnavailable) {
		p, cerr := s.repo.GetByID(ctx, id)
		if cerr != nil {
			return nil, true, fmt.Errorf("cached plant %s: %w", id, cerr)
		}
		return p, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plant error: %w", err)
	}

	fresh, err := parser.ParsePlant(payload)
	if err != nil {
		return nil, false, err
	}
	if fresh.ID == "" {
		fresh.ID = id
	}

	merged := s.remember(ctx, fresh)
	return &merged, false, nil
}

// remember merges fresh into the cached copy and stores the result. Cache
// failures are logged; the merged record is returned either way.
func (s *catalogService) remember(ctx context.Context, fresh *models.Plant) models.Plant {
	if fresh.ID == "" {
		return *fresh
	}

	cached, err := s.repo.GetByID(ctx, fresh.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.log.Error(ctx, "failed to read cached plant", "id", fresh.ID, "error", err)
	}

	merged := cached.Merge(fresh)
	if err := s.repo.CreateOrUpdate(ctx, &merged); err != nil {
		s.log.Error(ctx, "failed to cache plant", "id", fresh.ID, "error", err)
	}
	return merged
}

// Search filters the records loaded by the last Browse, Reload or Import.
func (s *catalogService) Search(query string) []models.Plant {
	return s.index.Search(query)
}

// Reload loads the whole local cache into the search index.
func (s *catalogService) Reload(ctx context.Context) error {
	all, err := s.repo.List(ctx, "", 0)
	if err != nil {
		return fmt.Errorf("cached catalog error: %w", err)
	}
	for _, r := range s.index.Load(all) {
		s.log.Warn(ctx, "cached record rejected", "error", r)
	}
	return nil
}

// Import reads seed records from a YAML document and merges them into the
// cache. Records without an id or failing validation are rejected and
// reported; the rest are stored. The index is reloaded afterwards.
func (s *catalogService) Import(ctx context.Context, r io.Reader) (int, []error, error) {
	records, err := decodeSeed(r)
	if err != nil {
		return 0, nil, err
	}

	var rejected []error
	imported := 0
	for i := range records {
		p := &records[i]
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			rejected = append(rejected, fmt.Errorf("%w: record %d (%s) has no id", common.ErrValidation, i+1, p.Name))
			continue
		}
		if err := p.Validate(); err != nil {
			rejected = append(rejected, err)
			continue
		}

		cached, err := s.repo.GetByID(ctx, p.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return imported, rejected, fmt.Errorf("import error: %w", err)
		}
		merged := cached.Merge(p)
		if err := s.repo.CreateOrUpdate(ctx, &merged); err != nil {
			return imported, rejected, fmt.Errorf("import error: %w", err)
		}
		imported++
	}

	s.log.Info(ctx, "seed imported", "imported", imported, "rejected", len(rejected))
	return imported, rejected, s.Reload(ctx)
}
