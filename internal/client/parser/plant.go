package parser

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

// PlantPage is one page of the knowledge-store plant listing.
type PlantPage struct {
	Plants []models.Plant
	Total  int
	Skip   int
	Limit  int
}

// ParsePlant decodes and validates a single knowledge-store record.
func ParsePlant(p Payload) (*models.Plant, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", common.ErrMalformedResponse)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	var plant models.Plant
	if err := json.Unmarshal(raw, &plant); err != nil {
		return nil, fmt.Errorf("%w: plant record: %v", common.ErrMalformedResponse, err)
	}

	if err := plant.Validate(); err != nil {
		return nil, err
	}
	return &plant, nil
}

// ParsePlantList decodes a listing page. Records that fail to decode or
// validate are left out of the page and reported in the returned slice; they
// never abort the whole page. A payload without a "plants" array is malformed.
func ParsePlantList(p Payload) (*PlantPage, []error, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("%w: nil payload", common.ErrMalformedResponse)
	}

	items, ok := p["plants"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: plants list is missing", common.ErrMalformedResponse)
	}

	page := &PlantPage{
		Plants: make([]models.Plant, 0, len(items)),
		Total:  p.integer("total", len(items)),
		Skip:   p.integer("skip", 0),
		Limit:  p.integer("limit", len(items)),
	}

	var rejected []error
	for n, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			rejected = append(rejected, fmt.Errorf("%w: plants[%d] is not an object", common.ErrMalformedResponse, n))
			continue
		}
		plant, err := ParsePlant(obj)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("plants[%d]: %w", n, err))
			continue
		}
		page.Plants = append(page.Plants, *plant)
	}

	return page, rejected, nil
}

func (p Payload) integer(key string, def int) int {
	switch t := p[key].(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case float64:
		return int(t)
	case int:
		return t
	}
	return def
}
