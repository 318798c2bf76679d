// Package catalog holds the in-memory search index over the plant knowledge
// records currently loaded on the client.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

// Index is a stable substring filter over a loaded set of records.
// It is rebuilt wholesale on every Load. Readers may call Search concurrently
// with a Load; they observe either the old or the new set.
type Index struct {
	mu      sync.RWMutex
	records []entry
	byID    map[string]int
}

type entry struct {
	plant models.Plant
	name  string
	sci   string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: map[string]int{}}
}

// Load replaces the held set with records. Records failing validation are
// rejected and their errors returned, as is any record reusing an earlier
// id; the remaining ones keep load order.
func (ix *Index) Load(records []models.Plant) []error {
	var rejected []error
	next := make([]entry, 0, len(records))
	byID := make(map[string]int, len(records))

	for _, r := range records {
		if err := r.Validate(); err != nil {
			rejected = append(rejected, err)
			continue
		}
		if r.ID != "" {
			if _, dup := byID[r.ID]; dup {
				rejected = append(rejected, fmt.Errorf("%w: duplicate plant id %q", common.ErrValidation, r.ID))
				continue
			}
			byID[r.ID] = len(next)
		}
		next = append(next, entry{
			plant: r,
			name:  strings.ToLower(r.Name),
			sci:   strings.ToLower(r.ScientificName),
		})
	}

	ix.mu.Lock()
	ix.records = next
	ix.byID = byID
	ix.mu.Unlock()

	return rejected
}

// Search returns the records whose common or scientific name contains query,
// ignoring case, in load order. A blank query returns the full set.
func (ix *Index) Search(query string) []models.Plant {
	q := strings.ToLower(strings.TrimSpace(query))

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]models.Plant, 0, len(ix.records))
	for _, e := range ix.records {
		if q == "" || strings.Contains(e.name, q) || strings.Contains(e.sci, q) {
			out = append(out, e.plant)
		}
	}
	return out
}

// Get returns the loaded record with the given id.
func (ix *Index) Get(id string) (models.Plant, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n, ok := ix.byID[id]
	if !ok {
		return models.Plant{}, false
	}
	return ix.records[n].plant, true
}

// Len returns the number of loaded records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}
