package plants

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/dbx"
)

// SQLiteRepository keeps each record as a JSON document next to the indexed
// name columns.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *models.Plant) error {
	if p.ID == "" {
		return fmt.Errorf("%w: plant id is required", common.ErrValidation)
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plant %s: %w", p.ID, err)
	}

	query := ` INSERT INTO plants (id, name, scientific_name, record, fetched_at)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				scientific_name = excluded.scientific_name,
				record = excluded.record,
				fetched_at = excluded.fetched_at
	`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.Name, p.ScientificName, doc, r.now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert plant: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Plant, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `select record from plants where id=?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return decode(doc)
}

func (r *SQLiteRepository) List(ctx context.Context, search string, limit int) ([]models.Plant, error) {
	query := `select record from plants`
	var args []any

	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		query += ` where lower(name) like ? escape '\' or lower(scientific_name) like ? escape '\'`
		args = append(args, pattern, pattern)
	}
	query += ` order by name, id`
	if limit > 0 {
		query += ` limit ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select plants: %w", err)
	}
	defer rows.Close()

	var result []models.Plant
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := decode(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func decode(doc []byte) (*models.Plant, error) {
	var p models.Plant
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached plant: %w", err)
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
