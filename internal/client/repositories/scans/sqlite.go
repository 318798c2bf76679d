package scans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a new scan. Scans are immutable: inserting an existing id fails.
func (r *SQLiteRepository) Insert(ctx context.Context, s models.Scan) error {
	query := `INSERT INTO scans (id, plant_name, confidence, plant_id, created_at, image)
			values (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.PlantName, s.Confidence, s.PlantID, s.CreatedAt.UnixNano(), s.Image)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}
	return nil
}

// Page returns up to limit scans starting at offset, newest first. Scans
// sharing a timestamp come back latest insert first.
func (r *SQLiteRepository) Page(ctx context.Context, offset, limit int) ([]models.Scan, error) {
	query := `select id, plant_name, confidence, plant_id, created_at, image from scans
			order by created_at desc, rowid desc limit ? offset ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select scans: %w", err)
	}
	defer rows.Close()

	var result []models.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single scan or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Scan, error) {
	query := `select id, plant_name, confidence, plant_id, created_at, image from scans where id=?`
	s, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Clear deletes the whole history.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from scans`); err != nil {
		return fmt.Errorf("failed to clear scans: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*models.Scan, error) {
	var (
		s       models.Scan
		created int64
	)
	if err := row.Scan(&s.ID, &s.PlantName, &s.Confidence, &s.PlantID, &created, &s.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	return &s, nil
}
