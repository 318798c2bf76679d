package scans

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/herbscan/internal/client/history"
	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var _ history.Store = (*SQLiteRepository)(nil)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE scans (
  id          TEXT PRIMARY KEY,
  plant_name  TEXT NOT NULL,
  confidence  TEXT NOT NULL,
  plant_id    TEXT NOT NULL DEFAULT '',
  created_at  INTEGER NOT NULL,
  image       BLOB
);
`)
	require.NoError(t, err)
	return db
}

func scan(id, name string, at time.Time) models.Scan {
	return models.Scan{ID: id, PlantName: name, Confidence: "High", CreatedAt: at, Image: []byte(name)}
}

func TestInsertAndGetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)

	in := scan("s1", "Tulsi", at)
	in.PlantID = "p1"
	require.NoError(t, r.Insert(ctx, in))

	got, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestInsert_DuplicateIDFails(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, scan("s1", "Tulsi", time.Now())))
	err := r.Insert(ctx, scan("s1", "Neem", time.Now()))
	require.ErrorContains(t, err, "failed to insert scan")
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPage_OrderAndOffsets(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, scan("a", "Tulsi", base)))
	require.NoError(t, r.Insert(ctx, scan("b", "Neem", base.Add(2*time.Minute))))
	require.NoError(t, r.Insert(ctx, scan("c", "Amla", base.Add(time.Minute))))
	require.NoError(t, r.Insert(ctx, scan("d", "Brahmi", base.Add(time.Minute))))

	first, err := r.Page(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"b", "d", "c"}, []string{first[0].ID, first[1].ID, first[2].ID})

	rest, err := r.Page(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "a", rest[0].ID)

	none, err := r.Page(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPage_SameTimestampLatestInsertFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, scan("a", "Tulsi", at)))
	require.NoError(t, r.Insert(ctx, scan("c", "Neem", at)))
	require.NoError(t, r.Insert(ctx, scan("b", "Amla", at)))

	page, err := r.Page(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{page[0].ID, page[1].ID, page[2].ID})
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Insert(ctx, scan("a", "Tulsi", time.Now())))

	require.NoError(t, r.Clear(ctx))
	page, err := r.Page(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestHistoryCacheOverSQLite(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	c := history.NewCache(r, history.WithPageSize(2))

	for _, n := range []string{"Tulsi", "Neem", "Amla"} {
		_, err := c.Append(ctx, models.Scan{PlantName: n, Confidence: "High"})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	recent, err := c.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Amla", recent[0].PlantName)
	assert.Equal(t, "Tulsi", recent[2].PlantName)
}

func TestPage_QueryErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`select id, plant_name`).WillReturnError(errors.New("boom"))

	_, err = NewSQLiteRepository(db).Page(context.Background(), 0, 10)
	require.ErrorContains(t, err, "failed to select scans")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_ExecErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`delete from scans`).WillReturnError(errors.New("locked"))

	err = NewSQLiteRepository(db).Clear(context.Background())
	require.ErrorContains(t, err, "failed to clear scans")
	require.NoError(t, mock.ExpectationsWereMet())
}
