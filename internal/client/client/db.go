package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/herbscan/internal/client/migrations"
	"github.com/dmitrijs2005/herbscan/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/herbscan/internal/client/repositories/plants"
	"github.com/dmitrijs2005/herbscan/internal/client/repositories/scans"
	"github.com/dmitrijs2005/herbscan/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local stores opened over one database.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Scans    *scans.SQLiteRepository
	Plants   plants.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Scans:    scans.NewSQLiteRepository(db),
		Plants:   plants.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite file at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("failed to prepare database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps SQLite from reporting SQLITE_BUSY between the REPL
	// and the connectivity watcher.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
