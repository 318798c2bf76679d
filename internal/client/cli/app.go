package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/catalog"
	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/config"
	"github.com/dmitrijs2005/herbscan/internal/client/history"
	"github.com/dmitrijs2005/herbscan/internal/client/orchestrator"
	"github.com/dmitrijs2005/herbscan/internal/client/services"
	"github.com/dmitrijs2005/herbscan/internal/client/session"
	"github.com/dmitrijs2005/herbscan/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	db             *sql.DB
	authService    services.AuthService
	catalogService services.CatalogService
	scanner        *orchestrator.Orchestrator
	history        *history.Cache
	session        *session.Session
	log            logging.Logger
	out            io.Writer
	reader         *bufio.Reader

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the local database and wires the transport, services and
// the identification orchestrator.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	repos := client.NewRepositories(db)

	sess := session.New()
	api, err := client.NewHTTPClient(client.Options{
		BaseURL: c.ServerBaseURL,
		Timeout: c.RequestTimeout,
		Tokens:  sess,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hc := history.NewCache(repos.Scans)

	return &App{
		config:         c,
		db:             db,
		authService:    services.NewAuthService(api, sess, session.NewStore(db), log),
		catalogService: services.NewCatalogService(api, repos.Plants, catalog.NewIndex(), c.CatalogPageSize, log),
		scanner:        orchestrator.New(api, hc, log),
		history:        hc,
		session:        sess,
		log:            log.With("component", "cli"),
		out:            os.Stdout,
		reader:         bufio.NewReader(os.Stdin),
		mode:           ModeOnline,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// Run restores a saved session, starts the REPL and releases resources
// when the user leaves.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			a.log.Warn(ctx, "close transport", "error", err)
		}
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	restored, err := a.authService.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "restore session", "error", err)
	}
	if restored {
		a.log.Info(ctx, "session restored", "user", a.session.Username())
	}

	if err := a.catalogService.Reload(ctx); err != nil {
		a.log.Warn(ctx, "load cached catalog", "error", err)
	}

	a.Root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.Active()
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pctx)
	cancel()

	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
	default:
		// Any HTTP answer means the server is reachable.
		a.setMode(ModeOnline)
	}
}

// report prints a user-facing error line.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(a.out, errorColor("Error:"), userMessage(err))
}
