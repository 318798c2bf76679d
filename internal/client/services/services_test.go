package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/parser"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "herbscan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	AuthRes     client.AuthResult
	RegisterErr error
	LoginErr    error
	MeRet       string
	MeErr       error
	PingErr     error
	CloseErr    error

	ListRet parser.Payload
	ListErr error
	GetRet  map[string]parser.Payload
	GetErr  error

	LastUser     string
	LastPassword string
	LastList     client.ListOptions
	Closed       bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Identify(context.Context, []byte) (parser.Payload, error) {
	return nil, nil
}

func (f *fakeClient) ListPlants(_ context.Context, opts client.ListOptions) (parser.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastList = opts
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetPlant(_ context.Context, id string) (parser.Payload, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	p, ok := f.GetRet[id]
	if !ok {
		return nil, &client.TransportError{Op: "get plant", Status: 404, Detail: "Plant not found", Err: client.ErrNotFound}
	}
	return p, nil
}

func (f *fakeClient) Register(_ context.Context, username, password string) (client.AuthResult, error) {
	f.LastUser, f.LastPassword = username, password
	return f.AuthRes, f.RegisterErr
}

func (f *fakeClient) Login(_ context.Context, username, password string) (client.AuthResult, error) {
	f.LastUser, f.LastPassword = username, password
	return f.AuthRes, f.LoginErr
}

func (f *fakeClient) Me(context.Context) (string, error) { return f.MeRet, f.MeErr }

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error {
	f.Closed = true
	return f.CloseErr
}

func unavailable() error {
	return &client.TransportError{Op: "test", Err: client.ErrUnavailable}
}
