package client

import (
	"context"

	"github.com/dmitrijs2005/herbscan/internal/client/parser"
)

// DefaultListLimit and MaxListLimit bound catalog pages on the server side.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ListOptions selects a page of the remote catalog.
type ListOptions struct {
	Search string
	Skip   int
	Limit  int
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	Token    string
	Username string
}

// Identifier is the part of the transport the identification flow needs.
type Identifier interface {
	Identify(ctx context.Context, image []byte) (parser.Payload, error)
}

type Client interface {
	Identifier

	ListPlants(ctx context.Context, opts ListOptions) (parser.Payload, error)
	GetPlant(ctx context.Context, id string) (parser.Payload, error)

	Register(ctx context.Context, username, password string) (AuthResult, error)
	Login(ctx context.Context, username, password string) (AuthResult, error)
	Me(ctx context.Context) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// TokenSource yields the bearer token for outgoing requests; "" means
// anonymous.
type TokenSource interface {
	Token() string
}
