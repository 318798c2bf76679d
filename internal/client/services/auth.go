// Package services contains the application services behind the REPL:
// authentication and the plant catalog.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/session"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/logging"
)

// AuthService manages the user's session.
//
// Login and Register obtain a token from the server, put it in the live
// session and persist it. Logout destroys both. Restore brings back a
// persisted session at start-up.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (string, error)
	Restore(ctx context.Context) (bool, error)
	IsAuthenticated(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *session.Session
	store   *session.Store
	log     logging.Logger
}

func NewAuthService(c client.Client, sess *session.Session, store *session.Store, log logging.Logger) AuthService {
	return &authService{client: c, session: sess, store: store, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	res, err := a.client.Register(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return a.start(ctx, res)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	res, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.start(ctx, res)
}

func (a *authService) start(ctx context.Context, res client.AuthResult) error {
	creds := session.Credentials{Token: res.Token, Username: res.Username}
	if err := a.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.session.Set(creds)
	a.log.Info(ctx, "session started", "username", res.Username)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.session.Destroy()
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

// WhoAmI asks the server who the token belongs to. When the server cannot
// be reached the locally known username is returned. A rejected token ends
// the session.
func (a *authService) WhoAmI(ctx context.Context) (string, error) {
	if !a.session.Active() {
		return "", client.ErrUnauthorized
	}

	name, err := a.client.Me(ctx)
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, client.ErrUnavailable):
		return a.session.Username(), nil
	case errors.Is(err, client.ErrUnauthorized):
		a.log.Warn(ctx, "session rejected by server")
		if lerr := a.Logout(ctx); lerr != nil {
			return "", errors.Join(err, lerr)
		}
		return "", err
	default:
		return "", err
	}
}

func (a *authService) Restore(ctx context.Context) (bool, error) {
	return a.store.Restore(ctx, a.session)
}

func (a *authService) IsAuthenticated(ctx context.Context) (bool, error) {
	if !a.session.Active() {
		return false, nil
	}
	return a.store.IsAuthenticated(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
