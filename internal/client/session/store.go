package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyToken    = "access_token"
	keyUsername = "username"
)

// Store persists Credentials in the metadata table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Save replaces the stored credentials in one transaction.
func (s *Store) Save(ctx context.Context, c Credentials) error {
	if c.IsZero() {
		return fmt.Errorf("%w: empty token", common.ErrInvalidToken)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyToken, []byte(c.Token)); err != nil {
			return err
		}
		return r.Set(ctx, keyUsername, []byte(c.Username))
	})
}

// Load returns the stored credentials; the zero value when none are stored.
func (s *Store) Load(ctx context.Context) (Credentials, error) {
	r := s.repo(s.db)

	token, err := r.Get(ctx, keyToken)
	if err != nil {
		return Credentials{}, err
	}
	username, err := r.Get(ctx, keyUsername)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Token: string(token), Username: string(username)}, nil
}

// Clear removes the stored credentials.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyToken, keyUsername)
}

// IsAuthenticated reports whether a usable token is stored. A JWT whose exp
// claim lies in the past is not usable; other tokens are taken at face value.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if c.IsZero() {
		return false, nil
	}
	return !Expired(c.Token, s.now()), nil
}

// Username returns the stored username, or "" when nobody is logged in.
func (s *Store) Username(ctx context.Context) (string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

// Restore loads stored credentials into sess when they are still usable and
// drops them otherwise.
func (s *Store) Restore(ctx context.Context, sess *Session) (bool, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if c.IsZero() {
		return false, nil
	}
	if Expired(c.Token, s.now()) {
		return false, s.Clear(ctx)
	}
	if c.Username == "" {
		c.Username = Subject(c.Token)
	}
	sess.Set(c)
	return true, nil
}

// Expired reports whether token is a JWT with an exp claim before now. The
// signature is not checked; only the server can do that.
func Expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Subject returns the sub claim of a JWT, or "" for opaque tokens.
func Subject(token string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
