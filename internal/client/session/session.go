// Package session holds the authenticated identity of the running client.
//
// A Session is created once at start-up and handed to the transport, which
// reads the bearer token from it on every request. The Store persists the
// same credentials in the local metadata table so a restart does not force
// a new login.
package session

import (
	"strings"
	"sync"
)

// Credentials is what the server hands out on login.
type Credentials struct {
	Token    string
	Username string
}

// IsZero reports whether no token is held.
func (c Credentials) IsZero() bool {
	return strings.TrimSpace(c.Token) == ""
}

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	creds Credentials
}

func New() *Session {
	return &Session{}
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Username
}

func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Active reports whether a token is held.
func (s *Session) Active() bool {
	return !s.Credentials().IsZero()
}

func (s *Session) Set(c Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
}

// Destroy forgets the credentials.
func (s *Session) Destroy() {
	s.Set(Credentials{})
}
