package authsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session is an authenticated session holding a full session token.
// Session tokens are not refreshable; once Expired reports true, log in again.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	account   Account
}

// NewSessionFromToken wraps an existing session token, e.g. one restored
// from storage.
func (c *SDKClient) NewSessionFromToken(token string, expiresIn int) *Session {
	return &Session{
		client:    c,
		token:     token,
		expiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}

func newSession(c *SDKClient, resp *SessionResponse) *Session {
	s := c.NewSessionFromToken(resp.Token, resp.ExpiresIn)
	s.account = resp.Account
	return s
}

// Token returns the session token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Account returns the account snapshot taken when the session was opened.
func (s *Session) Account() Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Expired reports whether the token has passed its expiry.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !time.Now().Before(s.expiresAt)
}

// do performs an authenticated request and decodes the response into target.
func (s *Session) do(ctx context.Context, method, path string, payload, target any) error {
	resp, err := s.client.doRequest(ctx, method, path, payload, s.Token())
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
