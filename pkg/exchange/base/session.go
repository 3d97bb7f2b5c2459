package base

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// expiryDelta refreshes tokens slightly before they expire.
const expiryDelta = 10 * time.Second

// RefreshFunc obtains a new token from the exchange.
type RefreshFunc func(ctx context.Context) (*oauth2.Token, error)

// Session caches a bearer token. Only one refresh runs at a time; callers
// arriving during a refresh wait for and share its result.
type Session struct {
	refresh RefreshFunc
	now     func() time.Time

	mu    sync.RWMutex
	token *oauth2.Token

	group singleflight.Group
}

// NewSession judges token expiry against now; nil means the wall clock.
func NewSession(refresh RefreshFunc, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{refresh: refresh, now: now}
}

// Token returns a valid access token, refreshing it when it is missing or expired.
func (s *Session) Token(ctx context.Context) (string, error) {
	if t := s.current(); t != nil {
		return t.AccessToken, nil
	}

	v, err, _ := s.group.Do("token", func() (interface{}, error) {
		// another caller may have finished a refresh while this one was queued
		if t := s.current(); t != nil {
			return t, nil
		}

		t, err := s.refresh(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.token = t
		s.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return "", err
	}

	return v.(*oauth2.Token).AccessToken, nil
}

func (s *Session) current() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.token
	if t == nil || t.AccessToken == "" {
		return nil
	}
	if !t.Expiry.IsZero() && !s.now().Add(expiryDelta).Before(t.Expiry) {
		return nil
	}
	return t
}

// SetToken installs a token obtained elsewhere. A zero expiry never expires.
func (s *Session) SetToken(accessToken string, expiry time.Time) {
	s.mu.Lock()
	s.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer", Expiry: expiry}
	s.mu.Unlock()
}

// Invalidate drops the cached token so that the next call refreshes it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}
