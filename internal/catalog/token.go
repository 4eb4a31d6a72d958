package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	tokenRefreshLeeway = time.Minute
	defaultTokenTTL    = time.Hour
)

// TokenProvider supplies bearer tokens for catalog requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// TokenSource caches the catalog access token process-wide. Readers share the
// cached token; at most one refresh is in flight at a time and concurrent
// callers wait for its result.
type TokenSource struct {
	credentials clientcredentials.Config
	httpClient  *http.Client
	now         func() time.Time

	stateMu sync.RWMutex
	token   string
	expires time.Time

	refresh singleflight.Group
}

var _ TokenProvider = (*TokenSource)(nil)

// TokenSourceOption customises TokenSource construction.
type TokenSourceOption func(*TokenSource)

// WithTokenHTTPClient overrides the HTTP client used for token requests.
func WithTokenHTTPClient(client *http.Client) TokenSourceOption {
	return func(s *TokenSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) TokenSourceOption {
	return func(s *TokenSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenSource builds a client-credentials token source.
func NewTokenSource(clientID, clientSecret, tokenURL string, opts ...TokenSourceOption) (*TokenSource, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("catalog client credentials required")
	}
	tokenURL = strings.TrimSpace(tokenURL)
	if tokenURL == "" {
		return nil, errors.New("catalog token url required")
	}
	source := &TokenSource{
		credentials: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(source)
	}
	return source, nil
}

// Token returns a valid access token, fetching one when the cache is empty or
// about to expire.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := s.cachedToken(); ok {
		return token, nil
	}
	// The fetch outlives any single caller so one cancellation does not fail
	// the other waiters.
	ch := s.refresh.DoChan("token", func() (any, error) {
		if token, ok := s.cachedToken(); ok {
			return token, nil
		}
		return s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (s *TokenSource) Invalidate() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.token = ""
	s.expires = time.Time{}
}

func (s *TokenSource) cachedToken() (string, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.token != "" && s.expires.Sub(s.now()) > tokenRefreshLeeway {
		return s.token, true
	}
	return "", false
}

func (s *TokenSource) fetch(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.credentials.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch catalog token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("fetch catalog token: empty access token")
	}
	expires := tok.Expiry
	if expires.IsZero() {
		expires = s.now().Add(defaultTokenTTL)
	}

	s.stateMu.Lock()
	s.token = tok.AccessToken
	s.expires = expires
	s.stateMu.Unlock()
	return tok.AccessToken, nil
}
