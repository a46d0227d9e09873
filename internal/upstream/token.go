package upstream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/localsite/planboard/internal/types"
	"go.uber.org/zap"
)

const (
	// expiryLeeway is subtracted from the decoded expiry so a token is
	// refreshed before it can expire mid-request.
	expiryLeeway = 30 * time.Second

	// defaultTokenTTL applies when the issued token has no readable exp claim.
	defaultTokenTTL = 10 * time.Minute
)

// TokenSource exchanges a static API token for a short-lived bearer token at
// the upstream JWT-issuance endpoint and caches it until shortly before its
// exp claim. One refresh attempt per call; an exchange failure is an
// AuthError and fails the whole fetch chain that needed the token.
type TokenSource struct {
	http     *resty.Client
	authURL  string
	apiToken string
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// NewTokenSource builds a token source against the given issuance endpoint.
func NewTokenSource(authURL, apiToken string, timeout time.Duration, logger *zap.Logger) *TokenSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &TokenSource{
		http:     client,
		authURL:  authURL,
		apiToken: apiToken,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock substitutes the time source. Tests use it with a fake clock.
func (s *TokenSource) WithClock(now func() time.Time) *TokenSource {
	s.now = now
	return s
}

// Token returns a bearer token that is valid for at least the leeway window,
// refreshing it from the issuance endpoint when the cached one is absent,
// undecodable, or expired.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiry := s.token, s.expiry
	s.mu.RUnlock()

	if token != "" && s.now().Add(expiryLeeway).Before(expiry) {
		return token, nil
	}
	return s.refresh(ctx)
}

func (s *TokenSource) refresh(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"api_token": s.apiToken}).
		SetResult(&out).
		Post(s.authURL)
	if err != nil {
		return "", &types.AuthError{Err: err}
	}
	if resp.IsError() {
		return "", &types.AuthError{Err: fmt.Errorf("token exchange returned %d", resp.StatusCode())}
	}
	if out.AccessToken == "" {
		return "", &types.AuthError{Err: fmt.Errorf("token exchange returned no access_token")}
	}

	expiry := s.tokenExpiry(out.AccessToken)

	s.mu.Lock()
	s.token = out.AccessToken
	s.expiry = expiry
	s.mu.Unlock()

	s.logger.Debug("refreshed upstream bearer token",
		zap.Time("expiry", expiry),
	)

	return out.AccessToken, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the token
// is only introspected to schedule the next refresh, never trusted locally.
func (s *TokenSource) tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return s.now().Add(defaultTokenTTL)
}
