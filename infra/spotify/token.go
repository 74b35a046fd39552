package spotify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"resty.dev/v3"

	"github.com/CrestNiraj12/podrant/domain"
)

const tokenSkew = 30 * time.Second

// tokenSource holds a client-credentials token with an explicit expiry and
// fetches a new one on demand.
type tokenSource struct {
	http         *resty.Client
	clientID     string
	clientSecret string
	now          func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(accountsURL, clientID, clientSecret string) *tokenSource {
	return &tokenSource{
		http:         resty.New().SetBaseURL(strings.TrimRight(accountsURL, "/")).SetTimeout(15 * time.Second),
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached token, fetching a new one when absent or expired.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}
	return s.fetchLocked(ctx)
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expires = time.Time{}
}

func (s *tokenSource) fetchLocked(ctx context.Context) (string, error) {
	res, err := s.http.R().
		WithContext(ctx).
		SetBasicAuth(s.clientID, s.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tokenResponse{}).
		Post("/api/token")
	if err != nil {
		return "", fmt.Errorf("requesting provider token: %w", err)
	}
	if res.IsError() {
		return "", &domain.APIError{Service: "spotify", Method: "POST", Path: "/api/token", Status: res.StatusCode(), Body: strings.TrimSpace(res.String())}
	}
	tr := res.Result().(*tokenResponse)
	if tr.AccessToken == "" {
		return "", fmt.Errorf("provider token response missing access token")
	}
	lifetime := time.Duration(tr.ExpiresIn) * time.Second
	if lifetime <= tokenSkew {
		lifetime = time.Hour
	}
	s.token = tr.AccessToken
	s.expires = s.now().Add(lifetime - tokenSkew)
	return s.token, nil
}

func (s *tokenSource) Close() error {
	return s.http.Close()
}
