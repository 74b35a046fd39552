package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"

	"github.com/CrestNiraj12/podrant/domain"
)

// Client talks to the backend's auth endpoints (/auth/v1).
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient creates an auth client for a backend project URL.
func NewClient(projectURL, anonKey string) *Client {
	base := strings.TrimRight(projectURL, "/") + "/auth/v1"
	hc := resty.New().
		SetBaseURL(base).
		SetTimeout(15*time.Second).
		SetHeader("apikey", anonKey)
	return &Client{baseURL: base, http: hc}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignInWithPassword signs in with email and password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	return c.token(ctx, "password", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	})
}

// ExchangeCode completes a PKCE browser sign-in.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (Session, error) {
	return c.token(ctx, "pkce", map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	})
}

// Refresh renews a session from its refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, domain.ErrUnauthenticated
	}
	return c.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) token(ctx context.Context, grant string, body map[string]string) (Session, error) {
	res, err := c.http.R().
		WithContext(ctx).
		SetQueryParam("grant_type", grant).
		SetBody(body).
		SetResult(&tokenResponse{}).
		Post("/token")
	if err != nil {
		return Session{}, fmt.Errorf("requesting %s token: %w", grant, err)
	}
	if res.IsError() {
		log.Warn().Str("grant", grant).Int("status", res.StatusCode()).Msg("auth token request rejected")
		return Session{}, &domain.APIError{Service: "auth", Method: "POST", Path: "/token", Status: res.StatusCode(), Body: strings.TrimSpace(res.String())}
	}
	tr := res.Result().(*tokenResponse)
	if strings.TrimSpace(tr.AccessToken) == "" {
		return Session{}, fmt.Errorf("%s token response missing access token", grant)
	}
	s, err := sessionFromToken(tr.AccessToken, tr.RefreshToken)
	if err != nil {
		return Session{}, err
	}
	if s.ExpiresAt.IsZero() && tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}

// SignOut revokes the session server-side.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	res, err := c.http.R().
		WithContext(ctx).
		SetHeader("Authorization", bearer(accessToken)).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	if res.IsError() && res.StatusCode() != 401 {
		return &domain.APIError{Service: "auth", Method: "POST", Path: "/logout", Status: res.StatusCode(), Body: strings.TrimSpace(res.String())}
	}
	return nil
}

// AuthorizeURL builds the browser URL for a PKCE sign-in with an external provider.
func (c *Client) AuthorizeURL(provider, redirectTo, challenge string) string {
	return c.baseURL + "/authorize?" + url.Values{
		"provider":              {provider},
		"redirect_to":           {redirectTo},
		"code_challenge":        {challenge},
		"code_challenge_method": {"s256"},
	}.Encode()
}
