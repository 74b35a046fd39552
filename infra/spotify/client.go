package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/CrestNiraj12/podrant/domain"
)

// Options configure the metadata provider client.
type Options struct {
	APIURL       string
	AccountsURL  string
	ClientID     string
	ClientSecret string
	Market       string
	RatePerSec   float64
	Burst        int
}

// Client is a thin wrapper over the provider's Web API.
type Client struct {
	http    *resty.Client
	tokens  *tokenSource
	limiter *rate.Limiter
	market  string
}

// NewClient creates a provider client with client-credentials auth.
func NewClient(opts Options) *Client {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.Market == "" {
		opts.Market = "US"
	}
	return &Client{
		http:    resty.New().SetBaseURL(strings.TrimRight(opts.APIURL, "/")).SetTimeout(15 * time.Second),
		tokens:  newTokenSource(opts.AccountsURL, opts.ClientID, opts.ClientSecret),
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		market:  strings.ToUpper(opts.Market),
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return errors.Join(c.http.Close(), c.tokens.Close())
}

// get issues an authenticated GET and decodes into out. A 401 invalidates
// the token and retries once.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		res, err := c.http.R().
			WithContext(ctx).
			SetAuthToken(token).
			SetQueryParams(query).
			SetResult(out).
			Get(path)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		log.Debug().Str("path", path).Int("status", res.StatusCode()).Msg("provider request")
		if res.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			c.tokens.Invalidate()
			continue
		}
		if res.IsError() {
			return &domain.APIError{Service: "spotify", Method: "GET", Path: path, Status: res.StatusCode(), Body: strings.TrimSpace(res.String())}
		}
		return nil
	}
}
