package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"resty.dev/v3"

	"github.com/CrestNiraj12/podrant/domain"
)

// Viewer supplies the signed-in user's access token and identity.
type Viewer interface {
	AccessToken() (string, error)
	Viewer() domain.Session
}

// Client is a thin wrapper over the backend's PostgREST API.
// Requests carry the project key plus the viewer's token when signed in.
type Client struct {
	http    *resty.Client
	anonKey string
	viewer  Viewer
	now     func() time.Time

	mu      sync.Mutex
	profile *domain.Profile // viewer's profile, used for author snapshots
}

// NewClient creates a PostgREST client for the project. v may be nil for
// a read-only, signed-out client.
func NewClient(projectURL, anonKey string, v Viewer) *Client {
	base := strings.TrimRight(projectURL, "/") + "/rest/v1"
	return &Client{
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(15*time.Second).
			SetHeader("apikey", anonKey),
		anonKey: anonKey,
		viewer:  v,
		now:     time.Now,
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Session returns the signed-in viewer, zero when signed out.
func (c *Client) Session() domain.Session {
	if c.viewer == nil {
		return domain.Session{}
	}
	return c.viewer.Viewer()
}

func (c *Client) requireViewer() (string, error) {
	s := c.Session()
	if !s.SignedIn() {
		return "", domain.ErrUnauthenticated
	}
	return s.UserID, nil
}

// query is one PostgREST call. Filters use the eq./in./is. operator syntax.
type query struct {
	method string
	table  string
	params map[string]string
	body   any
	prefer string
	out    any
}

func (c *Client) do(ctx context.Context, q query) (*resty.Response, error) {
	token := c.anonKey
	if c.Session().SignedIn() {
		t, err := c.viewer.AccessToken()
		if err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
		token = t
	}

	req := c.http.R().
		WithContext(ctx).
		SetAuthToken(token).
		SetQueryParams(q.params)
	if q.body != nil {
		req.SetBody(q.body)
	}
	if q.out != nil {
		req.SetResult(q.out)
	}
	if q.prefer != "" {
		req.SetHeader("Prefer", q.prefer)
	}

	path := "/" + q.table
	var (
		res *resty.Response
		err error
	)
	switch q.method {
	case http.MethodPost:
		res, err = req.Post(path)
	case http.MethodPatch:
		res, err = req.Patch(path)
	case http.MethodDelete:
		res, err = req.Delete(path)
	default:
		q.method = http.MethodGet
		res, err = req.Get(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", q.method, path, err)
	}
	log.Debug().Str("method", q.method).Str("table", q.table).Int("status", res.StatusCode()).Msg("backend request")
	if res.IsError() {
		apiErr := &domain.APIError{
			Service: "backend",
			Method:  q.method,
			Path:    path,
			Status:  res.StatusCode(),
			Body:    strings.TrimSpace(res.String()),
		}
		log.Warn().Err(apiErr).Msg("backend request failed")
		return nil, apiErr
	}
	return res, nil
}

// count returns the exact number of rows matching params.
func (c *Client) count(ctx context.Context, table string, params map[string]string) (int, error) {
	p := map[string]string{"select": "*", "limit": "1"}
	for k, v := range params {
		p[k] = v
	}
	res, err := c.do(ctx, query{table: table, params: p, prefer: "count=exact"})
	if err != nil {
		return 0, err
	}
	return parseContentRange(res.Header().Get("Content-Range"))
}

// parseContentRange reads the total from a "0-0/42" or "*/0" header.
func parseContentRange(h string) (int, error) {
	i := strings.LastIndex(h, "/")
	if i < 0 {
		return 0, fmt.Errorf("content-range %q has no total", h)
	}
	n, err := strconv.Atoi(h[i+1:])
	if err != nil {
		return 0, fmt.Errorf("content-range %q: %w", h, err)
	}
	return n, nil
}

func eq(v string) string { return "eq." + v }

// in builds an in.(...) filter with every value quoted.
func in(ids []string) string {
	quoted := lo.Map(ids, func(id string, _ int) string {
		return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	})
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// rowID accepts both numeric and string primary keys.
type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = rowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("row id: %w", err)
	}
	*id = rowID(n.String())
	return nil
}
