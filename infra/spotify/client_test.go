package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/podrant/domain"
)

type fakeProvider struct {
	t          *testing.T
	tokens     atomic.Int32
	rejectOnce atomic.Bool
	handlers   map[string]http.HandlerFunc
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/token" {
		id, secret, ok := r.BasicAuth()
		if !ok || id != "cid" || secret != "sec" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := f.tokens.Add(1)
		writeJSON(w, map[string]any{"access_token": "tok-" + string(rune('0'+n)), "expires_in": 3600})
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.rejectOnce.CompareAndSwap(true, false) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	h, ok := f.handlers[strings.TrimPrefix(r.URL.Path, "/v1")]
	if !ok {
		f.t.Errorf("unexpected path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handlers map[string]http.HandlerFunc) (*Client, *fakeProvider) {
	t.Helper()
	fp := &fakeProvider{t: t, handlers: handlers}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		APIURL:       srv.URL + "/v1",
		AccountsURL:  srv.URL,
		ClientID:     "cid",
		ClientSecret: "sec",
		Market:       "us",
		RatePerSec:   1000,
		Burst:        100,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c, fp
}

func showJSON(id string, genres ...string) map[string]any {
	return map[string]any{
		"id": id, "name": "Show " + id, "publisher": "Pub", "description": "desc",
		"images": []map[string]any{{"url": "https://img/" + id}}, "total_episodes": 12, "genres": genres,
	}
}

func TestBestPodcasts_RequestShapeAndMapping(t *testing.T) {
	var gotQuery map[string]string
	c, fp := newTestClient(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			gotQuery = map[string]string{"q": q.Get("q"), "offset": q.Get("offset"), "limit": q.Get("limit"), "market": q.Get("market"), "type": q.Get("type")}
			writeJSON(w, map[string]any{"shows": map[string]any{"items": []any{showJSON("a", "true_crime"), nil}}})
		},
	})

	got, err := c.BestPodcasts(context.Background(), "true_crime", 3)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"q": "genre:true crime podcast", "offset": "40", "limit": "20", "market": "US", "type": "show"}, gotQuery)
	require.Len(t, got, 1)
	require.Equal(t, domain.Podcast{ID: "a", Title: "Show a", Author: "Pub", Description: "desc", ImageURL: "https://img/a", TotalEpisodes: 12, Genres: []string{"true_crime"}}, got[0])

	_, err = c.BestPodcasts(context.Background(), "", 2)
	require.NoError(t, err)
	require.Equal(t, "podcast", gotQuery["q"])
	require.Equal(t, int32(1), fp.tokens.Load(), "token should be cached between calls")
}

func TestBestPodcasts_BeyondResultWindowIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{})
	got, err := c.BestPodcasts(context.Background(), "", 51)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGet_RefreshesTokenAfterUnauthorized(t *testing.T) {
	c, fp := newTestClient(t, map[string]http.HandlerFunc{
		"/shows/x": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, showJSON("x"))
		},
	})
	_, err := c.Podcast(context.Background(), "x")
	require.NoError(t, err)

	fp.rejectOnce.Store(true)
	p, err := c.Podcast(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, "Show x", p.Title)
	require.Equal(t, int32(2), fp.tokens.Load())
}

func TestTokenSource_ExpiresAndRefetches(t *testing.T) {
	c, fp := newTestClient(t, map[string]http.HandlerFunc{})
	now := time.Now()
	c.tokens.now = func() time.Time { return now }

	_, err := c.tokens.Token(context.Background())
	require.NoError(t, err)
	now = now.Add(59*time.Minute + 45*time.Second)
	_, err = c.tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), fp.tokens.Load(), "token inside the skew window must be refetched")
}

func TestGenres_ExtractsAndFallsBack(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "50" {
				t.Errorf("unexpected sample size %q", r.URL.Query().Get("limit"))
			}
			writeJSON(w, map[string]any{"shows": map[string]any{"items": []any{
				showJSON("a", "true_crime", "comedy"),
				showJSON("b", "comedy"),
			}}})
		},
	})
	got, err := c.Genres(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Genre{{ID: "true_crime", Name: "True Crime"}, {ID: "comedy", Name: "Comedy"}}, got)

	empty, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"shows": map[string]any{"items": []any{showJSON("a")}}})
		},
	})
	got, err = empty.Genres(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultGenres, got)
}

func TestEpisodes_Mapping(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/shows/p1/episodes": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": []any{map[string]any{
				"id": "e1", "name": "Ep", "description": "d", "release_date": "2024-03-05",
				"duration_ms": 2_580_000, "audio_preview_url": "https://a/e1.mp3",
			}}})
		},
	})
	eps, err := c.Episodes(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, eps, 1)
	require.Equal(t, "43 min", eps[0].DurationLabel())
	require.Equal(t, "p1", eps[0].PodcastID)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), eps[0].Date)
}

func TestEpisodesByIDs_FiltersAndBatches(t *testing.T) {
	var calls []string
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/episodes": func(w http.ResponseWriter, r *http.Request) {
			ids := r.URL.Query().Get("ids")
			calls = append(calls, ids)
			var items []any
			for _, id := range strings.Split(ids, ",") {
				items = append(items, map[string]any{"id": id, "name": id, "show": map[string]any{"id": "show-1", "images": []map[string]any{{"url": "https://img/s"}}}})
			}
			items = append(items, nil)
			writeJSON(w, map[string]any{"episodes": items})
		},
	})

	var ids []string
	for i := 0; i < 55; i++ {
		ids = append(ids, strings.Repeat("a", 20)+string(rune('A'+i/26))+string(rune('a'+i%26)))
	}
	ids = append(ids, "not-a-provider-id", ids[0])

	eps, err := c.EpisodesByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	require.Len(t, eps, 55)
	require.Equal(t, "show-1", eps[0].PodcastID)
	require.Equal(t, "https://img/s", eps[0].ImageURL)
}

func TestGet_MapsErrors(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/shows/missing": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	_, err := c.Podcast(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
