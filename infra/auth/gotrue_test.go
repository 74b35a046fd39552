package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/CrestNiraj12/podrant/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SignInWithPassword(t *testing.T) {
	access := signedToken(t, "user-7", time.Now().Add(time.Hour))
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected grant %q", r.URL.Query().Get("grant_type"))
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"access_token": access, "refresh_token": "r1", "expires_in": 3600})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon")
	defer c.Close()
	s, err := c.SignInWithPassword(context.Background(), " me@example.test ", "pw")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if s.UserID != "user-7" || s.RefreshToken != "r1" {
		t.Fatalf("unexpected session %#v", s)
	}
	if gotBody["email"] != "me@example.test" || gotBody["password"] != "pw" {
		t.Fatalf("unexpected body %#v", gotBody)
	}
}

func TestClient_RefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_grant"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon")
	_, err := c.Refresh(context.Background(), "stale")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := c.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("empty refresh token should fail fast, got %v", err)
	}
}

func TestClient_AuthorizeURL(t *testing.T) {
	c := NewClient("https://proj.example.test/", "anon")
	raw := c.AuthorizeURL("github", "http://127.0.0.1:1/callback", "chal")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	if !strings.HasSuffix(u.Path, "/auth/v1/authorize") {
		t.Fatalf("unexpected path %q", u.Path)
	}
	q := u.Query()
	if q.Get("provider") != "github" || q.Get("code_challenge") != "chal" || q.Get("code_challenge_method") != "s256" {
		t.Fatalf("unexpected query %v", q)
	}
}
