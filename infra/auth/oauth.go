package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/podrant/domain"
)

// LoginOptions configure EnsureLogin.
type LoginOptions struct {
	SessionPath  string
	Provider     string // External identity provider, e.g. "github"
	CallbackPort int
	OpenBrowser  func(url string) error
}

// EnsureLogin returns a usable session: the stored one if still valid, a
// refreshed one if it expired, or a new one from browser sign-in.
func EnsureLogin(ctx context.Context, c *Client, opts LoginOptions) (Session, error) {
	s, err := LoadSession(opts.SessionPath)
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session")
		s = Session{}
	}
	if s.Valid(time.Now()) {
		return s, nil
	}
	if s.RefreshToken != "" {
		renewed, err := c.Refresh(ctx, s.RefreshToken)
		if err == nil {
			return renewed, SaveSession(opts.SessionPath, renewed)
		}
		log.Info().Err(err).Msg("stored session could not be refreshed, signing in again")
	}

	s, err = BrowserLogin(ctx, c, opts)
	if err != nil {
		return Session{}, err
	}
	return s, SaveSession(opts.SessionPath, s)
}

// BrowserLogin runs a PKCE sign-in through the system browser with a
// localhost callback.
func BrowserLogin(ctx context.Context, c *Client, opts LoginOptions) (Session, error) {
	verifier, err := randomCodeVerifier()
	if err != nil {
		return Session{}, fmt.Errorf("generating oauth code verifier: %w", err)
	}
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", opts.CallbackPort)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", opts.CallbackPort),
		Handler: callbackHandler(codeCh, errCh),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, fmt.Errorf("oauth callback server: %w", err))
		}
	}()
	defer srv.Shutdown(context.Background())

	authURL := c.AuthorizeURL(opts.Provider, redirectURI, codeChallengeS256(verifier))
	fmt.Printf("Opening browser for sign-in...\nIf it does not open, visit:\n%s\n\n", authURL)
	open := opts.OpenBrowser
	if open == nil {
		open = openBrowser
	}
	if err := open(authURL); err != nil {
		log.Debug().Err(err).Msg("could not open browser")
	}

	code, err := waitForCode(ctx, codeCh, errCh, 2*time.Minute)
	if err != nil {
		return Session{}, err
	}
	return c.ExchangeCode(ctx, code, verifier)
}

func callbackHandler(codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "authorization denied", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("oauth authorization error: %s %s", e, q.Get("error_description")))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing oauth code", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth callback missing code"))
			return
		}
		_, _ = io.WriteString(w, domain.AppTitle+" sign-in complete. You can return to the terminal.")
		select {
		case codeCh <- code:
		default:
		}
	})
}

func waitForCode(ctx context.Context, codeCh <-chan string, errCh <-chan error, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errCh:
		return "", err
	case code := <-codeCh:
		return code, nil
	case <-timer.C:
		return "", errors.New("oauth login timed out")
	}
}

func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

func openBrowser(url string) error {
	return exec.Command("open", url).Start()
}

func randomCodeVerifier() (string, error) {
	// 32 random bytes -> 43 chars with RawURLEncoding, valid PKCE verifier length.
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func codeChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
