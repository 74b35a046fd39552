package auth

import (
	"context"
	"sync"
	"time"

	"github.com/CrestNiraj12/podrant/domain"
)

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

type refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

// SessionTokenProvider serves the session's access token and renews it
// through the refresh token once it is about to expire.
type SessionTokenProvider struct {
	mu      sync.Mutex
	session Session
	path    string
	client  refresher
	now     func() time.Time
}

// NewSessionTokenProvider wraps a signed-in session. Renewed sessions are
// written back to path.
func NewSessionTokenProvider(s Session, path string, client refresher) *SessionTokenProvider {
	return &SessionTokenProvider{session: s, path: path, client: client, now: time.Now}
}

// AccessToken returns a valid access token, refreshing on demand.
func (p *SessionTokenProvider) AccessToken() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session.AccessToken == "" {
		return "", domain.ErrUnauthenticated
	}
	if p.session.Valid(p.now()) {
		return p.session.AccessToken, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	renewed, err := p.client.Refresh(ctx, p.session.RefreshToken)
	if err != nil {
		return "", err
	}
	p.session = renewed
	if p.path != "" {
		if err := SaveSession(p.path, renewed); err != nil {
			return "", err
		}
	}
	return renewed.AccessToken, nil
}

// Viewer returns the signed-in user.
func (p *SessionTokenProvider) Viewer() domain.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Viewer()
}
