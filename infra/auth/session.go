package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CrestNiraj12/podrant/domain"
)

// expirySkew renews sessions slightly before the server would reject them.
const expirySkew = 30 * time.Second

// Session is a persisted backend sign-in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
}

// Valid reports whether the access token can still be used at now.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Add(expirySkew).Before(s.ExpiresAt)
}

// Viewer converts the session into the domain view of the signed-in user.
func (s Session) Viewer() domain.Session {
	return domain.Session{UserID: s.UserID, Email: s.Email}
}

type accessClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// sessionFromToken fills identity and expiry from the access token claims.
// The signature is not checked here; the backend verifies it on every call.
func sessionFromToken(access, refresh string) (Session, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return Session{}, fmt.Errorf("parsing access token: %w", err)
	}
	if claims.Subject == "" {
		return Session{}, errors.New("access token has no subject")
	}
	s := Session{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	if avatar, ok := claims.UserMetadata["avatar_url"].(string); ok {
		s.AvatarURL = avatar
	}
	return s, nil
}

// LoadSession reads a session file. A missing file returns an empty session.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session: %w", err)
	}
	return s, nil
}

// SaveSession writes the session with owner-only permissions.
func SaveSession(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearSession removes the session file.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

func bearer(token string) string {
	return "Bearer " + strings.TrimSpace(token)
}
