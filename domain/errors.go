package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates the action needs a signed-in viewer.
	ErrUnauthenticated = errors.New("sign in required")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyBody indicates the user submitted an empty comment or post.
	ErrEmptyBody = errors.New("text cannot be empty")

	// ErrBodyTooLong indicates the body exceeds MaxBodyLength.
	ErrBodyTooLong = errors.New("text exceeds character limit")

	// ErrNotOwner indicates an edit or delete matched no row owned by the viewer.
	ErrNotOwner = errors.New("item not found or not owned by you")

	// ErrUsernameTaken indicates another profile already uses the username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrInvalidUsername indicates the username fails format rules.
	ErrInvalidUsername = errors.New("username must be 3-30 characters of a-z, 0-9, '_' or '.'")

	// ErrUnsupportedChoice indicates a choice the item kind cannot hold.
	ErrUnsupportedChoice = errors.New("unsupported interaction choice")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError describes a non-2xx response from an external service.
type APIError struct {
	Service string
	Method  string
	Path    string
	Status  int
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API %s %s returned %d: %s", e.Service, e.Method, e.Path, e.Status, e.Body)
}

// Unwrap maps auth failures onto ErrUnauthorized so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}
