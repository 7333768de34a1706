// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// UserIDHeader carries the caller's user ID on every authenticated request
const UserIDHeader = "X-User-Id"

// maxEmailLen matches the users.email column width
const maxEmailLen = 255

var (
	ErrMissingUserID = errors.New("X-User-Id header required")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidEmail  = errors.New("invalid email")
)

// GenerateID creates a new random record ID
func GenerateID() string {
	return uuid.NewString()
}

// ParseID validates a UUID path or header value and returns its canonical form
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id.String(), nil
}

// UserIDFromRequest extracts and validates the X-User-Id header.
// It does not check that the user exists.
func UserIDFromRequest(r *http.Request) (string, error) {
	raw := r.Header.Get(UserIDHeader)
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingUserID
	}
	return ParseID(raw)
}

// NormalizeEmail validates a bare email address and lower-cases it.
// Display-name forms like "Ann <ann@example.com>" are rejected.
func NormalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" || len(email) > maxEmailLen {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(email, "@")
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(email), nil
}
