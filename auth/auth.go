// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrInvalidToken   = errors.New("invalid token format")
)

// NewSessionID creates a random session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// signature returns the HMAC of a session ID
// Deterministic for a given salt, so nothing needs to be stored to verify it
func signature(sessionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner cookies
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// SignSession returns the cookie value for a session: "<id>.<signature>"
func SignSession(sessionID, salt string) string {
	return sessionID + "." + signature(sessionID, salt)
}

// VerifySession checks a cookie value and returns the session ID it carries
func VerifySession(token, salt string) (string, error) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" || sig == "" {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidToken
	}

	expected := signature(id, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSession
	}
	return id, nil
}
