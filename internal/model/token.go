package model

import "time"

// TokenManager issues and validates locally signed session tokens.
type TokenManager interface {
	GenerateSessionToken(userID string) (token string, expiresAt time.Time, err error)
	ParseSessionToken(token string) (userID string, err error)
}

// SessionResult is returned after a successful sign-in.
type SessionResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
