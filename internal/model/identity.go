package model

import (
	"context"
	"strings"
)

// IdentityVerifier validates a token issued by the external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (VerifiedIdentity, error)
}

// VerifiedIdentity is the normalized output of an identity verification.
// It lives for the duration of one request and is never persisted or cached.
type VerifiedIdentity struct {
	SubjectID    string
	Email        string
	DisplayName  string
	AvatarURL    *string
	SignInMethod SignInMethod
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns the part of the address before '@'.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
