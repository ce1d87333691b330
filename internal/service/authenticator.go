package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/axionhelmets/storefront-server/internal/model"
)

// Authenticator names used in authorization decision logs and metrics.
const (
	AuthenticatorSession  = "session"
	AuthenticatorProvider = "identity_provider"
)

// SessionAuthenticator admits locally issued session tokens.
type SessionAuthenticator struct {
	tokens model.TokenManager
	users  model.UserStore
}

func NewSessionAuthenticator(tokens model.TokenManager, users model.UserStore) *SessionAuthenticator {
	return &SessionAuthenticator{tokens: tokens, users: users}
}

func (a *SessionAuthenticator) Name() string {
	return AuthenticatorSession
}

// Authenticate parses token and loads its user. A well-formed token for a
// user that no longer exists yields model.ErrUserNotFound.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (model.User, error) {
	userID, err := a.tokens.ParseSessionToken(token)
	if err != nil {
		return model.User{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, userID)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// ProviderAuthenticator admits identity provider ID tokens, reconciling the
// verified identity into the user directory.
type ProviderAuthenticator struct {
	verifier   model.IdentityVerifier
	reconciler *Reconciler
}

func NewProviderAuthenticator(verifier model.IdentityVerifier, reconciler *Reconciler) *ProviderAuthenticator {
	return &ProviderAuthenticator{verifier: verifier, reconciler: reconciler}
}

func (a *ProviderAuthenticator) Name() string {
	return AuthenticatorProvider
}

func (a *ProviderAuthenticator) Authenticate(ctx context.Context, token string) (model.User, error) {
	identity, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return model.User{}, err
	}

	return a.reconciler.Reconcile(ctx, identity)
}
