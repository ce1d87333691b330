package service

import (
	"context"
	"fmt"

	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Auth exchanges identity provider tokens for local session tokens.
type Auth struct {
	provider *ProviderAuthenticator
	tokens   model.TokenManager
	users    model.UserStore
	logger   *logger.Logger
}

func NewAuth(
	verifier model.IdentityVerifier,
	reconciler *Reconciler,
	tokens model.TokenManager,
	users model.UserStore,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		provider: NewProviderAuthenticator(verifier, reconciler),
		tokens:   tokens,
		users:    users,
		logger:   logger,
	}
}

// SignIn verifies idToken with the identity provider, reconciles the user and
// issues a session token for subsequent requests.
func (a *Auth) SignIn(ctx context.Context, idToken string) (model.SessionResult, error) {
	user, err := a.provider.Authenticate(ctx, idToken)
	if err != nil {
		a.logger.Info("Auth service: sign-in rejected",
			"error", err.Error())
		return model.SessionResult{}, err
	}

	token, expiresAt, err := a.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session token",
			"user_id", user.ID,
			"error", err.Error())
		return model.SessionResult{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	a.logger.Info("Auth service: user signed in",
		"user_id", user.ID,
		"role", user.Role)

	return model.SessionResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// SetRole changes a user's role, looked up by email. It is the out-of-band
// path for granting admin rights.
func (a *Auth) SetRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q", role)
	}

	user, err := a.users.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.Role == role {
		return user, nil
	}

	updated, err := a.users.SetRole(ctx, user.ID, role)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to set role: %w", err)
	}

	a.logger.Info("Auth service: role changed",
		"user_id", updated.ID,
		"from", user.Role,
		"to", updated.Role)

	return updated, nil
}
