package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axionhelmets/storefront-server/internal/mocks"
	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/testutil"
)

func TestSessionAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	user := model.User{ID: "u-1", Email: "a@x.com", Role: model.RoleUser}

	tests := []struct {
		name      string
		parseID   string
		parseErr  error
		expectGet bool
		getUser   model.User
		getErr    error
		wantUser  model.User
		wantErr   error
	}{
		{
			name:      "valid token",
			parseID:   "u-1",
			expectGet: true,
			getUser:   user,
			wantUser:  user,
		},
		{
			name:     "expired token never touches the store",
			parseErr: model.ErrInvalidToken,
			wantErr:  model.ErrInvalidToken,
		},
		{
			name:      "user deleted",
			parseID:   "u-gone",
			expectGet: true,
			getErr:    model.ErrNotFound,
			wantErr:   model.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := mocks.NewTokenManager(t)
			users := mocks.NewUserStore(t)

			tokens.On("ParseSessionToken", "tok").Return(tt.parseID, tt.parseErr)
			if tt.expectGet {
				users.On("GetByID", mock.Anything, tt.parseID).Return(tt.getUser, tt.getErr)
			}

			a := NewSessionAuthenticator(tokens, users)
			assert.Equal(t, AuthenticatorSession, a.Name())

			got, err := a.Authenticate(context.Background(), "tok")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, got)
		})
	}
}

func TestSessionAuthenticator_StoreError(t *testing.T) {
	tokens := mocks.NewTokenManager(t)
	users := mocks.NewUserStore(t)
	boom := errors.New("db down")

	tokens.On("ParseSessionToken", "tok").Return("u-1", nil)
	users.On("GetByID", mock.Anything, "u-1").Return(model.User{}, boom)

	_, err := NewSessionAuthenticator(tokens, users).Authenticate(context.Background(), "tok")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrUserNotFound)
}

func TestProviderAuthenticator_Authenticate(t *testing.T) {
	verifier := mocks.NewIdentityVerifier(t)
	store := newMemUserStore()

	verifier.On("Verify", mock.Anything, "T1").
		Return(model.VerifiedIdentity{SubjectID: "ext-1", Email: "a@x.com", DisplayName: "Ann"}, nil)

	a := NewProviderAuthenticator(verifier, NewReconciler(store, testutil.MakeNoopLogger()))
	assert.Equal(t, AuthenticatorProvider, a.Name())

	user, err := a.Authenticate(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", user.ExternalSubjectID)
	assert.Equal(t, 1, store.count())
}

func TestProviderAuthenticator_VerifierFailure(t *testing.T) {
	verifier := mocks.NewIdentityVerifier(t)
	users := mocks.NewUserStore(t)

	verifier.On("Verify", mock.Anything, "bad").Return(model.VerifiedIdentity{}, model.ErrUpstreamVerifier)

	a := NewProviderAuthenticator(verifier, NewReconciler(users, testutil.MakeNoopLogger()))

	_, err := a.Authenticate(context.Background(), "bad")
	require.ErrorIs(t, err, model.ErrUpstreamVerifier)
}

func TestAuth_SignIn(t *testing.T) {
	verifier := mocks.NewIdentityVerifier(t)
	tokens := mocks.NewTokenManager(t)
	store := newMemUserStore()
	expires := time.Now().Add(time.Hour)

	verifier.On("Verify", mock.Anything, "T1").
		Return(model.VerifiedIdentity{SubjectID: "ext-1", Email: "a@x.com", DisplayName: "Ann"}, nil)
	tokens.On("GenerateSessionToken", "u-1").Return("session-token", expires, nil)

	auth := NewAuth(verifier, NewReconciler(store, testutil.MakeNoopLogger()), tokens, store, testutil.MakeNoopLogger())

	res, err := auth.SignIn(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "session-token", res.Token)
	assert.Equal(t, expires, res.ExpiresAt)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Equal(t, "Ann", res.User.DisplayName)
}

func TestAuth_SignIn_Rejected(t *testing.T) {
	verifier := mocks.NewIdentityVerifier(t)
	tokens := mocks.NewTokenManager(t)
	users := mocks.NewUserStore(t)

	verifier.On("Verify", mock.Anything, "bad").Return(model.VerifiedIdentity{}, model.ErrInvalidToken)

	auth := NewAuth(verifier, NewReconciler(users, testutil.MakeNoopLogger()), tokens, users, testutil.MakeNoopLogger())

	_, err := auth.SignIn(context.Background(), "bad")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestAuth_SetRole(t *testing.T) {
	store := newMemUserStore()
	created, err := store.Create(context.Background(), model.User{ExternalSubjectID: "ext-1", Email: "a@x.com", Role: model.RoleUser})
	require.NoError(t, err)

	auth := NewAuth(nil, nil, nil, store, testutil.MakeNoopLogger())

	got, err := auth.SetRole(context.Background(), " A@x.com", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, model.RoleAdmin, got.Role)

	_, err = auth.SetRole(context.Background(), "a@x.com", model.Role("root"))
	require.Error(t, err)

	_, err = auth.SetRole(context.Background(), "nobody@x.com", model.RoleAdmin)
	require.ErrorIs(t, err, model.ErrNotFound)
}
