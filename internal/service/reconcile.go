package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Reconciler keeps local user records in step with verified identities.
type Reconciler struct {
	users  model.UserStore
	logger *logger.Logger
}

func NewReconciler(users model.UserStore, logger *logger.Logger) *Reconciler {
	return &Reconciler{users: users, logger: logger}
}

// Reconcile resolves identity to a user record, creating it on first sight
// and refreshing display name and avatar when the provider reports new
// non-empty values.
//
// Concurrent first sign-ins of the same subject are resolved by the store's
// unique index: the losing create re-reads the winner's record. An email
// already owned by another subject yields model.ErrDirectoryConflict.
func (r *Reconciler) Reconcile(ctx context.Context, identity model.VerifiedIdentity) (model.User, error) {
	if identity.SubjectID == "" {
		return model.User{}, fmt.Errorf("%w: identity has no subject", model.ErrInvalidToken)
	}

	user, err := r.users.GetByExternalSubjectID(ctx, identity.SubjectID)
	switch {
	case err == nil:
		return r.refresh(ctx, user, identity)
	case !errors.Is(err, model.ErrNotFound):
		r.logger.Error("Reconciler: failed to get user by subject",
			"subject_id", identity.SubjectID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by subject: %w", err)
	}

	user, err = r.create(ctx, identity)
	if err == nil {
		return user, nil
	}

	field, ok := model.ConflictField(err)
	if !ok {
		return model.User{}, err
	}

	// A concurrent create of the same subject may be reported on either
	// unique index, so the subject decides whether this request lost a race.
	user, err = r.users.GetByExternalSubjectID(ctx, identity.SubjectID)
	switch {
	case err == nil:
		r.logger.Debug("Reconciler: lost create race, re-reading",
			"subject_id", identity.SubjectID,
			"field", field)
	case errors.Is(err, model.ErrNotFound) && field != model.FieldExternalSubjectID:
		r.logger.Warn("Reconciler: email already belongs to another subject",
			"subject_id", identity.SubjectID,
			"field", field)
		return model.User{}, fmt.Errorf("%w: %s already in use", model.ErrDirectoryConflict, field)
	default:
		return model.User{}, fmt.Errorf("failed to re-read user after conflict: %w", err)
	}

	return r.refresh(ctx, user, identity)
}

func (r *Reconciler) create(ctx context.Context, identity model.VerifiedIdentity) (model.User, error) {
	email := model.NormalizeEmail(identity.Email)

	displayName := identity.DisplayName
	if displayName == "" {
		displayName = model.EmailLocalPart(email)
	}

	method := identity.SignInMethod
	if method == "" {
		method = model.SignInMethodPassword
	}

	user, err := r.users.Create(ctx, model.User{
		ExternalSubjectID: identity.SubjectID,
		DisplayName:       displayName,
		Email:             email,
		AvatarURL:         nonEmpty(identity.AvatarURL),
		SignInMethod:      method,
		Role:              model.RoleUser,
	})
	if err != nil {
		if !errors.Is(err, model.ErrConflict) {
			r.logger.Error("Reconciler: failed to create user",
				"subject_id", identity.SubjectID,
				"error", err.Error())
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("Reconciler: user created",
		"user_id", user.ID,
		"subject_id", user.ExternalSubjectID,
		"sign_in_method", user.SignInMethod)

	return user, nil
}

func (r *Reconciler) refresh(ctx context.Context, user model.User, identity model.VerifiedIdentity) (model.User, error) {
	var update model.UserUpdate

	if identity.DisplayName != "" && identity.DisplayName != user.DisplayName {
		name := identity.DisplayName
		update.DisplayName = &name
	}

	if avatar := nonEmpty(identity.AvatarURL); avatar != nil &&
		(user.AvatarURL == nil || *user.AvatarURL != *avatar) {
		update.AvatarURL = avatar
	}

	if update.Empty() {
		return user, nil
	}

	updated, err := r.users.Update(ctx, user.ID, update)
	if err != nil {
		r.logger.Error("Reconciler: failed to update user profile",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}

	r.logger.Debug("Reconciler: user profile refreshed",
		"user_id", updated.ID)

	return updated, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
