package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for the user directory.
//
// Implementations must enforce uniqueness of ExternalSubjectID and Email and
// report violations from Create as *ConflictError.
type UserStore interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByExternalSubjectID(ctx context.Context, subjectID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id string, update UserUpdate) (User, error)
	SetRole(ctx context.Context, id string, role Role) (User, error)
}

// Role is a user's authorization role.
type Role string

const (
	// RoleUser is the default role assigned at creation.
	RoleUser Role = "user"
	// RoleAdmin grants access to catalog and order administration.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// SignInMethod is how the user authenticated with the identity provider.
type SignInMethod string

const (
	SignInMethodPassword  SignInMethod = "password"
	SignInMethodFederated SignInMethod = "federated"
)

// User represents one person in the directory.
type User struct {
	ID                string       `json:"id"`
	ExternalSubjectID string       `json:"externalSubjectId"`
	DisplayName       string       `json:"displayName"`
	Email             string       `json:"email"`
	AvatarURL         *string      `json:"avatarUrl"`
	SignInMethod      SignInMethod `json:"signInMethod"`
	Role              Role         `json:"role"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserUpdate holds the mutable profile fields; nil fields are left unchanged.
type UserUpdate struct {
	DisplayName *string
	AvatarURL   *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil
}
