package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/axionhelmets/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, external_subject_id, display_name, email, avatar_url, sign_in_method, role, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user model.User
		id   uuid.UUID
	)
	err := row.Scan(
		&id, &user.ExternalSubjectID, &user.DisplayName, &user.Email, &user.AvatarURL,
		&user.SignInMethod, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	user.ID = id.String()
	return user, err
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if notFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}
	return r.getBy(ctx, "id", uid)
}

func (r *UserRepository) GetByExternalSubjectID(ctx context.Context, subjectID string) (model.User, error) {
	return r.getBy(ctx, "external_subject_id", subjectID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		uuid.New(), user.ExternalSubjectID, user.DisplayName, user.Email, user.AvatarURL,
		user.SignInMethod, user.Role, now,
	))
	if err != nil {
		if conflict := conflictFrom(err); conflict != nil {
			return model.User{}, conflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, update model.UserUpdate) (model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}

	query := `UPDATE users SET
			      display_name = COALESCE($2, display_name),
			      avatar_url = COALESCE($3, avatar_url),
			      updated_at = $4
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, uid, update.DisplayName, update.AvatarURL, time.Now().UTC()))
	if err != nil {
		if notFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}

	query := `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, uid, role, time.Now().UTC()))
	if err != nil {
		if notFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to set user role: %w", err)
	}

	return user, nil
}
