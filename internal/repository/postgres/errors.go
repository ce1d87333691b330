package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/axionhelmets/storefront-server/internal/model"
)

const codeUniqueViolation = "23505"

var constraintFields = map[string]string{
	"uniq_external_subject_id": model.FieldExternalSubjectID,
	"uniq_email":               model.FieldEmail,
}

// conflictFrom converts a unique violation into *model.ConflictError.
// Other errors are returned as nil.
func conflictFrom(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return nil
	}
	return &model.ConflictError{Field: constraintFields[pgErr.ConstraintName], Err: err}
}

// parseID returns model.ErrNotFound for ids that cannot exist in a UUID column.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, model.ErrNotFound
	}
	return parsed, nil
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
