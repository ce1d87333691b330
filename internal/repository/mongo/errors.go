package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/axionhelmets/storefront-server/internal/model"
)

const codeDuplicateKey = 11000

var indexFields = []struct {
	index string
	field string
}{
	{index: indexExternalSubjectID, field: model.FieldExternalSubjectID},
	{index: indexEmail, field: model.FieldEmail},
}

// conflictFrom converts a duplicate key error into *model.ConflictError.
// Other errors are returned as nil.
func conflictFrom(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		for _, f := range indexFields {
			if se.HasErrorCodeWithMessage(codeDuplicateKey, f.index) {
				return &model.ConflictError{Field: f.field, Err: err}
			}
		}
	}

	return &model.ConflictError{Err: err}
}

// parseID returns model.ErrNotFound for ids that cannot be ObjectIDs.
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, model.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
