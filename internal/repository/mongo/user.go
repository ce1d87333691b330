package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/axionhelmets/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		users: db.collection(collectionUsers),
	}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, by string) (model.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if notFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return doc.toModel(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "id")
}

func (r *UserRepository) GetByExternalSubjectID(ctx context.Context, subjectID string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "external_subject_id", Value: subjectID}}, "external subject id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "email")
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	doc := newUserDocument(user)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if conflict := conflictFrom(err); conflict != nil {
			return model.User{}, conflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return model.User{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid

	return doc.toModel(), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, update model.UserUpdate) (model.User, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if update.DisplayName != nil {
		set = append(set, bson.E{Key: "display_name", Value: *update.DisplayName})
	}
	if update.AvatarURL != nil {
		set = append(set, bson.E{Key: "avatar_url", Value: *update.AvatarURL})
	}

	return r.findOneAndSet(ctx, id, set, "update user")
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	set := bson.D{
		{Key: "role", Value: string(role)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	return r.findOneAndSet(ctx, id, set, "set user role")
}

func (r *UserRepository) findOneAndSet(ctx context.Context, id string, set bson.D, op string) (model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to %s: %w", op, err)
	}

	return doc.toModel(), nil
}
