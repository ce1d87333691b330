package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	collectionUsers    = "users"
	collectionProducts = "products"
	collectionOrders   = "orders"

	indexExternalSubjectID = "uniq_external_subject_id"
	indexEmail             = "uniq_email"
)

type Connection struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects to uri, verifies the primary is reachable and
// ensures the directory's unique indexes exist.
func NewConnection(ctx context.Context, uri, database string) (*Connection, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	c := &Connection{
		client: client,
		db:     client.Database(database),
	}

	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return c, nil
}

func (c *Connection) ensureIndexes(ctx context.Context) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_subject_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexExternalSubjectID),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexEmail),
		},
	}
	if _, err := c.db.Collection(collectionUsers).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	orders := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := c.db.Collection(collectionOrders).Indexes().CreateOne(ctx, orders); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}

func (c *Connection) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Connection) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(context.Background())
}
