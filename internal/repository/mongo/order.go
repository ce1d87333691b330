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

var _ model.OrderStore = (*OrderRepository)(nil)

type OrderRepository struct {
	orders *mongo.Collection
}

func NewOrderRepository(db *Connection) *OrderRepository {
	return &OrderRepository{
		orders: db.collection(collectionOrders),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	doc := newOrderDocument(order, time.Now().UTC())
	doc.ID = bson.NewObjectID()

	if _, err := r.orders.InsertOne(ctx, doc); err != nil {
		return model.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	return doc.toModel(), nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Order{}, err
	}

	var doc orderDocument
	if err := r.orders.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if notFound(err) {
			return model.Order{}, model.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return doc.toModel(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.list(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, bson.D{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.D) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toModel())
	}
	return orders, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (model.Order, error) {
	return r.set(ctx, id, bson.D{
		{Key: "is_paid", Value: true},
		{Key: "paid_at", Value: paidAt},
		{Key: "updated_at", Value: time.Now().UTC()},
	}, "mark order paid")
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	return r.set(ctx, id, bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}, "update order status")
}

func (r *OrderRepository) set(ctx context.Context, id string, set bson.D, op string) (model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Order{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	err = r.orders.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return model.Order{}, model.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("failed to %s: %w", op, err)
	}

	return doc.toModel(), nil
}
