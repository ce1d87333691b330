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

var _ model.ProductStore = (*ProductRepository)(nil)

type ProductRepository struct {
	products *mongo.Collection
}

func NewProductRepository(db *Connection) *ProductRepository {
	return &ProductRepository{
		products: db.collection(collectionProducts),
	}
}

// productFilter translates a catalog filter into a query document.
func productFilter(filter model.ProductFilter) bson.D {
	q := bson.D{}
	if filter.Category != "" {
		q = append(q, bson.E{Key: "category", Value: filter.Category})
	}
	if filter.Featured != nil {
		q = append(q, bson.E{Key: "featured", Value: *filter.Featured})
	}
	return q
}

// productSet returns the $set document for the non-nil fields of update.
func productSet(update model.ProductUpdate, now time.Time) bson.D {
	set := bson.D{{Key: "updated_at", Value: now}}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *update.Price})
	}
	if update.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *update.Image})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.Stock != nil {
		set = append(set, bson.E{Key: "stock", Value: *update.Stock})
	}
	if update.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *update.Category})
	}
	if update.Featured != nil {
		set = append(set, bson.E{Key: "featured", Value: *update.Featured})
	}
	return set
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.products.Find(ctx, productFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (model.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Product{}, err
	}

	var doc productDocument
	if err := r.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if notFound(err) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return doc.toModel(), nil
}

func (r *ProductRepository) Create(ctx context.Context, product model.Product) (model.Product, error) {
	doc := newProductDocument(product, time.Now().UTC())
	doc.ID = bson.NewObjectID()

	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	return doc.toModel(), nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, update model.ProductUpdate) (model.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Product{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	change := bson.D{{Key: "$set", Value: productSet(update, time.Now().UTC())}}

	var doc productDocument
	if err := r.products.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, change, opts).Decode(&doc); err != nil {
		if notFound(err) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return doc.toModel(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ProductRepository) Replace(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if _, err := r.products.DeleteMany(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("failed to clear products: %w", err)
	}

	saved := make([]model.Product, 0, len(products))
	if len(products) == 0 {
		return saved, nil
	}

	now := time.Now().UTC()
	docs := make([]productDocument, 0, len(products))
	for _, p := range products {
		doc := newProductDocument(p, now)
		doc.ID = bson.NewObjectID()
		docs = append(docs, doc)
	}

	if _, err := r.products.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}

	for _, d := range docs {
		saved = append(saved, d.toModel())
	}
	return saved, nil
}
