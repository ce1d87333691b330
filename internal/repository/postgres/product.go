package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/axionhelmets/storefront-server/internal/model"
)

var _ model.ProductStore = (*ProductRepository)(nil)

const productColumns = `id, name, price, image, description, stock, category, featured, created_at, updated_at`

type ProductRepository struct {
	db *Connection
}

func NewProductRepository(db *Connection) *ProductRepository {
	return &ProductRepository{
		db: db,
	}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p  model.Product
		id uuid.UUID
	)
	err := row.Scan(&id, &p.Name, &p.Price, &p.Image, &p.Description, &p.Stock, &p.Category, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	p.ID = id.String()
	return p, err
}

// listQuery builds the filtered catalog query, newest first.
func listQuery(filter model.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conds = append(conds, "featured = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY created_at DESC`, args
}

func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query, args := listQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (model.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return model.Product{}, err
	}

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, pid))
	if err != nil {
		if notFound(err) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

const insertProduct = `INSERT INTO products (` + productColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			  RETURNING ` + productColumns

func (r *ProductRepository) Create(ctx context.Context, product model.Product) (model.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, insertProduct, productArgs(product, time.Now().UTC())...))
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func productArgs(p model.Product, now time.Time) []any {
	return []any{uuid.New(), p.Name, p.Price, p.Image, p.Description, p.Stock, p.Category, p.Featured, now}
}

func (r *ProductRepository) Update(ctx context.Context, id string, update model.ProductUpdate) (model.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return model.Product{}, err
	}

	query := `UPDATE products SET
			      name = COALESCE($2, name),
			      price = COALESCE($3, price),
			      image = COALESCE($4, image),
			      description = COALESCE($5, description),
			      stock = COALESCE($6, stock),
			      category = COALESCE($7, category),
			      featured = COALESCE($8, featured),
			      updated_at = $9
			  WHERE id = $1
			  RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRow(ctx, query,
		pid, update.Name, update.Price, update.Image, update.Description,
		update.Stock, update.Category, update.Featured, time.Now().UTC(),
	))
	if err != nil {
		if notFound(err) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Replace swaps the whole catalog inside one transaction.
func (r *ProductRepository) Replace(ctx context.Context, products []model.Product) ([]model.Product, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return nil, fmt.Errorf("failed to clear products: %w", err)
	}

	now := time.Now().UTC()
	saved := make([]model.Product, 0, len(products))
	for _, product := range products {
		p, err := scanProduct(tx.QueryRow(ctx, insertProduct, productArgs(product, now)...))
		if err != nil {
			return nil, fmt.Errorf("failed to insert product: %w", err)
		}
		saved = append(saved, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}
