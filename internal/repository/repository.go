// Package repository opens the configured directory, catalog and order stores.
package repository

import (
	"context"
	"fmt"

	"github.com/axionhelmets/storefront-server/internal/config"
	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/repository/mongo"
	"github.com/axionhelmets/storefront-server/internal/repository/postgres"
)

type connection interface {
	Ping(ctx context.Context) error
	Close() error
}

// Stores bundles the store implementations of one backend.
type Stores struct {
	Users    model.UserStore
	Products model.ProductStore
	Orders   model.OrderStore

	conn connection
}

// Ping checks the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *Stores) Close() error {
	return s.conn.Close()
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Database) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		conn, err := mongo.NewConnection(ctx, cfg.MongoURI, cfg.MongoName)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:    mongo.NewUserRepository(conn),
			Products: mongo.NewProductRepository(conn),
			Orders:   mongo.NewOrderRepository(conn),
			conn:     conn,
		}, nil
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:    postgres.NewUserRepository(conn),
			Products: postgres.NewProductRepository(conn),
			Orders:   postgres.NewOrderRepository(conn),
			conn:     conn,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
