//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/axionhelmets/storefront-server/internal/model"
	repo "github.com/axionhelmets/storefront-server/internal/repository/mongo"
)

var uri string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	uri = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T, database string) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), uri, database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t, "users_test"))

	saved, err := ur.Create(ctx, model.User{
		ExternalSubjectID: "sub-1",
		DisplayName:       "Ann",
		Email:             "ann@x.io",
		SignInMethod:      model.SignInMethodPassword,
		Role:              model.RoleUser,
	})
	require.NoError(t, err)

	got, err := ur.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "ann@x.io", got.Email)

	name := "Annabelle"
	updated, err := ur.Update(ctx, saved.ID, model.UserUpdate{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, "Annabelle", updated.DisplayName)

	admin, err := ur.SetRole(ctx, saved.ID, model.RoleAdmin)
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())

	_, err = ur.Create(ctx, model.User{ExternalSubjectID: "sub-2", DisplayName: "x", Email: "ann@x.io", Role: model.RoleUser})
	field, ok := model.ConflictField(err)
	require.True(t, ok)
	require.Equal(t, model.FieldEmail, field)

	_, err = ur.GetByEmail(ctx, "nobody@x.io")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t, "users_race_test"))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ur.Create(ctx, model.User{ExternalSubjectID: "sub-race", DisplayName: "R", Email: "race@x.io", Role: model.RoleUser})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			if _, ok := model.ConflictField(err); ok {
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, 7, conflicts)
}

func TestProductAndOrderRepositories(t *testing.T) {
	ctx := context.Background()
	conn := connect(t, "catalog_test")
	pr := repo.NewProductRepository(conn)
	or := repo.NewOrderRepository(conn)

	products, err := pr.Replace(ctx, []model.Product{
		{Name: "A", Price: 100, Image: "a", Description: "a", Stock: 1, Category: "helmet", Featured: true},
		{Name: "B", Price: 200, Image: "b", Description: "b", Stock: 2, Category: "helmet"},
	})
	require.NoError(t, err)
	require.Len(t, products, 2)

	all, err := pr.List(ctx, model.ProductFilter{Category: "helmet"})
	require.NoError(t, err)
	require.Len(t, all, 2)

	stock := 0
	updated, err := pr.Update(ctx, products[0].ID, model.ProductUpdate{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 0, updated.Stock)

	require.NoError(t, pr.Delete(ctx, products[1].ID))
	_, err = pr.GetByID(ctx, products[1].ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	order, err := or.Create(ctx, model.Order{
		UserID:        "u-1",
		Items:         []model.OrderItem{{ProductID: products[0].ID, Name: "A", Price: 100, Quantity: 1}},
		PaymentMethod: model.PaymentMethodCOD,
		ItemsPrice:    100,
		TaxPrice:      10,
		ShippingPrice: 1000,
		TotalPrice:    1110,
		Status:        model.OrderStatusPending,
	})
	require.NoError(t, err)

	paid, err := or.MarkPaid(ctx, order.ID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, paid.IsPaid)

	mine, err := or.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	none, err := or.ListByUser(ctx, "u-2")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}
