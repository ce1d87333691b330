package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/mocks"
	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/testutil"
)

func validAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   "Ann Rider",
		Address:    "1 Track Rd",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
		Phone:      "+91 90000 00000",
	}
}

func requireAPICode(t *testing.T, err error, code int) {
	t.Helper()
	var apiErr *apiErrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.HTTPCode)
}

func TestPriceItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		items        []model.OrderItem
		wantItems    int64
		wantTax      int64
		wantShipping int64
		wantErr      error
	}{
		{
			name:         "above free shipping threshold",
			items:        []model.OrderItem{{Price: 149900, Quantity: 2}},
			wantItems:    299800,
			wantTax:      29980,
			wantShipping: 0,
		},
		{
			name:         "exactly at threshold pays shipping",
			items:        []model.OrderItem{{Price: 10000, Quantity: 1}},
			wantItems:    10000,
			wantTax:      1000,
			wantShipping: 1000,
		},
		{
			name:         "tax rounds half up",
			items:        []model.OrderItem{{Price: 15, Quantity: 1}},
			wantItems:    15,
			wantTax:      2,
			wantShipping: 1000,
		},
		{
			name:    "line total overflows",
			items:   []model.OrderItem{{Price: 2999900, Quantity: 4_000_000_000_000}},
			wantErr: ErrPriceOverflow,
		},
		{
			name:    "tax would overflow",
			items:   []model.OrderItem{{Price: 2999900, Quantity: 400_000_000_000}},
			wantErr: ErrPriceOverflow,
		},
		{
			name: "running total overflows",
			items: []model.OrderItem{
				{Price: math.MaxInt64 / 20, Quantity: 1},
				{Price: math.MaxInt64 / 20, Quantity: 1},
			},
			wantErr: ErrPriceOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items, tax, shipping, err := PriceItems(tt.items)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, items)
			assert.Equal(t, tt.wantTax, tax)
			assert.Equal(t, tt.wantShipping, shipping)
		})
	}
}

func TestOrders_Place(t *testing.T) {
	orders := mocks.NewOrderStore(t)
	products := mocks.NewProductStore(t)

	products.On("GetByID", mock.Anything, "p-1").
		Return(model.Product{ID: "p-1", Name: "Axion Stealth", Price: 149900, Image: "img"}, nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == "u-1" &&
			o.Status == model.OrderStatusPending &&
			o.ItemsPrice == 149900 &&
			o.TaxPrice == 14990 &&
			o.ShippingPrice == 0 &&
			o.TotalPrice == 164890 &&
			len(o.Items) == 1 && o.Items[0].Name == "Axion Stealth"
	})).Return(model.Order{ID: "o-1", UserID: "u-1", TotalPrice: 164890}, nil)

	got, err := NewOrders(orders, products, testutil.MakeNoopLogger()).Place(context.Background(), model.PlaceOrderParams{
		UserID:          "u-1",
		Items:           []model.OrderLine{{ProductID: "p-1", Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   model.PaymentMethodUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.ID)
}

func TestOrders_Place_Validation(t *testing.T) {
	t.Parallel()

	base := model.PlaceOrderParams{
		UserID:          "u-1",
		Items:           []model.OrderLine{{ProductID: "p-1", Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   model.PaymentMethodCard,
	}

	tests := []struct {
		name   string
		mutate func(p *model.PlaceOrderParams)
	}{
		{name: "no items", mutate: func(p *model.PlaceOrderParams) { p.Items = nil }},
		{name: "quantity above limit", mutate: func(p *model.PlaceOrderParams) {
			p.Items = []model.OrderLine{{ProductID: "p-1", Quantity: MaxLineQuantity + 1}}
		}},
		{name: "zero quantity", mutate: func(p *model.PlaceOrderParams) { p.Items = []model.OrderLine{{ProductID: "p-1"}} }},
		{name: "bad payment", mutate: func(p *model.PlaceOrderParams) { p.PaymentMethod = "bitcoin" }},
		{name: "missing city", mutate: func(p *model.PlaceOrderParams) { p.ShippingAddress.City = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := base
			tt.mutate(&params)

			_, err := NewOrders(mocks.NewOrderStore(t), mocks.NewProductStore(t), testutil.MakeNoopLogger()).
				Place(context.Background(), params)
			requireAPICode(t, err, 400)
		})
	}
}

func TestOrders_Place_UnknownProduct(t *testing.T) {
	products := mocks.NewProductStore(t)
	products.On("GetByID", mock.Anything, "ghost").Return(model.Product{}, model.ErrNotFound)

	_, err := NewOrders(mocks.NewOrderStore(t), products, testutil.MakeNoopLogger()).Place(context.Background(), model.PlaceOrderParams{
		UserID:          "u-1",
		Items:           []model.OrderLine{{ProductID: "ghost", Quantity: 1}},
		ShippingAddress: validAddress(),
		PaymentMethod:   model.PaymentMethodCOD,
	})
	requireAPICode(t, err, 400)
}

func TestOrders_Get_Access(t *testing.T) {
	t.Parallel()

	order := model.Order{ID: "o-1", UserID: "u-1"}

	tests := []struct {
		name     string
		caller   model.User
		wantCode int
	}{
		{name: "owner", caller: model.User{ID: "u-1", Role: model.RoleUser}},
		{name: "admin", caller: model.User{ID: "u-9", Role: model.RoleAdmin}},
		{name: "stranger", caller: model.User{ID: "u-2", Role: model.RoleUser}, wantCode: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orders := mocks.NewOrderStore(t)
			orders.On("GetByID", mock.Anything, "o-1").Return(order, nil)

			got, err := NewOrders(orders, mocks.NewProductStore(t), testutil.MakeNoopLogger()).Get(context.Background(), tt.caller, "o-1")
			if tt.wantCode != 0 {
				requireAPICode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order, got)
		})
	}
}

func TestOrders_MarkPaid(t *testing.T) {
	orders := mocks.NewOrderStore(t)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	orders.On("GetByID", mock.Anything, "o-1").Return(model.Order{ID: "o-1", UserID: "u-1", Status: model.OrderStatusPending}, nil)
	orders.On("MarkPaid", mock.Anything, "o-1", now).Return(model.Order{ID: "o-1", UserID: "u-1", IsPaid: true, PaidAt: &now}, nil)

	s := NewOrders(orders, mocks.NewProductStore(t), testutil.MakeNoopLogger())
	s.now = func() time.Time { return now }

	got, err := s.MarkPaid(context.Background(), model.User{ID: "u-1"}, "o-1")
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
}

func TestOrders_MarkPaid_AlreadyPaid(t *testing.T) {
	orders := mocks.NewOrderStore(t)
	paid := model.Order{ID: "o-1", UserID: "u-1", IsPaid: true}
	orders.On("GetByID", mock.Anything, "o-1").Return(paid, nil)

	got, err := NewOrders(orders, mocks.NewProductStore(t), testutil.MakeNoopLogger()).
		MarkPaid(context.Background(), model.User{ID: "u-1"}, "o-1")
	require.NoError(t, err)
	assert.Equal(t, paid, got)
}

func TestOrders_UpdateStatus(t *testing.T) {
	orders := mocks.NewOrderStore(t)
	orders.On("UpdateStatus", mock.Anything, "o-1", model.OrderStatusShipped).
		Return(model.Order{ID: "o-1", Status: model.OrderStatusShipped}, nil)
	orders.On("UpdateStatus", mock.Anything, "o-2", model.OrderStatusShipped).
		Return(model.Order{}, model.ErrNotFound)

	s := NewOrders(orders, mocks.NewProductStore(t), testutil.MakeNoopLogger())

	got, err := s.UpdateStatus(context.Background(), "o-1", model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, got.Status)

	_, err = s.UpdateStatus(context.Background(), "o-2", model.OrderStatusShipped)
	requireAPICode(t, err, 404)

	_, err = s.UpdateStatus(context.Background(), "o-1", model.OrderStatus("lost"))
	requireAPICode(t, err, 400)
}
