package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Pricing rules, in minor currency units.
const (
	taxPercent            = 10
	freeShippingThreshold = 10000
	flatShippingPrice     = 1000

	// MaxLineQuantity bounds the quantity of a single order line.
	MaxLineQuantity = 1000
)

// maxItemsPrice keeps items price and tax arithmetic within int64.
const maxItemsPrice = (math.MaxInt64 - 50) / taxPercent

// ErrPriceOverflow is returned by PriceItems when an order is too large to price.
var ErrPriceOverflow = errors.New("order total is too large")

// Orders places orders and serves order history.
type Orders struct {
	orders   model.OrderStore
	products model.ProductStore
	logger   *logger.Logger
	now      func() time.Time
}

func NewOrders(orders model.OrderStore, products model.ProductStore, logger *logger.Logger) *Orders {
	return &Orders{orders: orders, products: products, logger: logger, now: time.Now}
}

// Place prices the requested lines from the current catalog and stores a
// pending order. Client-side prices are never trusted.
func (s *Orders) Place(ctx context.Context, params model.PlaceOrderParams) (model.Order, error) {
	if err := validatePlaceOrder(params); err != nil {
		return model.Order{}, err
	}

	items := make([]model.OrderItem, 0, len(params.Items))
	for _, line := range params.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if errors.Is(err, model.ErrNotFound) {
			return model.Order{}, apiErrors.NewErrValidation(fmt.Sprintf("product %s does not exist", line.ProductID))
		}
		if err != nil {
			return model.Order{}, fmt.Errorf("failed to get product: %w", err)
		}

		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
		})
	}

	itemsPrice, taxPrice, shippingPrice, err := PriceItems(items)
	if err != nil {
		return model.Order{}, apiErrors.NewErrValidation(err.Error())
	}

	order, err := s.orders.Create(ctx, model.Order{
		UserID:          params.UserID,
		Items:           items,
		ShippingAddress: params.ShippingAddress,
		PaymentMethod:   params.PaymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      itemsPrice + taxPrice + shippingPrice,
		Status:          model.OrderStatusPending,
	})
	if err != nil {
		s.logger.Error("Order service: failed to create order",
			"user_id", params.UserID,
			"error", err.Error())
		return model.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order service: order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total", order.TotalPrice)

	return order, nil
}

// Get returns the order if caller owns it or is an admin.
func (s *Orders) Get(ctx context.Context, caller model.User, id string) (model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Order{}, apiErrors.NewErrOrderNotFound(id)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != caller.ID && !caller.IsAdmin() {
		return model.Order{}, apiErrors.NewErrForbidden()
	}

	return order, nil
}

func (s *Orders) ListMine(ctx context.Context, caller model.User) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

func (s *Orders) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// MarkPaid records payment of the caller's order. Paying twice is a no-op.
func (s *Orders) MarkPaid(ctx context.Context, caller model.User, id string) (model.Order, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return model.Order{}, err
	}

	if order.IsPaid {
		return order, nil
	}
	if order.Status == model.OrderStatusCancelled {
		return model.Order{}, apiErrors.NewErrValidation("cancelled order cannot be paid")
	}

	paid, err := s.orders.MarkPaid(ctx, id, s.now().UTC())
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.logger.Info("Order service: order paid",
		"order_id", paid.ID,
		"user_id", caller.ID)

	return paid, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	if !status.Valid() {
		return model.Order{}, apiErrors.NewErrValidation(fmt.Sprintf("unknown order status %q", status))
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, model.ErrNotFound) {
		return model.Order{}, apiErrors.NewErrOrderNotFound(id)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("Order service: order status changed",
		"order_id", order.ID,
		"status", order.Status)

	return order, nil
}

// PriceItems returns items, tax and shipping prices for the given lines.
// Tax is rounded half up to the minor unit. Totals that would not fit in
// int64 yield ErrPriceOverflow.
func PriceItems(items []model.OrderItem) (itemsPrice, taxPrice, shippingPrice int64, err error) {
	for _, item := range items {
		if item.Price < 0 || item.Quantity < 0 {
			return 0, 0, 0, fmt.Errorf("negative price or quantity for product %s", item.ProductID)
		}
		if item.Quantity > 0 && item.Price > (maxItemsPrice-itemsPrice)/int64(item.Quantity) {
			return 0, 0, 0, ErrPriceOverflow
		}
		itemsPrice += item.Price * int64(item.Quantity)
	}

	taxPrice = (itemsPrice*taxPercent + 50) / 100

	if itemsPrice <= freeShippingThreshold {
		shippingPrice = flatShippingPrice
	}

	return itemsPrice, taxPrice, shippingPrice, nil
}

func validatePlaceOrder(params model.PlaceOrderParams) error {
	if len(params.Items) == 0 {
		return apiErrors.NewErrValidation("no order items")
	}
	for _, line := range params.Items {
		if line.ProductID == "" || line.Quantity < 1 {
			return apiErrors.NewErrValidation("each item needs a product and a positive quantity")
		}
		if line.Quantity > MaxLineQuantity {
			return apiErrors.NewErrValidation(fmt.Sprintf("quantity must not exceed %d", MaxLineQuantity))
		}
	}

	switch params.PaymentMethod {
	case model.PaymentMethodUPI, model.PaymentMethodCard, model.PaymentMethodNetBanking, model.PaymentMethodCOD:
	default:
		return apiErrors.NewErrValidation(fmt.Sprintf("unsupported payment method %q", params.PaymentMethod))
	}

	a := params.ShippingAddress
	for _, v := range []string{a.FullName, a.Address, a.City, a.PostalCode, a.Country, a.Phone} {
		if strings.TrimSpace(v) == "" {
			return apiErrors.NewErrValidation("shipping address is incomplete")
		}
	}

	return nil
}
