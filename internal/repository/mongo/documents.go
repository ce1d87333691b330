package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/axionhelmets/storefront-server/internal/model"
)

type userDocument struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	ExternalSubjectID string        `bson:"external_subject_id"`
	DisplayName       string        `bson:"display_name"`
	Email             string        `bson:"email"`
	AvatarURL         *string       `bson:"avatar_url,omitempty"`
	SignInMethod      string        `bson:"sign_in_method"`
	Role              string        `bson:"role"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

func newUserDocument(u model.User) userDocument {
	return userDocument{
		ExternalSubjectID: u.ExternalSubjectID,
		DisplayName:       u.DisplayName,
		Email:             u.Email,
		AvatarURL:         u.AvatarURL,
		SignInMethod:      string(u.SignInMethod),
		Role:              string(u.Role),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:                d.ID.Hex(),
		ExternalSubjectID: d.ExternalSubjectID,
		DisplayName:       d.DisplayName,
		Email:             d.Email,
		AvatarURL:         d.AvatarURL,
		SignInMethod:      model.SignInMethod(d.SignInMethod),
		Role:              model.Role(d.Role),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type productDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Price       int64         `bson:"price"`
	Image       string        `bson:"image"`
	Description string        `bson:"description"`
	Stock       int           `bson:"stock"`
	Category    string        `bson:"category"`
	Featured    bool          `bson:"featured"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func newProductDocument(p model.Product, now time.Time) productDocument {
	return productDocument{
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Stock:       p.Stock,
		Category:    p.Category,
		Featured:    p.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d productDocument) toModel() model.Product {
	return model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Image:       d.Image,
		Description: d.Description,
		Stock:       d.Stock,
		Category:    d.Category,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type orderItemDocument struct {
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	Price     int64  `bson:"price"`
	Quantity  int    `bson:"quantity"`
	Image     string `bson:"image"`
}

type shippingAddressDocument struct {
	FullName   string `bson:"full_name"`
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
	Phone      string `bson:"phone"`
}

type orderDocument struct {
	ID              bson.ObjectID           `bson:"_id,omitempty"`
	UserID          string                  `bson:"user_id"`
	Items           []orderItemDocument     `bson:"items"`
	ShippingAddress shippingAddressDocument `bson:"shipping_address"`
	PaymentMethod   string                  `bson:"payment_method"`
	ItemsPrice      int64                   `bson:"items_price"`
	TaxPrice        int64                   `bson:"tax_price"`
	ShippingPrice   int64                   `bson:"shipping_price"`
	TotalPrice      int64                   `bson:"total_price"`
	Status          string                  `bson:"status"`
	IsPaid          bool                    `bson:"is_paid"`
	PaidAt          *time.Time              `bson:"paid_at,omitempty"`
	CreatedAt       time.Time               `bson:"created_at"`
	UpdatedAt       time.Time               `bson:"updated_at"`
}

func newOrderDocument(o model.Order, now time.Time) orderDocument {
	items := make([]orderItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDocument(it))
	}

	return orderDocument{
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: shippingAddressDocument(o.ShippingAddress),
		PaymentMethod:   string(o.PaymentMethod),
		ItemsPrice:      o.ItemsPrice,
		TaxPrice:        o.TaxPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (d orderDocument) toModel() model.Order {
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, model.OrderItem(it))
	}

	return model.Order{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		Items:           items,
		ShippingAddress: model.ShippingAddress(d.ShippingAddress),
		PaymentMethod:   model.PaymentMethod(d.PaymentMethod),
		ItemsPrice:      d.ItemsPrice,
		TaxPrice:        d.TaxPrice,
		ShippingPrice:   d.ShippingPrice,
		TotalPrice:      d.TotalPrice,
		Status:          model.OrderStatus(d.Status),
		IsPaid:          d.IsPaid,
		PaidAt:          d.PaidAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
