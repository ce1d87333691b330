package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type verifyTokenRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Price       int64  `json:"price" validate:"gte=0"`
	Image       string `json:"image" validate:"required"`
	Description string `json:"description" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category" validate:"omitempty,max=50"`
	Featured    bool   `json:"featured"`
}

func (r createProductRequest) toModel() model.Product {
	return model.Product{
		Name:        strings.TrimSpace(r.Name),
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
		Stock:       r.Stock,
		Category:    r.Category,
		Featured:    r.Featured,
	}
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Image       *string `json:"image" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=50"`
	Featured    *bool   `json:"featured"`
}

func (r updateProductRequest) toModel() model.ProductUpdate {
	return model.ProductUpdate{
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
		Stock:       r.Stock,
		Category:    r.Category,
		Featured:    r.Featured,
	}
}

type orderLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=1000"`
}

type shippingAddressRequest struct {
	FullName   string `json:"fullName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

type placeOrderRequest struct {
	Items           []orderLineRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=upi card netbanking cod"`
}

func (r placeOrderRequest) toModel(userID string) model.PlaceOrderParams {
	lines := make([]model.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, model.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return model.PlaceOrderParams{
		UserID: userID,
		Items:  lines,
		ShippingAddress: model.ShippingAddress{
			FullName:   r.ShippingAddress.FullName,
			Address:    r.ShippingAddress.Address,
			City:       r.ShippingAddress.City,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
			Phone:      r.ShippingAddress.Phone,
		},
		PaymentMethod: model.PaymentMethod(r.PaymentMethod),
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// MaxJSONBodySize bounds JSON request bodies.
const MaxJSONBodySize = 1 << 20

// decodeAndValidate reads a JSON body of at most MaxJSONBodySize bytes into
// dst and validates it.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
	if err := render.DecodeJSON(body, dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apiErrors.NewErrValidation("request body too large")
		}
		return apiErrors.NewErrValidation("invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apiErrors.NewErrValidation(fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
		}
		return apiErrors.NewErrValidation("invalid request")
	}

	return nil
}
