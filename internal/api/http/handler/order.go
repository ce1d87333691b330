package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Order serves checkout and order history.
type Order struct {
	service        OrderService
	contextManager model.ContextManager
}

func NewOrder(service OrderService, contextManager model.ContextManager) *Order {
	return &Order{service: service, contextManager: contextManager}
}

func (h *Order) caller(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, r, apiErrors.NewErrInvalidAuthorizationToken())
	}
	return user, ok
}

func (h *Order) Place(w http.ResponseWriter, r *http.Request) {
	user, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.service.Place(r.Context(), req.toModel(user.ID))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusCreated, order)
}

func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.caller(w, r)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, order)
}

func (h *Order) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := h.caller(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListMine(r.Context(), user)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeOrders(w, r, orders)
}

func (h *Order) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeOrders(w, r, orders)
}

func (h *Order) MarkPaid(w http.ResponseWriter, r *http.Request) {
	user, ok := h.caller(w, r)
	if !ok {
		return
	}

	order, err := h.service.MarkPaid(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, order)
}

func (h *Order) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), model.OrderStatus(req.Status))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, order)
}

func writeOrders(w http.ResponseWriter, r *http.Request, orders []model.Order) {
	if orders == nil {
		orders = []model.Order{}
	}
	response.Data(w, r, http.StatusOK, orders)
}
