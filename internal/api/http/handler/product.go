package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// MaxImageSize bounds uploaded product images.
const MaxImageSize = 5 << 20

// Product serves the catalog.
type Product struct {
	service CatalogService
	logger  *logger.Logger
}

func NewProduct(service CatalogService, logger *logger.Logger) *Product {
	return &Product{service: service, logger: logger}
}

// List handles GET /api/products?featured=true&category=premium.
func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	var filter model.ProductFilter
	filter.Category = r.URL.Query().Get("category")

	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, r, apiErrors.NewErrValidation("featured must be true or false"))
			return
		}
		filter.Featured = &featured
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	response.Data(w, r, http.StatusOK, products)
}

func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, product)
}

func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), req.toModel())
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusCreated, product)
}

func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, product)
}

func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}

	response.Message(w, r, http.StatusOK, "Product removed", nil)
}

// UploadImage handles PUT /api/products/{id}/image with the raw image as body.
func (h *Product) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength <= 0 {
		response.Error(w, r, apiErrors.NewErrValidation("Content-Length is required"))
		return
	}
	if r.ContentLength > MaxImageSize {
		response.Error(w, r, apiErrors.NewErrValidation("image is too large"))
		return
	}

	body := http.MaxBytesReader(w, r.Body, MaxImageSize)
	defer body.Close()

	product, err := h.service.UploadImage(r.Context(), chi.URLParam(r, "id"), body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Data(w, r, http.StatusOK, product)
}

// Image handles GET /api/products/{id}/image.
func (h *Product) Image(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reader, info, err := h.service.OpenImage(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("Product handler: failed to stream image",
			"product_id", id,
			"error", err.Error())
	}
}
