package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/mocks"
	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/testutil"
)

func TestProduct_List(t *testing.T) {
	t.Parallel()

	featured := true

	tests := []struct {
		name       string
		query      string
		wantFilter *model.ProductFilter
		wantStatus int
	}{
		{
			name:       "no filter",
			query:      "",
			wantFilter: &model.ProductFilter{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "featured premium",
			query:      "?featured=true&category=premium",
			wantFilter: &model.ProductFilter{Category: "premium", Featured: &featured},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad featured flag",
			query:      "?featured=maybe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewCatalogService(t)
			if tt.wantFilter != nil {
				svc.On("List", mock.Anything, *tt.wantFilter).Return(nil, nil)
			}

			rec := httptest.NewRecorder()
			NewProduct(svc, testutil.MakeNoopLogger()).List(rec, newRequest(http.MethodGet, "/api/products"+tt.query, "", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `[]`, string(readEnvelope(t, rec).Data))
			}
		})
	}
}

func TestProduct_Get_NotFound(t *testing.T) {
	svc := mocks.NewCatalogService(t)
	svc.On("Get", mock.Anything, "p-404").Return(model.Product{}, apiErrors.NewErrProductNotFound("p-404"))

	rec := httptest.NewRecorder()
	NewProduct(svc, testutil.MakeNoopLogger()).Get(rec, newRequest(http.MethodGet, "/api/products/p-404", "", map[string]string{"id": "p-404"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.CodeNotFound, readEnvelope(t, rec).Code)
}

func TestProduct_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		expectCall bool
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"name":"Axion Stealth","price":149900,"image":"https://img/s.png","description":"Matte","stock":25,"category":"standard"}`,
			expectCall: true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"price":100,"image":"x","description":"d"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative stock",
			body:       `{"name":"n","price":100,"image":"x","description":"d","stock":-1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewCatalogService(t)
			if tt.expectCall {
				svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
					return p.Name == "Axion Stealth" && p.Price == 149900 && p.Stock == 25
				})).Return(model.Product{ID: "p-1", Name: "Axion Stealth"}, nil)
			}

			rec := httptest.NewRecorder()
			NewProduct(svc, testutil.MakeNoopLogger()).Create(rec, newRequest(http.MethodPost, "/api/products", tt.body, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestProduct_Update_Partial(t *testing.T) {
	svc := mocks.NewCatalogService(t)
	svc.On("Update", mock.Anything, "p-1", mock.MatchedBy(func(u model.ProductUpdate) bool {
		return u.Stock != nil && *u.Stock == 0 && u.Name == nil && u.Price == nil
	})).Return(model.Product{ID: "p-1"}, nil)

	rec := httptest.NewRecorder()
	NewProduct(svc, testutil.MakeNoopLogger()).Update(rec, newRequest(http.MethodPut, "/api/products/p-1", `{"stock":0}`, map[string]string{"id": "p-1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProduct_Delete(t *testing.T) {
	svc := mocks.NewCatalogService(t)
	svc.On("Delete", mock.Anything, "p-1").Return(nil)

	rec := httptest.NewRecorder()
	NewProduct(svc, testutil.MakeNoopLogger()).Delete(rec, newRequest(http.MethodDelete, "/api/products/p-1", "", map[string]string{"id": "p-1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product removed", readEnvelope(t, rec).Message)
}

func TestProduct_UploadImage(t *testing.T) {
	svc := mocks.NewCatalogService(t)
	svc.On("UploadImage", mock.Anything, "p-1", mock.Anything, int64(3), "image/png").
		Return(model.Product{ID: "p-1", Image: "/api/products/p-1/image"}, nil)

	req := newRequest(http.MethodPut, "/api/products/p-1/image", "", map[string]string{"id": "p-1"})
	req.Body = io.NopCloser(strings.NewReader("png"))
	req.ContentLength = 3
	req.Header.Set("Content-Type", "image/png")

	rec := httptest.NewRecorder()
	NewProduct(svc, testutil.MakeNoopLogger()).UploadImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Product
	require.NoError(t, json.Unmarshal(readEnvelope(t, rec).Data, &got))
	assert.Equal(t, "/api/products/p-1/image", got.Image)
}

func TestProduct_UploadImage_TooLarge(t *testing.T) {
	req := newRequest(http.MethodPut, "/api/products/p-1/image", "", map[string]string{"id": "p-1"})
	req.ContentLength = MaxImageSize + 1

	rec := httptest.NewRecorder()
	NewProduct(mocks.NewCatalogService(t), testutil.MakeNoopLogger()).UploadImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProduct_Image(t *testing.T) {
	svc := mocks.NewCatalogService(t)
	svc.On("OpenImage", mock.Anything, "p-1").
		Return(io.NopCloser(strings.NewReader("png")), model.ObjectInfo{Size: 3, ContentType: "image/png"}, nil)

	rec := httptest.NewRecorder()
	NewProduct(svc, testutil.MakeNoopLogger()).Image(rec, newRequest(http.MethodGet, "/api/products/p-1/image", "", map[string]string{"id": "p-1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; sandbox", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "png", rec.Body.String())
}
