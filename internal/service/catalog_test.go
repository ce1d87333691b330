package service

import (
	"context"
	"errors"
	"io"
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

func validProduct() model.Product {
	return model.Product{
		Name:        "Axion Stealth",
		Price:       149900,
		Image:       "https://img/stealth.png",
		Description: "Matte black",
		Stock:       3,
	}
}

func TestCatalog_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(p *model.Product)
		wantCode int
	}{
		{name: "ok"},
		{name: "missing name", mutate: func(p *model.Product) { p.Name = " " }, wantCode: 400},
		{name: "negative price", mutate: func(p *model.Product) { p.Price = -1 }, wantCode: 400},
		{name: "negative stock", mutate: func(p *model.Product) { p.Stock = -1 }, wantCode: 400},
		{name: "missing image", mutate: func(p *model.Product) { p.Image = "" }, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			products := mocks.NewProductStore(t)
			storage := mocks.NewStorage(t)

			p := validProduct()
			if tt.mutate != nil {
				tt.mutate(&p)
			}

			if tt.wantCode == 0 {
				products.On("Create", mock.Anything, mock.MatchedBy(func(got model.Product) bool {
					return got.Category == model.DefaultCategory
				})).Return(model.Product{ID: "p-1"}, nil)
			}

			got, err := NewCatalog(products, storage, testutil.MakeNoopLogger()).Create(context.Background(), p)
			if tt.wantCode != 0 {
				var apiErr *apiErrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantCode, apiErr.HTTPCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p-1", got.ID)
		})
	}
}

func TestCatalog_Get_NotFound(t *testing.T) {
	products := mocks.NewProductStore(t)
	products.On("GetByID", mock.Anything, "nope").Return(model.Product{}, model.ErrNotFound)

	_, err := NewCatalog(products, mocks.NewStorage(t), testutil.MakeNoopLogger()).Get(context.Background(), "nope")

	var apiErr *apiErrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.HTTPCode)
}

func TestCatalog_Update_Validation(t *testing.T) {
	products := mocks.NewProductStore(t)
	neg := int64(-5)

	_, err := NewCatalog(products, mocks.NewStorage(t), testutil.MakeNoopLogger()).
		Update(context.Background(), "p-1", model.ProductUpdate{Price: &neg})

	var apiErr *apiErrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPCode)
}

func TestCatalog_Delete_RemovesImage(t *testing.T) {
	products := mocks.NewProductStore(t)
	storage := mocks.NewStorage(t)

	products.On("Delete", mock.Anything, "p-1").Return(nil)
	storage.On("Exists", mock.Anything, "products/p-1").Return(true, nil)
	storage.On("Delete", mock.Anything, "products/p-1").Return(nil)

	err := NewCatalog(products, storage, testutil.MakeNoopLogger()).Delete(context.Background(), "p-1")
	require.NoError(t, err)
}

func TestCatalog_Delete_StorageFailureIsNotFatal(t *testing.T) {
	products := mocks.NewProductStore(t)
	storage := mocks.NewStorage(t)

	products.On("Delete", mock.Anything, "p-1").Return(nil)
	storage.On("Exists", mock.Anything, "products/p-1").Return(false, errors.New("minio down"))

	err := NewCatalog(products, storage, testutil.MakeNoopLogger()).Delete(context.Background(), "p-1")
	require.NoError(t, err)
}

func TestCatalog_UploadImage(t *testing.T) {
	products := mocks.NewProductStore(t)
	storage := mocks.NewStorage(t)
	body := strings.NewReader("png-bytes")

	products.On("GetByID", mock.Anything, "p-1").Return(validProduct(), nil)
	storage.On("Upload", mock.Anything, "products/p-1", body, int64(9), "image/png").Return(nil)
	products.On("Update", mock.Anything, "p-1", mock.MatchedBy(func(u model.ProductUpdate) bool {
		return u.Image != nil && *u.Image == "/api/products/p-1/image"
	})).Return(model.Product{ID: "p-1", Image: "/api/products/p-1/image"}, nil)

	got, err := NewCatalog(products, storage, testutil.MakeNoopLogger()).
		UploadImage(context.Background(), "p-1", body, 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/api/products/p-1/image", got.Image)
}

func TestCatalog_UploadImage_RejectsContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
	}{
		{name: "text", contentType: "text/plain"},
		{name: "svg", contentType: "image/svg+xml"},
		{name: "svg with params", contentType: "image/svg+xml; charset=utf-8"},
		{name: "malformed", contentType: "image/"},
		{name: "empty", contentType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCatalog(mocks.NewProductStore(t), mocks.NewStorage(t), testutil.MakeNoopLogger())

			_, err := c.UploadImage(context.Background(), "p-1", strings.NewReader("x"), 1, tt.contentType)

			var apiErr *apiErrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.HTTPCode)
		})
	}
}

func TestCatalog_OpenImage(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("Download", mock.Anything, "products/p-1").
		Return(io.NopCloser(strings.NewReader("png")), model.ObjectInfo{Size: 3, ContentType: "image/png"}, nil)
	storage.On("Download", mock.Anything, "products/p-2").
		Return(nil, model.ObjectInfo{}, model.ErrNotFound)

	c := NewCatalog(mocks.NewProductStore(t), storage, testutil.MakeNoopLogger())

	rc, info, err := c.OpenImage(context.Background(), "p-1")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", info.ContentType)

	_, _, err = c.OpenImage(context.Background(), "p-2")
	var apiErr *apiErrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.HTTPCode)
}

func TestCatalog_Seed(t *testing.T) {
	products := mocks.NewProductStore(t)
	seed := SeedProducts()

	products.On("Replace", mock.Anything, mock.MatchedBy(func(ps []model.Product) bool {
		return len(ps) == 6
	})).Return(seed, nil)

	got, err := NewCatalog(products, mocks.NewStorage(t), testutil.MakeNoopLogger()).Seed(context.Background(), seed)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestSeedProducts(t *testing.T) {
	seed := SeedProducts()
	require.Len(t, seed, 6)

	featured := 0
	for _, p := range seed {
		require.NoError(t, validateProduct(p))
		if p.Featured {
			featured++
		}
	}
	assert.Equal(t, 2, featured)
}
