package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestData(t *testing.T) {
	rec := httptest.NewRecorder()
	Data(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]string{"id": "p-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": "p-1"}, body["data"])
	assert.NotContains(t, body, "message")
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "ok", nil)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
	assert.NotContains(t, body, "data")
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), apiErrors.NewErrAdminOnly())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Access denied. Admin only.", body["message"])
	assert.Equal(t, apiErrors.CodeForbidden, body["code"])
}
