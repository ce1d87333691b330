package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "api error passthrough",
			in:         apiErrors.NewErrValidation("bad"),
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.CodeValidation,
		},
		{
			name:       "wrapped api error",
			in:         fmt.Errorf("ctx: %w", apiErrors.NewErrOrderNotFound("o-1")),
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.CodeNotFound,
		},
		{
			name:       "model not found",
			in:         model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.CodeNotFound,
		},
		{
			name:       "upstream collapsed into invalid token",
			in:         fmt.Errorf("%w: timeout", model.ErrUpstreamVerifier),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.CodeInvalidToken,
		},
		{
			name:       "directory conflict",
			in:         model.ErrDirectoryConflict,
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.CodeInvalidToken,
		},
		{
			name:       "forbidden",
			in:         model.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.CodeForbidden,
		},
		{
			name:       "other",
			in:         errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.in)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotContains(t, body["message"], "boom")
		})
	}
}
