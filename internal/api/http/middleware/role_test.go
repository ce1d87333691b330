package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/mocks"
	"github.com/axionhelmets/storefront-server/internal/model"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       model.User
		hasUser    bool
		wantStatus int
		wantCode   string
	}{
		{
			name:       "admin admitted",
			user:       model.User{ID: "u-1", Role: model.RoleAdmin},
			hasUser:    true,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "regular user forbidden",
			user:       model.User{ID: "u-2", Role: model.RoleUser},
			hasUser:    true,
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.CodeForbidden,
		},
		{
			name:       "no user attached",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.CodeInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := mocks.NewContextManager(t)
			cm.On("GetUserFromContext", mock.Anything).Return(tt.user, tt.hasUser)

			rec := httptest.NewRecorder()
			var called bool
			RequireRole(model.RoleAdmin, cm)(okHandler(&called)).
				ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusNoContent, called)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeEnvelope(t, rec)["code"])
			}
		})
	}
}

func TestRequireRole_AdminMessage(t *testing.T) {
	cm := mocks.NewContextManager(t)
	cm.On("GetUserFromContext", mock.Anything).Return(model.User{ID: "u-2", Role: model.RoleUser}, true)

	rec := httptest.NewRecorder()
	var called bool
	RequireRole(model.RoleAdmin, cm)(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, "Access denied. Admin only.", decodeEnvelope(t, rec)["message"])
}
