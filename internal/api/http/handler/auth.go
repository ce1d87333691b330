package handler

import (
	"net/http"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Auth serves sign-in and the current user profile.
type Auth struct {
	service        AuthService
	contextManager model.ContextManager
}

func NewAuth(service AuthService, contextManager model.ContextManager) *Auth {
	return &Auth{service: service, contextManager: contextManager}
}

// VerifyToken handles POST /api/auth/verify-token.
func (h *Auth) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.Error(w, r, apiErrors.NewErrValidation("ID token is required"))
		return
	}

	result, err := h.service.SignIn(r.Context(), req.IDToken)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Message(w, r, http.StatusOK, "User verified and synced", result)
}

// Me handles GET /api/auth/me.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, r, apiErrors.NewErrInvalidAuthorizationToken())
		return
	}

	response.Data(w, r, http.StatusOK, user)
}
