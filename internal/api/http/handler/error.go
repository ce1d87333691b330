package handler

import (
	"errors"
	"net/http"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/model"
)

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiErrors.APIError
	if errors.As(err, &apiErr) {
		response.Error(w, r, apiErr)
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		response.Error(w, r, &apiErrors.APIError{
			HTTPCode: http.StatusNotFound,
			Code:     apiErrors.CodeNotFound,
			Message:  "resource not found",
		})
	case errors.Is(err, model.ErrMissingToken):
		response.Error(w, r, apiErrors.NewErrMissingAuthorizationToken())
	case errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrUpstreamVerifier),
		errors.Is(err, model.ErrDirectoryConflict):
		response.Error(w, r, apiErrors.NewErrInvalidAuthorizationToken())
	case errors.Is(err, model.ErrForbidden):
		response.Error(w, r, apiErrors.NewErrForbidden())
	default:
		response.Error(w, r, apiErrors.NewErrInternal())
	}
}
