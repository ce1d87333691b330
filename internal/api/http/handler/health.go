package handler

import (
	"context"
	"net/http"
	"time"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/logger"
)

const pingTimeout = 2 * time.Second

// Health serves the service banners and the readiness probe.
type Health struct {
	pinger  Pinger
	version string
	logger  *logger.Logger
}

func NewHealth(pinger Pinger, version string, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, version: version, logger: logger}
}

// Root handles GET /.
func (h *Health) Root(w http.ResponseWriter, r *http.Request) {
	response.Message(w, r, http.StatusOK, "Welcome to Axion Helmets API", map[string]string{
		"version": h.version,
	})
}

// API handles GET /api.
func (h *Health) API(w http.ResponseWriter, r *http.Request) {
	response.Message(w, r, http.StatusOK, "Axion Helmets API is running correctly", nil)
}

// Healthz handles GET /healthz.
func (h *Health) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Error("Health handler: store ping failed",
			"error", err.Error())
		response.Error(w, r, &apiErrors.APIError{
			HTTPCode: http.StatusServiceUnavailable,
			Code:     "unavailable",
			Message:  "store unavailable",
		})
		return
	}

	response.Message(w, r, http.StatusOK, "ok", nil)
}
