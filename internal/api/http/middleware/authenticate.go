package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Authenticator resolves a bearer token to a user. Implementations report
// rejection through the error; they never write to the response.
type Authenticator interface {
	Name() string
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Decision outcomes.
const (
	OutcomeAdmitted     = "admitted"
	OutcomeMissingToken = "missing_token"
	OutcomeInvalidToken = "invalid_token"
)

const (
	authenticatorNone     = "none"
	reasonInvalidToken    = "invalid_token"
	reasonUserNotFound    = "user_not_found"
	reasonUpstream        = "upstream_unavailable"
	reasonDirectoryClash  = "directory_conflict"
	reasonInternal        = "internal_error"
	reasonNoAuthenticator = "no_authenticator"
)

var authorizationDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "authorization_decisions_total",
		Help:      "Authorization gate decisions by outcome and admitting authenticator",
	},
	[]string{"outcome", "authenticator"},
)

// Authenticate is the authorization gate. It tries each authenticator in
// order and admits the request on the first success.
type Authenticate struct {
	authenticators []Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates the gate. Order of authenticators is significant.
func NewAuthenticate(contextManager model.ContextManager, logger *logger.Logger, authenticators ...Authenticator) *Authenticate {
	return &Authenticate{
		authenticators: authenticators,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle rejects requests without a valid bearer token and attaches the
// resolved user to the request context otherwise.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			m.record(r, OutcomeMissingToken, authenticatorNone, OutcomeMissingToken, nil)
			response.Error(w, r, apiErrors.NewErrMissingAuthorizationToken())
			return
		}

		attempts := make(map[string]string, len(m.authenticators))
		reason := reasonNoAuthenticator

		for _, a := range m.authenticators {
			user, err := a.Authenticate(r.Context(), token)
			if err == nil {
				m.record(r, OutcomeAdmitted, a.Name(), "", attempts)
				next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
				return
			}

			reason = reasonOf(err)
			attempts[a.Name()] = reason
		}

		m.record(r, OutcomeInvalidToken, authenticatorNone, reason, attempts)
		response.Error(w, r, apiErrors.NewErrInvalidAuthorizationToken())
	})
}

// record emits the single log line and metric sample for a decision.
func (m *Authenticate) record(r *http.Request, outcome, authenticator, reason string, attempts map[string]string) {
	authorizationDecisions.WithLabelValues(outcome, authenticator).Inc()

	args := []any{
		"outcome", outcome,
		"authenticator", authenticator,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if reason != "" {
		args = append(args, "reason", reason)
	}
	if len(attempts) > 0 {
		args = append(args, "attempts", attempts)
	}

	if outcome == OutcomeAdmitted {
		m.logger.Info("Authorization decision", args...)
		return
	}
	m.logger.Warn("Authorization decision", args...)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return reasonUserNotFound
	case errors.Is(err, model.ErrUpstreamVerifier):
		return reasonUpstream
	case errors.Is(err, model.ErrDirectoryConflict):
		return reasonDirectoryClash
	case errors.Is(err, model.ErrInvalidToken):
		return reasonInvalidToken
	default:
		return reasonInternal
	}
}
