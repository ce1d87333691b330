package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/axionhelmets/storefront-server/internal/api/http/handler"
	"github.com/axionhelmets/storefront-server/internal/api/http/middleware"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Version is reported by the root banner.
const Version = "1.0.0"

const requestTimeout = 30 * time.Second

// Router represents the HTTP router of the storefront API.
// It wires handlers behind the authorization and role gates.
type Router struct {
	authService    handler.AuthService
	catalogService handler.CatalogService
	orderService   handler.OrderService
	pinger         handler.Pinger
	authenticators []middleware.Authenticator
	contextManager model.ContextManager
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates new Router instance.
//
// Parameters:
//   - authenticators: The token authenticators, tried in the given order
//   - allowedOrigins: Origins allowed by CORS
//
// Returns a pointer to the newly created Router instance.
func New(
	authService handler.AuthService,
	catalogService handler.CatalogService,
	orderService handler.OrderService,
	pinger handler.Pinger,
	authenticators []middleware.Authenticator,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		catalogService: catalogService,
		orderService:   orderService,
		pinger:         pinger,
		authenticators: authenticators,
		contextManager: contextManager,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register builds the handler tree with request logging, metrics and CORS.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.contextManager, r.logger, r.authenticators...)
	adminOnly := middleware.RequireRole(model.RoleAdmin, r.contextManager)

	health := handler.NewHealth(r.pinger, Version, r.logger)
	auth := handler.NewAuth(r.authService, r.contextManager)
	products := handler.NewProduct(r.catalogService, r.logger)
	orders := handler.NewOrder(r.orderService, r.contextManager)

	mux := chi.NewRouter()
	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chiMiddleware.Recoverer)
	mux.Use(middleware.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/", health.Root)
	mux.Get("/healthz", health.Healthz)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Use(chiMiddleware.Timeout(requestTimeout))

		api.Get("/", health.API)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/verify-token", auth.VerifyToken)
			ar.With(authenticate.Handle).Get("/me", auth.Me)
		})

		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", products.List)
			pr.Get("/{id}", products.Get)
			pr.Get("/{id}/image", products.Image)

			pr.Group(func(admin chi.Router) {
				admin.Use(authenticate.Handle, adminOnly)
				admin.Post("/", products.Create)
				admin.Put("/{id}", products.Update)
				admin.Delete("/{id}", products.Delete)
				admin.Put("/{id}/image", products.UploadImage)
			})
		})

		api.Route("/orders", func(or chi.Router) {
			or.Use(authenticate.Handle)

			or.Post("/", orders.Place)
			or.Get("/myorders", orders.ListMine)
			or.Get("/{id}", orders.Get)
			or.Put("/{id}/pay", orders.MarkPaid)

			or.With(adminOnly).Get("/", orders.ListAll)
			or.With(adminOnly).Put("/{id}/status", orders.UpdateStatus)
		})
	})

	return mux
}
