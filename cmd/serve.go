package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	httpContext "github.com/axionhelmets/storefront-server/internal/api/http/context"
	"github.com/axionhelmets/storefront-server/internal/api/http/middleware"
	"github.com/axionhelmets/storefront-server/internal/api/http/router"
	httpServer "github.com/axionhelmets/storefront-server/internal/api/http/server"
	"github.com/axionhelmets/storefront-server/internal/model"
	"github.com/axionhelmets/storefront-server/internal/server"
	"github.com/axionhelmets/storefront-server/internal/service"
	storage "github.com/axionhelmets/storefront-server/internal/storage/minio"
	"github.com/axionhelmets/storefront-server/internal/token"
	"github.com/axionhelmets/storefront-server/internal/verifier"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, logger := a.cfg, a.logger

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	identityVerifier := verifier.NewClient(cfg.Verifier.Endpoint, cfg.Verifier.APIKey, cfg.Verifier.Timeout, logger)
	reconciler := service.NewReconciler(a.stores.Users, logger)

	authService := service.NewAuth(identityVerifier, reconciler, tokenManager, a.stores.Users, logger)
	catalogService := service.NewCatalog(a.stores.Products, images, logger)
	orderService := service.NewOrders(a.stores.Orders, a.stores.Products, logger)

	// Local session tokens are tried before the identity provider.
	authenticators := []middleware.Authenticator{
		service.NewSessionAuthenticator(tokenManager, a.stores.Users),
		service.NewProviderAuthenticator(identityVerifier, reconciler),
	}

	handler := router.New(
		authService,
		catalogService,
		orderService,
		a.stores,
		authenticators,
		httpContext.NewManager(),
		cfg.HTTP.AllowedOrigins,
		logger,
	).Register()

	srv := httpServer.NewHTTPServer(handler, fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")

	return nil
}
