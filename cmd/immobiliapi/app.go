package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/immobiligb/immobili-api/internal/db"
	"github.com/immobiligb/immobili-api/internal/handlers"
	"github.com/immobiligb/immobili-api/internal/logger"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/ratelimit"
	"github.com/immobiligb/immobili-api/internal/repository/postgres"
	"github.com/immobiligb/immobili-api/internal/service/auth"
	"github.com/immobiligb/immobili-api/internal/service/auth/tokenmanager"
	"github.com/immobiligb/immobili-api/internal/service/listing"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	limiter *ratelimit.Limiter
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database
	// The listings dataset is owned elsewhere: connect only, no migrations
	pool, err := db.Connect(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repository
	listings := postgres.NewListings(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey: c.SecretKey,
		TTL:       time.Duration(c.TokenTTLHours) * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	credentials, err := auth.NewCredentialStore(models.Credential{
		Username: c.APIUsername,
		Password: c.APIPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating credential store. Err: %w", err)
	}

	authService, err := auth.NewService(credentials, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	listingService := listing.NewService(listings)

	limiter := ratelimit.New(ratelimit.Config{
		Limit:  c.RateLimitRPM,
		Window: time.Minute,
	})

	mux := handlers.NewRouter(
		authService,
		listingService,
		limiter,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		limiter:    limiter,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Sweep stale rate-limit windows while the server runs
	go s.limiter.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
