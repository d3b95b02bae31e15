package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/immobiligb/immobili-api/internal/handlers/middleware"
	"github.com/immobiligb/immobili-api/internal/logger"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/repository"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires the public HTTP surface. Everything under /api/v1
// passes the rate limiter first; listing routes additionally require a
// valid bearer token. Root and health stay outside both.
func NewRouter(
	authService authService,
	listingService listingService,
	limiter limiter,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiv1 := http.NewServeMux()

	apiv1.Handle("POST /auth/login", handleLogin(authService, logger))

	apiv1.Handle("GET /immobili", withAuth(handleListListings(listingService, logger)))
	apiv1.Handle("GET /immobili/stats", withAuth(handleStats(listingService, logger)))
	apiv1.Handle("GET /immobili/{id}", withAuth(handleGetListing(listingService, logger)))
	apiv1.Handle("GET /immobili/{id}/immagini", withAuth(handleListingImages(listingService, logger)))

	root := http.NewServeMux()
	root.Handle("GET /{$}", handleRoot())
	root.Handle("GET /health", handleHealth())
	root.Handle("/api/v1/", http.StripPrefix("/api/v1",
		chain(apiv1, middleware.RateLimitMiddleware(limiter)),
	))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Login with the service-account credentials
	// Has to return apperrors.ErrInvalidCredentials on mismatch
	Login(ctx context.Context, username string, password string) (models.IssuedToken, error)

	// Lifetime of issued tokens, reported as expires_in
	TokenTTL() time.Duration

	// Validate the request bearer token and return its subject
	Auth(ctx context.Context, r *http.Request) (string, error)
}

type listingService interface {
	List(ctx context.Context, filter repository.ListFilter, page int, pageSize int) (models.Page, error)
	Get(ctx context.Context, id int64) (models.Listing, error)
	Images(ctx context.Context, id int64) ([]models.Image, error)
	Stats(ctx context.Context) (models.Stats, error)
}

type limiter interface {
	Admit(key string) (admitted bool, retryAfter time.Duration)
}
