package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avdeyev/flightbook/api"
	"github.com/avdeyev/flightbook/config"
	"github.com/avdeyev/flightbook/internal/session"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers are the route groups the application mounts.
type Handlers struct {
	Flights  *api.FlightHandler
	Bookings *api.BookingHandler
	Auth     *api.AuthHandler
	Admin    *api.AdminHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, sessions *session.Manager, h Handlers) error {
	router := NewRouter(cfg, sessions, h)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine with all route groups and the swagger UI.
func NewRouter(cfg *config.Config, sessions *session.Manager, h Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(api.SessionMiddleware(sessions))

	h.Flights.Register(router)
	h.Bookings.Register(router)
	h.Auth.Register(router)
	h.Admin.Register(router)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/flightbook.swagger.json"),
		)))
	}

	return router
}
