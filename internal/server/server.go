// Package server exposes the claims and users REST API consumed by the
// intake wizard and the admin dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/identity"
	"github.com/claimdesk/claimdesk/internal/payment"
	"github.com/claimdesk/claimdesk/internal/render"
	"github.com/claimdesk/claimdesk/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	claims   store.ClaimRepository
	users    store.UserRepository
	renderer *render.Renderer
	checkout payment.CheckoutProvider
	echo     *echo.Echo
}

// NewServer wires the API over the given collaborators.
func NewServer(
	cfg *config.Config,
	logger zerolog.Logger,
	claims store.ClaimRepository,
	users store.UserRepository,
	renderer *render.Renderer,
	checkout payment.CheckoutProvider,
) (*Server, error) {
	if claims == nil {
		return nil, fmt.Errorf("claims repository cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository cannot be nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		claims:   claims,
		users:    users,
		renderer: renderer,
		checkout: checkout,
		echo:     echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = errorHandler
	s.echo.Use(echomw.Recover())
	s.echo.Use(RequestLogger(logger))
	s.echo.Use(identity.Middleware([]byte(cfg.AuthSecret)))
	s.echo.Use(s.recordAccount)

	s.registerRoutes()
	return s, nil
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.POST("/claims", s.CreateClaim)
	api.GET("/claims", s.ListClaims, identity.RequireAuth)
	api.GET("/claims/:id", s.GetClaim, identity.RequireAuth)
	api.GET("/claims/:id/document", s.GetClaimDocument, identity.RequireAuth)
	api.PUT("/claims/:id", s.UpdateClaim, identity.RequireRole("admin"))
	api.POST("/claims/:id/notes", s.AppendNote, identity.RequireRole("admin"))
	api.DELETE("/claims/:id", s.DeleteClaim, identity.RequireRole("admin"))

	api.GET("/users", s.ListUsers, identity.RequireRole("admin"))
	api.PATCH("/users/:id/role", s.UpdateUserRole, identity.RequireRole("admin"))

	if s.checkout != nil {
		api.POST("/payments/checkout", s.CreateCheckout, identity.RequireAuth)
	}
}

// recordAccount folds every authenticated request into the user directory.
// Directory writes never fail the request; the directory trails the identity
// provider, it does not gate it.
func (s *Server) recordAccount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := identity.FromContext(c)
		if user.IsAuthenticated {
			role := user.Role
			if !identity.ValidRole(role) {
				role = identity.RoleClaimant
			}
			if _, err := s.users.Upsert(c.Request().Context(), user.Email, user.FullName, role); err != nil {
				s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to record account")
			}
		}
		return next(c)
	}
}

// errorHandler renders every error as the { "error": string } body the
// wizard's submission adapter consumes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	_ = c.JSON(status, map[string]string{"error": message})
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Address()

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("claims API listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	}
}
