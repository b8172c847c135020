package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/claimdesk/claimdesk/internal/assist"
	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/payment"
	"github.com/claimdesk/claimdesk/internal/render"
	"github.com/claimdesk/claimdesk/internal/server"
	"github.com/claimdesk/claimdesk/internal/store"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures the logger based on the serving mode
func setupLogging(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// In stdio mode all logging goes to stderr to avoid interfering with
	// the protocol stream.
	out := os.Stdout
	if cfg.IsStdioMode() {
		out = os.Stderr
		if !cfg.IsDebug() {
			level = zerolog.ErrorLevel
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newRepositories selects the backing stores: Postgres when a database URL is
// configured, in-memory otherwise.
func newRepositories(ctx context.Context, cfg *config.Config) (store.ClaimRepository, store.UserRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryRepo(), store.NewMemoryUserRepo(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, store.Schema); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return store.NewClaimRepoPG(pool), store.NewUserRepoPG(pool), pool.Close, nil
}

// runServerMode runs the HTTP claims API with graceful shutdown
func runServerMode(ctx context.Context, cancel context.CancelFunc, logger zerolog.Logger, srv *server.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Start(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	logger.Info().Msg("server stopped")
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		if err.Error() == "version requested" {
			fmt.Printf("claimdeskd %s (built %s, commit %s, %s)\n", version, buildTime, gitCommit, runtime.Version())
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.Version = version

	logger := setupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	claims, users, closeStore, err := newRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize stores")
	}
	defer closeStore()

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize document renderer")
	}

	if cfg.IsStdioMode() {
		assistServer, err := assist.NewServer(cfg, claims, renderer)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize assist server")
		}
		if err := assistServer.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("assist server error")
		}
		return
	}

	var checkout payment.CheckoutProvider
	if cfg.CheckoutURL != "" {
		checkout = payment.NewHTTPProvider(cfg.CheckoutURL, nil)
	}

	srv, err := server.NewServer(cfg, logger, claims, users, renderer, checkout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	runServerMode(ctx, cancel, logger, srv)
}
