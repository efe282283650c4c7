package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"mywallet/internal/auth"
	"mywallet/internal/config"
	"mywallet/internal/events"
	"mywallet/internal/handlers"
	"mywallet/internal/ledger"
	"mywallet/internal/log"
	"mywallet/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logConfig := log.DefaultConfig()
	logConfig.Level = log.ParseLevel(cfg.LogLevel)
	logger := log.New(logConfig)
	log.SetDefault(logger)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.EventsEnabled() {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	sessions := auth.NewSessions(db, cfg.SessionTTL, logger)
	h := handlers.NewHandlers(
		auth.NewCredentials(db, logger),
		sessions,
		ledger.NewService(db, publisher, logger),
		db,
		logger,
	)

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        setupRouter(h, cfg.AllowedOrigin),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", log.FieldOperation, log.OpStartup, "addr", srv.Addr, "events", cfg.EventsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.SessionTTL > 0 {
		g.Go(func() error {
			purgeSessions(ctx, sessions, cfg.SessionTTL, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// setupRouter builds the HTTP handler chain around the API routes.
func setupRouter(h *handlers.Handlers, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)

	var handler http.Handler = mux
	handler = h.Logging(handler)
	handler = handlers.CORS(allowedOrigin)(handler)
	handler = handlers.SecurityHeaders(handler)
	return handler
}

// purgeSessions removes expired sessions every ttl until ctx is done.
func purgeSessions(ctx context.Context, sessions *auth.Sessions, ttl time.Duration, logger *log.Logger) {
	logger = logger.WithComponent(log.ComponentJanitor)
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.Purge(ctx); err != nil && ctx.Err() == nil {
				logger.LogError(ctx, "Session purge failed", err, log.OpPurge, nil)
			}
		}
	}
}
