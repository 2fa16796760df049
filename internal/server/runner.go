package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burrowdns/burrow/internal/config"
)

// AdminServer is the part of the admin HTTP server the runner manages.
// It is satisfied by *admin.Server; the indirection keeps this package from
// importing admin, which sits above it.
type AdminServer interface {
	Addr() string
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Runner orchestrates startup and shutdown: the UDP server, the optional
// admin endpoint, and signal handling.
type Runner struct {
	logger *slog.Logger
	admin  AdminServer
	stats  *Stats
}

// NewRunner creates a runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger, stats: NewStats()}
}

// Stats returns the counter set the UDP server will record into. It is
// available before Run so the admin endpoint can share it.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// SetAdmin attaches an admin HTTP server to start alongside the UDP server.
func (r *Runner) SetAdmin(a AdminServer) {
	r.admin = a
}

// Run starts the server with the given configuration and handler, blocking
// until SIGINT or SIGTERM.
func (r *Runner) Run(cfg *config.Config, h Handler) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg, h)
}

// RunWithContext starts the server and blocks until ctx is cancelled or a
// server fails. On cancellation the UDP socket closes, the workers drain,
// and the admin server gets a bounded graceful shutdown.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config, h Handler) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	srv, err := Bind(cfg.Server.Addr())
	if err != nil {
		return err
	}
	srv.Logger = r.logger
	srv.Workers = cfg.Server.WorkerCount()
	srv.Stats = r.stats

	if r.admin != nil {
		go func() {
			if r.logger != nil {
				r.logger.Info("admin endpoint listening", slog.String("addr", r.admin.Addr()))
			}
			if err := r.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				if r.logger != nil {
					r.logger.Error("admin endpoint failed", slog.String("error", err.Error()))
				}
				cancelRun()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = r.admin.Shutdown(shutdownCtx)
		}()
	}

	return srv.Serve(ctx, h)
}
