package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/aria/core/config"
)

// Config holds HTTP listener settings.
type Config struct {
	Addr            string          `json:"addr,omitempty"`
	MaxSessions     int             `json:"max_sessions,omitempty"`
	ShutdownTimeout config.Duration `json:"shutdown_timeout,omitempty"`
}

const defaultMaxSessions = 1000

// DefaultConfig listens on :8080 and caps live sessions at 1000.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxSessions:     defaultMaxSessions,
		ShutdownTimeout: config.Duration(10 * time.Second),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.MaxSessions > 0 {
		c.MaxSessions = source.MaxSessions
	}
	if source.ShutdownTimeout > 0 {
		c.ShutdownTimeout = source.ShutdownTimeout
	}
}

// ListenAndServe serves handler until ctx ends, then shuts down gracefully.
func ListenAndServe(ctx context.Context, cfg Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
