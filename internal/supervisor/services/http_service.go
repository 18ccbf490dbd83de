// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultShutdownTimeout applies when HTTPServiceConfig.ShutdownTimeout is unset.
const DefaultShutdownTimeout = 10 * time.Second

// HTTPServer matches the *http.Server lifecycle methods so tests can
// substitute a fake.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServiceConfig configures HTTPServerService.
type HTTPServiceConfig struct {
	// ShutdownTimeout bounds the drain of in-flight requests.
	ShutdownTimeout time.Duration

	// OnDrain runs before Shutdown on every graceful stop. Optional.
	OnDrain func()
}

// HTTPServerService serves the recommendation API under supervision.
//
//	server := &http.Server{Addr: ":8080", Handler: router}
//	svc := services.NewHTTPServerService(server, services.HTTPServiceConfig{ShutdownTimeout: 10 * time.Second}, logger)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server HTTPServer
	config HTTPServiceConfig
	logger zerolog.Logger

	starts atomic.Int64
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, cfg HTTPServiceConfig, logger zerolog.Logger) *HTTPServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &HTTPServerService{
		server: server,
		config: cfg,
		logger: logger,
	}
}

// Serve implements suture.Service. A listen failure is returned wrapped so
// the supervisor restarts the server; cancellation drains and returns
// ctx.Err().
func (h *HTTPServerService) Serve(ctx context.Context) error {
	start := h.starts.Add(1)

	listenErr := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	event := h.logger.Info().Int64("start", start)
	if srv, ok := h.server.(*http.Server); ok {
		event = event.Str("addr", srv.Addr)
	}
	event.Msg("api listening")

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if h.config.OnDrain != nil {
		h.config.OnDrain()
	}

	// ctx is done; the drain needs its own deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
	defer cancel()

	h.logger.Info().Dur("timeout", h.config.ShutdownTimeout).Msg("api draining")
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	<-listenErr
	return ctx.Err()
}

// Starts counts calls to Serve, including supervisor restarts.
func (h *HTTPServerService) Starts() int64 {
	return h.starts.Load()
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
