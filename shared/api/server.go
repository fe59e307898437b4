// shared/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/gorilla/mux"
)

// ServerOptions tweaks the http.Server timeouts. Zero values fall back to defaults.
type ServerOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type BaseServer struct {
	Router *mux.Router
	Server *http.Server
	Logger *logger.Logger
}

func NewBaseServer(addr string, log *logger.Logger, opts ServerOptions) *BaseServer {
	if log == nil {
		log = logger.Default()
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		// zip downloads and master reset can outlive the default
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 120 * time.Second
	}

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	return &BaseServer{
		Router: router,
		Server: server,
		Logger: log,
	}
}

func (bs *BaseServer) Start() error {
	bs.Logger.Info("Starting HTTP server on %s...", bs.Server.Addr)
	// ListenAndServe returns http.ErrServerClosed on graceful shutdown
	if err := bs.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

func (bs *BaseServer) Shutdown(ctx context.Context) error {
	bs.Logger.Info("Shutting down HTTP server...")
	return bs.Server.Shutdown(ctx)
}
