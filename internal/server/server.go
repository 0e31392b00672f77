// SPDX-License-Identifier: MPL-2.0

// Package server exposes a loaded book over HTTP: the tool-calling
// manifest, a batch execution endpoint, health, and metrics. It serves
// the book loading core's output and never reaches into its internals.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/charmbracelet/log"
)

// Loader loads (or reloads) the served book. The server calls it once
// at startup and again on watch events.
type Loader func() (*book.Book, error)

// Config holds the server settings.
type Config struct {
	// Address is the listen address, host:port.
	Address string
	// Workers bounds concurrent tool-call execution; 0 means NumCPU.
	Workers int
	// BookPath is the watched book location; empty disables watching.
	BookPath string
	// Watch reloads the book on filesystem changes under BookPath.
	Watch bool
}

// Server is the robopages HTTP server.
type Server struct {
	cfg      Config
	loader   Loader
	executor Executor
	metrics  *metrics

	mu    sync.RWMutex
	book  *book.Book
	tools *book.ToolSet

	listener net.Listener
	httpSrv  *http.Server
}

// New creates a Server. The book is not loaded until Start.
func New(cfg Config, loader Loader, executor Executor) *Server {
	return &Server{
		cfg:      cfg,
		loader:   loader,
		executor: executor,
		metrics:  newMetrics(),
	}
}

// Start loads the book, binds the listener, and serves until ctx is
// cancelled. Binding happens before serving so tests can read Addr
// as soon as Start has begun accepting.
func (s *Server) Start(ctx context.Context) error {
	if err := s.reload(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Address, err)
	}
	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.BookPath != "" {
		go s.watch(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(listener)
	}()
	log.Info("serving book", "address", listener.Addr().String(), "workers", s.workers())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the server's full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleToolSet)
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	return chain(s.metrics, mux)
}

// reload loads the book through the Loader and swaps it in atomically.
// A load failure leaves the previous book serving.
func (s *Server) reload() error {
	b, err := s.loader()
	if err != nil {
		return err
	}
	tools, err := b.ToolSet()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.book = b
	s.tools = tools
	s.mu.Unlock()
	log.Debug("book loaded", "pages", len(b.Pages), "functions", b.FunctionCount())
	return nil
}

// current returns the served book and its tool set.
func (s *Server) current() (*book.Book, *book.ToolSet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book, s.tools
}

func (s *Server) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.NumCPU()
}
