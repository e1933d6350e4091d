// Package serve previews a built site over HTTP.
package serve

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"braces.dev/errtrace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthPath reports whether the preview server is up.
const HealthPath = "/_/healthz"

// DefaultShutdownTimeout is how long the server waits
// for in-flight requests when it's asked to stop.
const DefaultShutdownTimeout = 5 * time.Second

// Server serves the files of a directory,
// with index.html standing in for directories.
type Server struct {
	// Dir is the directory to serve.
	Dir string // required

	// Addr is the address to listen on for Run.
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	// Defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Log receives a line for every request. Discarded if unset.
	Log *log.Logger
}

// Handler builds the HTTP handler for the site.
func (s *Server) Handler() http.Handler {
	logger := s.logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger,
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	// Pages change underneath the server while watching.
	r.Use(middleware.NoCache)

	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle("/*", http.FileServer(http.Dir(s.Dir)))
	return r
}

// Run listens on Addr and serves the site until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(s.Serve(ctx, ln))
}

// Serve serves the site on the given listener until ctx ends,
// and then shuts down gracefully.
// The listener is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.logger()
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger,
	}

	logger.Printf("Serving %v at http://%v", s.Dir, ln.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errtrace.Wrap(err)
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errtrace.Wrap(err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return errtrace.Wrap(err)
	}
	return nil
}

func (s *Server) logger() *log.Logger {
	if s.Log != nil {
		return s.Log
	}
	return log.New(io.Discard, "", 0)
}
