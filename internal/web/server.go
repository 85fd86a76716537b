package web

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/hpungsan/jot/internal/ops"
)

// NewServer creates and configures the HTTP server for the Jot API.
func NewServer(service *ops.Service, log zerolog.Logger, bind string, port int) *http.Server {
	h := &Handlers{
		service: service,
		log:     log,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /notes", h.HandleNotes)
	mux.HandleFunc("GET /notes/tag/{label}", h.HandleTaggedNotes)
	mux.HandleFunc("GET /note/{id}", h.HandleGetNote)
	mux.HandleFunc("PUT /note/{id}", h.HandleEditNote)
	mux.HandleFunc("DELETE /note/{id}", h.HandleDeleteNote)
	mux.HandleFunc("POST /note", h.HandleAddNote)
	mux.HandleFunc("GET /note/{id}/html", h.HandleNoteHTML)
	mux.HandleFunc("GET /tags", h.HandleTags)

	handler := requestLogger(log, securityHeaders(mux))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs one line per request with a ULID request id.
func requestLogger(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := ulid.MustNew(ulid.Timestamp(start), rand.Reader).String()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log zerolog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", srv.Addr).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
