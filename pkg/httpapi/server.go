// Package httpapi exposes a govftp client over HTTP: one route per
// operation, plus a Prometheus /metrics endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/flightstack/govftp/pkg/ftp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// doneWriter wraps [http.ResponseWriter] and remembers whether a handler
// already wrote a response, so the dispatcher can fall back to a default
// reply when it didn't.
type doneWriter struct {
	http.ResponseWriter
	done bool
}

func (w *doneWriter) WriteHeader(status int) {
	w.done = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *doneWriter) Write(b []byte) (int, error) {
	w.done = true
	return w.ResponseWriter.Write(b)
}

// Server bridges HTTP requests onto a [ftp.Client]'s blocking API.
type Server struct {
	client     *ftp.Client
	logger     *logrus.Entry
	mux        *http.ServeMux
	opTimeout  time.Duration
}

// Option configures a Server constructed by NewServer.
type Option func(*Server)

// WithLogger overrides the default logrus logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Server) { s.logger = logger }
}

// WithOperationTimeout bounds how long a single HTTP request will wait for
// its underlying operation to reach a terminal result.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Server) { s.opTimeout = d }
}

// NewServer constructs a Server with one route per operation plus /metrics,
// which serves the default Prometheus registry via promhttp.Handler().
func NewServer(client *ftp.Client, opts ...Option) *Server {
	s := &Server{
		client:    client,
		logger:    logrus.NewEntry(logrus.StandardLogger()),
		opTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/download", s.handleDownload)
	s.mux.HandleFunc("/upload", s.handleUpload)
	s.mux.HandleFunc("/remove", s.handleRemove)
	s.mux.HandleFunc("/rename", s.handleRename)
	s.mux.HandleFunc("/mkdir", s.handleCreateDir)
	s.mux.HandleFunc("/rmdir", s.handleRemoveDir)
	s.mux.HandleFunc("/compare", s.handleCompare)
	s.mux.HandleFunc("/list", s.handleListDir)
	s.mux.Handle("/metrics", promhttp.Handler())
	return s
}

// ListenAndServe serves the API, blocking until it returns an error.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.WithField("addr", addr).Info("httpapi: listening")
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.opTimeout)
}

func writeJSON(dw *doneWriter, status int, v any) {
	dw.Header().Set("Content-Type", "application/json")
	dw.WriteHeader(status)
	json.NewEncoder(dw).Encode(v)
}

func writeError(dw *doneWriter, err error) {
	writeJSON(dw, http.StatusBadGateway, map[string]string{"error": err.Error()})
}

func (s *Server) wrap(w http.ResponseWriter, fn func(dw *doneWriter)) {
	dw := &doneWriter{ResponseWriter: w}
	fn(dw)
	if !dw.done {
		writeJSON(dw, http.StatusOK, map[string]string{"result": "success"})
	}
}
