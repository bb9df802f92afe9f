package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	readyPingTimeout  = 2 * time.Second
	apiPathBase       = "/api/"

	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes liveness, readiness and metrics, and optionally the public API.
type Server struct {
	db         Pinger
	port       int
	logger     *zerolog.Logger
	apiHandler http.Handler
}

// NewServer creates a server without the public API, as used in worker mode.
func NewServer(db Pinger, port int, logger *zerolog.Logger) *Server {
	return NewServerWithAPI(db, port, nil, logger)
}

// NewServerWithAPI creates a server that also routes /api/ to apiHandler.
func NewServerWithAPI(db Pinger, port int, apiHandler http.Handler, logger *zerolog.Logger) *Server {
	return &Server{
		db:         db,
		port:       port,
		logger:     logger,
		apiHandler: apiHandler,
	}
}

type probeResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

func writeProbe(w http.ResponseWriter, status int, body probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeProbe(w, http.StatusServiceUnavailable, probeResponse{
			Status: statusUnavailable, Database: "not configured",
		})

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		writeProbe(w, http.StatusServiceUnavailable, probeResponse{
			Status: statusUnavailable, Database: statusUnavailable, Error: err.Error(),
		})

		return
	}

	writeProbe(w, http.StatusOK, probeResponse{Status: statusOK, Database: statusOK})
}

// Handler builds the mux served by Start.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeProbe(w, http.StatusOK, probeResponse{Status: statusOK})
	})
	mux.HandleFunc("GET /readyz", s.ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	if s.apiHandler != nil {
		mux.Handle(apiPathBase, s.apiHandler)
	}

	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		//nolint:contextcheck // the request context is already canceled here
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("http server shutdown")
		}
	}()

	s.logger.Info().Int("port", s.port).Bool("api", s.apiHandler != nil).Msg("HTTP server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}
