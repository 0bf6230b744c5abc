package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBytes = 1 << 20

// ReadinessFunc adapts a function to sharedobs.ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Computer runs one frost depth computation.
type Computer interface {
	Compute(ctx context.Context, req domain.Request) (domain.Result, error)
}

// Server exposes health, readiness, metrics, and computation endpoints.
type Server struct {
	httpServer *http.Server
	computer   Computer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// POST /v1/frost-depth, and GET /v1/models routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, computer Computer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		computer: computer,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/frost-depth", s.handleCompute)
	mux.HandleFunc("GET /v1/models", handleModels)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleCompute runs one computation. ?trace=true includes every
// intermediate quantity in the response.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	withTrace, _ := strconv.ParseBool(r.URL.Query().Get("trace"))

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	var req domain.Request
	if err := dec.Decode(&req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"kind":  string(domain.KindValidation),
			"error": "decode request: " + err.Error(),
		})
		return
	}

	if req.ID == "" {
		req.ID = requestID(r)
	}
	w.Header().Set("X-Request-ID", req.ID)

	res, err := s.computer.Compute(r.Context(), req)
	if err != nil {
		kind := domain.KindOf(err)
		sharedobs.WriteJSON(w, statusForKind(kind), map[string]string{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return
	}

	if !withTrace {
		res = res.WithoutTrace()
	}
	sharedobs.WriteJSON(w, http.StatusOK, res)
}

// requestID takes the caller's X-Request-ID or mints a new one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

type modelsResponse struct {
	TemperatureModels []string               `json:"temperature_models"`
	IndexModels       []string               `json:"index_models"`
	Scenarios         []string               `json:"scenarios"`
	LambdaVariants    []domain.LambdaVariant `json:"lambda_variants"`
	YearRange         [2]int                 `json:"year_range"`
}

func handleModels(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, modelsResponse{
		TemperatureModels: domain.TemperatureModels(),
		IndexModels:       domain.IndexModels(),
		Scenarios:         domain.Scenarios(),
		LambdaVariants:    domain.LambdaVariants(),
		YearRange:         [2]int{domain.MinProjectionYear, domain.MaxProjectionYear},
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDomain:
		return http.StatusUnprocessableEntity
	case domain.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
