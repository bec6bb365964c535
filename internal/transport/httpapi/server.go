package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/siftlab/assessrec/internal/domain"
	logpkg "github.com/siftlab/assessrec/internal/logger"
	healthuc "github.com/siftlab/assessrec/internal/usecase/health"
	recommenduc "github.com/siftlab/assessrec/internal/usecase/recommend"
	"github.com/siftlab/assessrec/internal/version"
)

// errorCode identifies an error class in API responses.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeEmptyQuery             errorCode = "empty_query"
	codeVectorDimMismatch      errorCode = "vector_dim_mismatch"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeInternalError          errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the recommendation pipeline over HTTP. Request-scoped
// logging comes from the context, placed there by the logging middleware.
type Server struct {
	recommend     *recommenduc.Service
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommend *recommenduc.Service, health *healthuc.Service) *Server {
	s := &Server{
		recommend: recommend,
		health:    health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Post("/recommend", s.Recommend)
	r.Get("/metrics", s.Metrics)
}

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Query string `json:"query"`
}

// RecommendedAssessment is a single item of the recommendation payload.
type RecommendedAssessment struct {
	URL             string   `json:"url"`
	Name            string   `json:"name"`
	AdaptiveSupport string   `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        int      `json:"duration"`
	RemoteSupport   string   `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

// RecommendResponse is the body of a successful POST /recommend.
type RecommendResponse struct {
	RecommendedAssessments []RecommendedAssessment `json:"recommended_assessments"`
}

// Recommend handles POST /recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	recs, err := s.recommend.Recommend(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]RecommendedAssessment, len(recs))
	for i := range recs {
		items[i] = recommendationToAPI(&recs[i])
	}

	writeJSON(w, http.StatusOK, RecommendResponse{RecommendedAssessments: items})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status             string            `json:"status"`
	Checks             map[string]string `json:"checks,omitempty"`
	AssessmentsLoaded  int               `json:"assessments_loaded"`
	Model              string            `json:"model"`
	EmbeddingDimension int               `json:"embedding_dimension"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:             string(report.Status),
		Checks:             checks,
		AssessmentsLoaded:  report.AssessmentsLoaded,
		Model:              report.Model,
		EmbeddingDimension: report.EmbeddingDim,
	})
}

// Root handles GET / with basic service identity.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "assessrec",
		"version": version.Version,
		"message": "Assessment Recommendation API. POST /recommend with a query.",
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func recommendationToAPI(rec *domain.Recommendation) RecommendedAssessment {
	a := rec.Assessment()
	return RecommendedAssessment{
		URL:             a.URL(),
		Name:            a.Name(),
		AdaptiveSupport: yesNo(a.AdaptiveSupport()),
		Description:     a.Description(),
		Duration:        a.DurationMins(),
		RemoteSupport:   yesNo(a.RemoteSupport()),
		TestType:        []string{a.TestType().Label()},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
