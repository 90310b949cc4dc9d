// Package chi implements the HTTP API on top of the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/truestate/salesdex/internal/domain"
	"github.com/truestate/salesdex/internal/domain/query/request"
	logpkg "github.com/truestate/salesdex/internal/logger"
	healthuc "github.com/truestate/salesdex/internal/usecase/health"
	metadatauc "github.com/truestate/salesdex/internal/usecase/metadata"
	queryuc "github.com/truestate/salesdex/internal/usecase/query"
)

// ErrorCode identifies the failure class in error responses.
type ErrorCode string

// Error response codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotReady         ErrorCode = "not_ready"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the sales query API.
type Server struct {
	query         *queryuc.Service
	metadata      *metadatauc.Service
	health        *healthuc.Service
	pagination    Pagination
	errorHandlers []errorHandler
}

// Pagination holds the transport-level page size policy.
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	metadata *metadatauc.Service,
	health *healthuc.Service,
) *Server {
	s := &Server{
		query:    query,
		metadata: metadata,
		health:   health,
		pagination: Pagination{
			DefaultPageSize: request.DefaultPageSize,
			MaxPageSize:     request.MaxPageSize,
		},
	}
	s.errorHandlers = []errorHandler{
		notReadyHandler,
		invalidRequestHandler,
	}
	return s
}

// WithPagination overrides the default page size policy.
func (s *Server) WithPagination(p Pagination) *Server {
	if p.DefaultPageSize > 0 {
		s.pagination.DefaultPageSize = p.DefaultPageSize
	}
	if p.MaxPageSize > 0 {
		s.pagination.MaxPageSize = p.MaxPageSize
	}
	return s
}

// GetSales handles GET /api/v1/sales.
func (s *Server) GetSales(w http.ResponseWriter, r *http.Request) {
	req, err := s.requestFromQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.query.Query(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// GetSalesMetadata handles GET /api/v1/sales/metadata.
func (s *Server) GetSalesMetadata(w http.ResponseWriter, r *http.Request) {
	snap, err := s.metadata.Extract()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// notReadyHandler maps ErrNotReady to 503 with a retry hint.
func notReadyHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrNotReady) {
		return false
	}
	w.Header().Set("Retry-After", "5")
	writeError(w, http.StatusServiceUnavailable, CodeNotReady,
		"dataset is still loading, retry shortly")
	return true
}

// invalidRequestHandler maps ErrInvalidRequest to 400 carrying the
// validation reason. Reasons are built from request input only, so they are
// safe to return verbatim.
func invalidRequestHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	msg := domain.ErrInvalidRequest.Error()
	var ire *domain.InvalidRequestError
	if errors.As(err, &ire) {
		msg = ire.Reason
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, msg)
	return true
}

// handleDomainError walks the handler chain, falling back to a 500. The
// request-scoped logger carries the request id set by the logging middleware.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	logpkg.FromContext(r.Context()).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
