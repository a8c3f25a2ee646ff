package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/logger"
	authuc "github.com/kailas-cloud/caskbook/internal/usecase/auth"
	bottleuc "github.com/kailas-cloud/caskbook/internal/usecase/bottle"
	cataloguc "github.com/kailas-cloud/caskbook/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/caskbook/internal/usecase/health"
	profileuc "github.com/kailas-cloud/caskbook/internal/usecase/profile"
	suggestuc "github.com/kailas-cloud/caskbook/internal/usecase/suggest"
	wishlistuc "github.com/kailas-cloud/caskbook/internal/usecase/wishlist"
	"github.com/kailas-cloud/caskbook/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services groups the use cases served over HTTP.
type Services struct {
	Auth     *authuc.Service
	Bottles  *bottleuc.Service
	Catalog  *cataloguc.Service
	Wishlist *wishlistuc.Service
	Profile  *profileuc.Service
	Suggest  *suggestuc.Service
	Health   *healthuc.Service
}

// Server holds the HTTP handlers of the API.
type Server struct {
	auth          *authuc.Service
	bottles       *bottleuc.Service
	catalog       *cataloguc.Service
	wishlist      *wishlistuc.Service
	profile       *profileuc.Service
	suggest       *suggestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	s := &Server{
		auth:     svc.Auth,
		bottles:  svc.Bottles,
		catalog:  svc.Catalog,
		wishlist: svc.Wishlist,
		profile:  svc.Profile,
		suggest:  svc.Suggest,
		health:   svc.Health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		fieldErrorHandler,
		validationHandler,
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrorResponseCodeInvalidCredentials),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorResponseCodeUnauthorized),
		sentinelHandler(domain.ErrBottleNotFound, http.StatusNotFound, ErrorResponseCodeBottleNotFound),
		sentinelHandler(domain.ErrWhiskyNotFound, http.StatusNotFound, ErrorResponseCodeWhiskyNotFound),
		sentinelHandler(domain.ErrDistilleryNotFound, http.StatusNotFound, ErrorResponseCodeDistilleryNotFound),
		sentinelHandler(domain.ErrWishlistItemNotFound, http.StatusNotFound, ErrorResponseCodeWishlistItemNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrEmailTaken, http.StatusConflict, ErrorResponseCodeEmailTaken),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorResponseCodeAlreadyExists),
		sentinelHandler(domain.ErrNoFlavorProfile, http.StatusBadRequest, ErrorResponseCodeNoFlavorProfile),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrSuggestQuotaExceeded,
			http.StatusPaymentRequired, ErrorResponseCodeSuggestQuotaExceeded),
		sentinelHandler(domain.ErrSuggestProviderError,
			http.StatusBadGateway, ErrorResponseCodeSuggestProviderError),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, ErrorResponseCodeNotImplemented),
	}
	return s
}

// Liveness handles GET /health.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: string(healthuc.Healthy)})
}

// Readiness handles GET /ready.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
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
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validation.Struct(dst); err != nil {
		s.handleDomainError(w, r, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCredentials,
		domain.ErrUnauthorized,
		domain.ErrBottleNotFound,
		domain.ErrWhiskyNotFound,
		domain.ErrDistilleryNotFound,
		domain.ErrWishlistItemNotFound,
		domain.ErrUserNotFound,
		domain.ErrNotFound,
		domain.ErrEmailTaken,
		domain.ErrAlreadyExists,
		domain.ErrNoFlavorProfile,
		domain.ErrRateLimited,
		domain.ErrSuggestQuotaExceeded,
		domain.ErrSuggestProviderError,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// fieldErrorHandler reports the offending field alongside the reason.
func fieldErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    ErrorResponseCodeValidationFailed,
		Message: fmt.Sprintf("%s %s", fe.Field, fe.Reason),
		Field:   &fe.Field,
	})
	return true
}

// validationHandler keeps the user facing tail of a wrapped validation error
// and drops the operation prefixes added on the way up.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()); i >= 0 {
		msg = msg[i:]
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
