// internal/handlers/committee-match/handler.go
package committeematch

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "committee-matcher/internal/common/errors"
	"committee-matcher/internal/common/logger"
	"committee-matcher/internal/common/metrics"
	"committee-matcher/internal/common/observability"
)

const HandlerName = "committee-match"

// Preflight response headers.
const (
	AllowOrigin  = "*"
	AllowHeaders = "Content-Type"
	AllowMethods = "POST, OPTIONS"
)

type Handler struct {
	config  *Config
	service *Service
	logger  logger.Logger
	errors  *apperrors.ErrorHandler
	obs     *observability.Observability
}

func NewHandler(config *Config, service *Service, log logger.Logger, obs *observability.Observability) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	log = log.With(map[string]interface{}{"handler": HandlerName})
	return &Handler{
		config:  config,
		service: service,
		logger:  log,
		errors:  apperrors.NewErrorHandler(log),
		obs:     obs,
	}
}

// ServeHTTP runs the checks in order: method, body parse, shape, credential.
// Only then is the completion service called.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RequestsInFlight.Inc()
	defer metrics.RequestsInFlight.Dec()

	switch r.Method {
	case http.MethodOptions:
		writePreflight(w)
		h.record(r.Context(), metrics.OutcomePreflight, "", start)
		return
	case http.MethodPost:
	default:
		h.fail(w, r, apperrors.NewMethodNotAllowedError(r.Method), start)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		h.fail(w, r, apperrors.NewInvalidJSONError(err), start)
		return
	}

	req, err := DecodeMatchRequest(body)
	if err != nil {
		h.fail(w, r, err, start)
		return
	}

	if h.config.APIKey == "" {
		h.fail(w, r, apperrors.NewServerMisconfiguredError(), start)
		return
	}

	result, err := h.service.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, start)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", AllowOrigin)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
	h.record(r.Context(), metrics.OutcomeSuccess, "", start)
}

func writePreflight(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", AllowOrigin)
	w.Header().Set("Access-Control-Allow-Headers", AllowHeaders)
	w.Header().Set("Access-Control-Allow-Methods", AllowMethods)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	h.errors.HandleHTTPError(w, r, stdErr)
	h.record(r.Context(), outcomeFor(stdErr.Code), string(stdErr.Code), start)
}

func (h *Handler) record(ctx context.Context, outcome, code string, start time.Time) {
	metrics.MatchRequests.WithLabelValues(outcome, code).Inc()
	h.obs.RecordMatch(ctx, outcome, time.Since(start))
}

func outcomeFor(code apperrors.ErrorCode) string {
	switch apperrors.GetErrorCategory(code) {
	case apperrors.CategoryTransport, apperrors.CategoryInput:
		return metrics.OutcomeClientErr
	case apperrors.CategoryConfiguration:
		return metrics.OutcomeConfigErr
	case apperrors.CategoryUpstream:
		return metrics.OutcomeUpstream
	default:
		return metrics.OutcomeInternal
	}
}
