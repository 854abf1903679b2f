// Package http exposes the query service and metric engine over a chi
// router. Handlers are thin: validation, dispatch, JSON rendering.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "finsight/internal/errors"
	"finsight/internal/services"
)

// QueryHandler handles question answering and metric requests.
type QueryHandler struct {
	queries  *services.QueryService
	metrics  *services.MetricService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(queries *services.QueryService, metrics *services.MetricService, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		queries:  queries,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "query_handler")),
		validate: validator.New(),
	}
}

// Routes returns the API routes.
func (h *QueryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/query", h.PostQuery)
	r.Get("/metrics", h.ListMetrics)
	r.Get("/metrics/{operation}", h.GetMetric)

	return r
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question" validate:"required,min=2,max=500"`
}

// Bind implements render.Binder.
func (q *QueryRequest) Bind(r *http.Request) error {
	return nil
}

// PostQuery answers a natural-language question.
func (h *QueryHandler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := render.Bind(r, &req); err != nil {
		h.renderError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.renderError(w, r, apierrors.ErrValidation("question", "question must be between 2 and 500 characters"))
		return
	}

	answer, err := h.queries.Answer(r.Context(), req.Question)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "query failed",
			slog.String("question", req.Question),
			slog.String("error", err.Error()))
		h.renderError(w, r, apierrors.FromAppError(err))
		return
	}

	render.JSON(w, r, answer)
}

// ListMetrics lists the available metric operations.
func (h *QueryHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"operations": services.Operations})
}

// GetMetric computes one named metric. Optional query parameters: period
// (a month phrase like "June 2025") and last (trailing window length).
func (h *QueryHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	operation := chi.URLParam(r, "operation")
	periodText := r.URL.Query().Get("period")

	lastN := 0
	if raw := r.URL.Query().Get("last"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.renderError(w, r, apierrors.ErrValidation("last", "last must be a positive integer"))
			return
		}
		lastN = n
	}

	result, err := h.metrics.Compute(r.Context(), operation, periodText, lastN)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "metric computation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		h.renderError(w, r, apierrors.FromAppError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"operation": operation,
		"result":    result,
	})
}

func (h *QueryHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// RequestLogger logs each request with method, path, status and request ID.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
