package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"movie-analyzer/internal/models"
	"movie-analyzer/internal/repository"
	"movie-analyzer/internal/services"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

// MovieHandler handles movie API endpoints
type MovieHandler struct {
	movieService    *services.MovieService
	statsService    *services.StatisticsService
	pipelineService *services.PipelineService
	repo            repository.MovieRepository
	snapshotPath    string
	logger          *logging.StructuredLogger
	metrics         *metrics.Collector
}

// NewMovieHandler creates a new movie handler. snapshotPath is the annotated
// CSV that POST /api/admin/reload publishes.
func NewMovieHandler(
	movieService *services.MovieService,
	statsService *services.StatisticsService,
	pipelineService *services.PipelineService,
	repo repository.MovieRepository,
	snapshotPath string,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *MovieHandler {
	return &MovieHandler{
		movieService:    movieService,
		statsService:    statsService,
		pipelineService: pipelineService,
		repo:            repo,
		snapshotPath:    snapshotPath,
		logger:          logger,
		metrics:         metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// ListResponse wraps an unpaginated collection
type ListResponse struct {
	Data interface{} `json:"data"`
}

// ListMovies handles GET /api/movies
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/movies"
	defer h.observe(endpoint, time.Now())

	q := r.URL.Query()

	page := 1
	limit := 100

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}
	if page > math.MaxInt32/limit {
		h.sendError(w, r, endpoint, "page out of range", http.StatusBadRequest)
		return
	}

	hitsOnly := false
	if v := q.Get("hits_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.sendError(w, r, endpoint, "invalid hits_only, expected true or false", http.StatusBadRequest)
			return
		}
		hitsOnly = b
	}

	movies, total, err := h.movieService.List(r.Context(), services.ListQuery{
		Genre:    q.Get("genre"),
		HitsOnly: hitsOnly,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to list movies", err)
		return
	}

	h.sendOK(w, r, endpoint, PaginatedResponse{
		Data:       movies,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	})
}

// LookupMovie handles GET /api/movies/lookup?title=
func (h *MovieHandler) LookupMovie(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/movies/lookup"
	defer h.observe(endpoint, time.Now())

	report, err := h.movieService.Lookup(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to look up movie", err)
		return
	}

	h.sendOK(w, r, endpoint, report)
}

// CheckMovie handles POST /api/movies/check
func (h *MovieHandler) CheckMovie(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/movies/check"
	defer h.observe(endpoint, time.Now())

	var in services.CustomMovie
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		h.sendError(w, r, endpoint, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.movieService.CheckCustom(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to check movie", err)
		return
	}

	h.sendOK(w, r, endpoint, report)
}

// GetSummary handles GET /api/stats/summary
func (h *MovieHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/summary"
	defer h.observe(endpoint, time.Now())

	summary, err := h.statsService.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to compute summary", err)
		return
	}

	h.sendOK(w, r, endpoint, summary)
}

// GetHitsByYear handles GET /api/stats/hits-by-year
func (h *MovieHandler) GetHitsByYear(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/hits-by-year"
	defer h.observe(endpoint, time.Now())

	shares, err := h.statsService.HitShareByYear(r.Context())
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to compute hit share", err)
		return
	}

	h.sendOK(w, r, endpoint, ListResponse{Data: shares})
}

// GetHitsByRuntime handles GET /api/stats/hits-by-runtime
func (h *MovieHandler) GetHitsByRuntime(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/hits-by-runtime"
	defer h.observe(endpoint, time.Now())

	shares, err := h.statsService.HitShareByRuntime(r.Context())
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to compute hit share", err)
		return
	}

	h.sendOK(w, r, endpoint, ListResponse{Data: shares})
}

// GetMetricByYear handles GET /api/stats/metric-by-year?metric=
func (h *MovieHandler) GetMetricByYear(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/metric-by-year"
	defer h.observe(endpoint, time.Now())

	series, err := h.statsService.MetricByYear(r.Context(), r.URL.Query().Get("metric"))
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to compute metric by year", err)
		return
	}

	h.sendOK(w, r, endpoint, series)
}

// GetCorrelations handles GET /api/stats/correlations
func (h *MovieHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/correlations"
	defer h.observe(endpoint, time.Now())

	matrix, err := h.statsService.Correlations(r.Context())
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to compute correlations", err)
		return
	}

	h.sendOK(w, r, endpoint, matrix)
}

// GetGenres handles GET /api/stats/genres
func (h *MovieHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/stats/genres"
	defer h.observe(endpoint, time.Now())

	counts, err := h.statsService.GenreCounts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, endpoint, "failed to count genres", err)
		return
	}

	h.sendOK(w, r, endpoint, ListResponse{Data: counts})
}

// ReloadSnapshot handles POST /api/admin/reload
func (h *MovieHandler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/admin/reload"
	defer h.observe(endpoint, time.Now())

	result, err := h.pipelineService.LoadSnapshot(r.Context(), h.snapshotPath)
	if err != nil {
		h.logger.Error(r.Context(), "[API_RELOAD_ERROR] Snapshot reload failed", logging.Fields{
			"path": h.snapshotPath,
		}, err)
		h.metrics.RecordAPIError("reload_error", endpoint)
		h.sendError(w, r, endpoint, "failed to reload snapshot", http.StatusInternalServerError)
		return
	}

	h.sendOK(w, r, endpoint, result)
}

// HealthCheck handles GET /health
func (h *MovieHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := h.repo.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK] Store unhealthy", logging.Fields{"error": err.Error()})
		status["status"] = "unhealthy"
		code = http.StatusServiceUnavailable
	} else if id, err := h.repo.SnapshotID(ctx); err == nil {
		status["snapshot_id"] = id
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, code)
}

// handleServiceError maps typed service errors to status codes
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, r *http.Request, endpoint, message string, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		h.metrics.RecordAPIError("validation_error", endpoint)
		h.sendError(w, r, endpoint, ve.Error(), http.StatusBadRequest)
		return
	}

	var nf *repository.NotFoundError
	if errors.As(err, &nf) {
		h.metrics.RecordAPIError("not_found", endpoint)
		h.sendError(w, r, endpoint, nf.Error(), http.StatusNotFound)
		return
	}

	h.logger.Error(r.Context(), "[API_ERROR] Request failed", logging.Fields{
		"endpoint": endpoint,
	}, err)
	h.metrics.RecordAPIError("internal_error", endpoint)
	h.sendError(w, r, endpoint, message, http.StatusInternalServerError)
}

func (h *MovieHandler) observe(endpoint string, start time.Time) {
	h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *MovieHandler) sendOK(w http.ResponseWriter, r *http.Request, endpoint string, data interface{}) {
	h.metrics.RecordAPIRequest(endpoint, r.Method, "200")
	h.sendJSON(w, data, http.StatusOK)
}

// sendJSON sends a JSON response
func (h *MovieHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *MovieHandler) sendError(w http.ResponseWriter, r *http.Request, endpoint, message string, statusCode int) {
	h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all movie API routes
func (h *MovieHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/movies", h.ListMovies).Methods("GET")
	router.HandleFunc("/api/movies/lookup", h.LookupMovie).Methods("GET")
	router.HandleFunc("/api/movies/check", h.CheckMovie).Methods("POST")
	router.HandleFunc("/api/stats/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/api/stats/hits-by-year", h.GetHitsByYear).Methods("GET")
	router.HandleFunc("/api/stats/hits-by-runtime", h.GetHitsByRuntime).Methods("GET")
	router.HandleFunc("/api/stats/metric-by-year", h.GetMetricByYear).Methods("GET")
	router.HandleFunc("/api/stats/correlations", h.GetCorrelations).Methods("GET")
	router.HandleFunc("/api/stats/genres", h.GetGenres).Methods("GET")
	router.HandleFunc("/api/admin/reload", h.ReloadSnapshot).Methods("POST")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
}
