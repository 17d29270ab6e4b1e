package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/catalog-search/internal/search/cache"
	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/internal/search/usecase/query"
	"github.com/tair/catalog-search/pkg/logger"
)

// SearchHandler handles HTTP requests for the catalog query engine.
type SearchHandler struct {
	searchHandler          *query.SearchProductsHandler
	autocompleteHandler    *query.AutocompleteHandler
	similarHandler         *query.SimilarProductsHandler
	trendingHandler        *query.TrendingHandler
	recommendationsHandler *query.RecommendationsHandler

	cache *cache.ResultCache

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// NewSearchHandler creates a new search handler (manual DI)
func NewSearchHandler(repo domain.ProductRepository, views query.ViewHistory, resultCache *cache.ResultCache) *SearchHandler {
	trending := query.NewTrendingHandler(repo)
	return newSearchHandler(
		query.NewSearchProductsHandler(repo),
		query.NewAutocompleteHandler(repo),
		query.NewSimilarProductsHandler(repo),
		trending,
		query.NewRecommendationsHandler(repo, views, trending),
		resultCache,
	)
}

// NewSearchHandlerWithDI creates a new search handler using dependency
// injection. This is used by Wire.
func NewSearchHandlerWithDI(
	searchHandler *query.SearchProductsHandler,
	autocompleteHandler *query.AutocompleteHandler,
	similarHandler *query.SimilarProductsHandler,
	trendingHandler *query.TrendingHandler,
	recommendationsHandler *query.RecommendationsHandler,
	resultCache *cache.ResultCache,
) *SearchHandler {
	return newSearchHandler(
		searchHandler, autocompleteHandler, similarHandler,
		trendingHandler, recommendationsHandler, resultCache,
	)
}

func newSearchHandler(
	searchHandler *query.SearchProductsHandler,
	autocompleteHandler *query.AutocompleteHandler,
	similarHandler *query.SimilarProductsHandler,
	trendingHandler *query.TrendingHandler,
	recommendationsHandler *query.RecommendationsHandler,
	resultCache *cache.ResultCache,
) *SearchHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_service_requests_total",
			Help: "Total number of requests to search service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_service_request_duration_seconds",
			Help:    "Duration of search service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "search_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.005,
				0.99: 0.001,
			},
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)

	return &SearchHandler{
		searchHandler:          searchHandler,
		autocompleteHandler:    autocompleteHandler,
		similarHandler:         similarHandler,
		trendingHandler:        trendingHandler,
		recommendationsHandler: recommendationsHandler,
		cache:                  resultCache,
		requestCounter:         requestCounter,
		requestLatency:         requestLatency,
		requestSummary:         requestSummary,
	}
}

// Response is the common HTTP envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *SearchHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *SearchHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/search", h.metricsMiddleware("/api/search", h.Search)).Methods("GET")
	router.HandleFunc("/api/search/autocomplete", h.metricsMiddleware("/api/search/autocomplete", h.Autocomplete)).Methods("GET")
	router.HandleFunc("/api/products/trending", h.metricsMiddleware("/api/products/trending", h.Trending)).Methods("GET")
	router.HandleFunc("/api/products/{id}/similar", h.metricsMiddleware("/api/products/{id}/similar", h.Similar)).Methods("GET")

	// Private routes (authenticated user required)
	router.HandleFunc("/api/recommendations", h.metricsMiddleware("/api/recommendations", AuthMiddleware(h.Recommendations))).Methods("GET")
}

// RegisterHealthCheck registers the health endpoint.
func (h *SearchHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Search service is healthy",
		})
	}).Methods("GET")
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := query.SearchProductsQuery{
		Query:             params.Get("query"),
		Category:          params.Get("category"),
		MinPrice:          parseFloatParam(params.Get("minPrice")),
		MaxPrice:          parseFloatParam(params.Get("maxPrice")),
		Colors:            parseListParam(params.Get("colors")),
		Features:          parseListParam(params.Get("features")),
		Sort:              params.Get("sort"),
		IncludeOutOfStock: params.Get("includeOutOfStock") == "true",
	}
	q.Page, _ = strconv.Atoi(params.Get("page"))
	if v := params.Get("limit"); v != "" {
		q.PageSize, _ = strconv.Atoi(v)
	} else {
		q.PageSize, _ = strconv.Atoi(params.Get("pageSize"))
	}

	cacheKey := cache.Key("query", r.URL.RawQuery)
	var cached query.SearchResult
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		respondJSON(w, http.StatusOK, Response{Success: true, Data: &cached})
		return
	}

	result, err := h.searchHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Search failed")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Search failed",
		})
		return
	}

	h.cache.Set(r.Context(), cacheKey, result)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// Autocomplete handles GET /api/search/autocomplete
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	q := query.AutocompleteQuery{
		Query: r.URL.Query().Get("query"),
		Limit: limit,
	}

	suggestions, err := h.autocompleteHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Autocomplete failed")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Autocomplete failed",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: suggestions})
}

// Similar handles GET /api/products/{id}/similar
func (h *SearchHandler) Similar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.similarHandler.Handle(r.Context(), query.SimilarProductsQuery{
		ProductID: uint(id),
		Limit:     limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Similar products failed")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Failed to find similar products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// Trending handles GET /api/products/trending
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	cacheKey := cache.Key("trending", fmt.Sprintf("limit=%d", limit))
	var cached []domain.Product
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		respondJSON(w, http.StatusOK, Response{Success: true, Data: cached})
		return
	}

	products, err := h.trendingHandler.Handle(r.Context(), query.TrendingQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Trending products failed")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Failed to get trending products",
		})
		return
	}

	h.cache.Set(r.Context(), cacheKey, products)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// Recommendations handles GET /api/recommendations
func (h *SearchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.recommendationsHandler.Handle(r.Context(), query.RecommendationsQuery{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Recommendations failed")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Failed to generate recommendations",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// parseFloatParam returns nil when the parameter is absent or malformed.
func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseListParam splits a comma-separated parameter, dropping empties.
func parseListParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// statusFromError maps error kinds onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
