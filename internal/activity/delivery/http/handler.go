package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/catalog-search/internal/activity/domain"
	"github.com/tair/catalog-search/internal/activity/usecase/command"
	"github.com/tair/catalog-search/internal/activity/usecase/query"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/pkg/logger"
)

// ActivityHandler handles HTTP requests for the user activity tracker.
type ActivityHandler struct {
	trackHandler       *command.TrackActivityHandler
	updatePrefsHandler *command.UpdatePreferencesHandler
	getPrefsHandler    *query.GetPreferencesHandler
	reportHandler      *query.ActivityReportHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewActivityHandler creates a new activity handler (manual DI)
func NewActivityHandler(repo domain.Repository, catalog domain.CatalogLookup, publisher command.EventPublisher) *ActivityHandler {
	return newActivityHandler(
		command.NewTrackActivityHandler(repo, catalog, publisher),
		command.NewUpdatePreferencesHandler(repo),
		query.NewGetPreferencesHandler(repo),
		query.NewActivityReportHandler(repo),
	)
}

// NewActivityHandlerWithDI creates a new activity handler using dependency
// injection. This is used by Wire.
func NewActivityHandlerWithDI(
	trackHandler *command.TrackActivityHandler,
	updatePrefsHandler *command.UpdatePreferencesHandler,
	getPrefsHandler *query.GetPreferencesHandler,
	reportHandler *query.ActivityReportHandler,
) *ActivityHandler {
	return newActivityHandler(trackHandler, updatePrefsHandler, getPrefsHandler, reportHandler)
}

func newActivityHandler(
	trackHandler *command.TrackActivityHandler,
	updatePrefsHandler *command.UpdatePreferencesHandler,
	getPrefsHandler *query.GetPreferencesHandler,
	reportHandler *query.ActivityReportHandler,
) *ActivityHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_service_requests_total",
			Help: "Total number of requests to activity service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activity_service_request_duration_seconds",
			Help:    "Duration of activity service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ActivityHandler{
		trackHandler:       trackHandler,
		updatePrefsHandler: updatePrefsHandler,
		getPrefsHandler:    getPrefsHandler,
		reportHandler:      reportHandler,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
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
func (h *ActivityHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *ActivityHandler) RegisterRoutes(router *mux.Router) {
	// Private routes (authenticated user required)
	router.HandleFunc("/api/activity", h.metricsMiddleware("/api/activity", AuthMiddleware(h.Track))).Methods("POST")
	router.HandleFunc("/api/activity/preferences", h.metricsMiddleware("/api/activity/preferences", AuthMiddleware(h.GetPreferences))).Methods("GET")
	router.HandleFunc("/api/activity/preferences", h.metricsMiddleware("/api/activity/preferences", AuthMiddleware(h.UpdatePreferences))).Methods("PUT")

	// Admin routes
	router.HandleFunc("/api/activity/report/{userId}", h.metricsMiddleware("/api/activity/report/{userId}", AdminMiddleware(h.Report))).Methods("GET")
}

type trackActivityRequest struct {
	ActivityType  string          `json:"activityType"`
	ProductID     uint            `json:"productId"`
	Category      string          `json:"category"`
	SearchQuery   string          `json:"searchQuery"`
	FilterOptions json.RawMessage `json:"filterOptions"`
	SessionID     string          `json:"sessionId"`
	Metadata      json.RawMessage `json:"metadata"`
	DurationMs    int64           `json:"durationMs"`
}

// Track handles POST /api/activity
func (h *ActivityHandler) Track(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req trackActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	err := h.trackHandler.Handle(r.Context(), command.TrackActivityCommand{
		UserID:        userID,
		ActivityType:  req.ActivityType,
		ProductID:     req.ProductID,
		Category:      req.Category,
		SearchQuery:   req.SearchQuery,
		FilterOptions: req.FilterOptions,
		SessionID:     req.SessionID,
		Metadata:      req.Metadata,
		DurationMs:    req.DurationMs,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to track activity")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   errorMessage(err, "Failed to track activity"),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Activity recorded",
	})
}

// GetPreferences handles GET /api/activity/preferences
func (h *ActivityHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	prefs, err := h.getPrefsHandler.Handle(r.Context(), query.GetPreferencesQuery{UserID: userID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to get preferences")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Failed to get preferences",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: prefs})
}

// UpdatePreferences handles PUT /api/activity/preferences
func (h *ActivityHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var update domain.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	prefs, err := h.updatePrefsHandler.Handle(r.Context(), command.UpdatePreferencesCommand{
		UserID: userID,
		Update: update,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to update preferences")
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   "Failed to update preferences",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Preferences updated",
		Data:    prefs,
	})
}

// Report handles GET /api/activity/report/{userId}
func (h *ActivityHandler) Report(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid user ID",
		})
		return
	}

	report, err := h.reportHandler.Handle(r.Context(), query.ActivityReportQuery{UserID: uint(userID)})
	if err != nil {
		if !errors.Is(err, searchdomain.ErrNotFound) {
			logger.Error(r.Context()).Err(err).Uint64("user_id", userID).Msg("Failed to build activity report")
		}
		respondJSON(w, statusFromError(err), Response{
			Success: false,
			Error:   errorMessage(err, "Failed to build activity report"),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// statusFromError maps error kinds onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, searchdomain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, searchdomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, searchdomain.ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage surfaces validation and not-found details to the caller while
// hiding dependency failures behind a generic message.
func errorMessage(err error, generic string) string {
	if errors.Is(err, searchdomain.ErrValidation) || errors.Is(err, searchdomain.ErrNotFound) {
		return err.Error()
	}
	return generic
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
