package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tair/inventory-monitor/internal/inventory/usecase/command"
	"github.com/tair/inventory-monitor/internal/inventory/usecase/query"
	"github.com/tair/inventory-monitor/internal/rules"
	"github.com/tair/inventory-monitor/pkg/logger"
)

// MonitorHandler exposes the rule engine's outputs over HTTP using the CQRS
// handlers.
type MonitorHandler struct {
	// Command handlers
	triggerHandler *command.TriggerAlertsHandler
	applyHandler   *command.ApplyPricesHandler

	// Query handlers
	listHandler    *query.ListAlertsHandler
	suggestHandler *query.SuggestPricesHandler
	checkHandler   *query.CheckItemHandler
	predictHandler *query.PredictDemandHandler

	requestCounter     *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	alertsEmitted      *prometheus.CounterVec
	suggestionsEmitted *prometheus.CounterVec
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(
	triggerHandler *command.TriggerAlertsHandler,
	applyHandler *command.ApplyPricesHandler,
	listHandler *query.ListAlertsHandler,
	suggestHandler *query.SuggestPricesHandler,
	checkHandler *query.CheckItemHandler,
	predictHandler *query.PredictDemandHandler,
) *MonitorHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_monitor_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_monitor_request_duration_seconds",
			Help:    "HTTP request latency by endpoint",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	alertsEmitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_monitor_alerts_emitted_total",
			Help: "Alerts produced by evaluation passes, by kind",
		},
		[]string{"kind"},
	)
	suggestionsEmitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_monitor_price_suggestions_total",
			Help: "Price suggestions produced by evaluation passes, by reason",
		},
		[]string{"reason"},
	)

	prometheus.MustRegister(requestCounter, requestLatency, alertsEmitted, suggestionsEmitted)

	return &MonitorHandler{
		triggerHandler:     triggerHandler,
		applyHandler:       applyHandler,
		listHandler:        listHandler,
		suggestHandler:     suggestHandler,
		checkHandler:       checkHandler,
		predictHandler:     predictHandler,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
		alertsEmitted:      alertsEmitted,
		suggestionsEmitted: suggestionsEmitted,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TriggerAlerts handles GET /api/alerts/trigger
func (h *MonitorHandler) TriggerAlerts(w http.ResponseWriter, r *http.Request) {
	defer h.observe("alerts_trigger", time.Now())

	result, err := h.triggerHandler.Handle(r.Context(), time.Now())
	if err != nil {
		h.respondEvaluationError(w, "alerts_trigger", err)
		return
	}

	h.countAlerts(result.Alerts)
	h.requestCounter.WithLabelValues("alerts_trigger", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ListAlerts handles GET /api/alerts/list
func (h *MonitorHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	defer h.observe("alerts_list", time.Now())

	alerts, err := h.listHandler.Handle(r.Context(), time.Now())
	if err != nil {
		h.respondEvaluationError(w, "alerts_list", err)
		return
	}

	h.countAlerts(alerts)
	h.requestCounter.WithLabelValues("alerts_list", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"alerts": alerts},
	})
}

// SuggestPrices handles GET /api/pricing/suggest
func (h *MonitorHandler) SuggestPrices(w http.ResponseWriter, r *http.Request) {
	defer h.observe("pricing_suggest", time.Now())

	suggestions, err := h.suggestHandler.Handle(r.Context(), time.Now())
	if err != nil {
		h.respondEvaluationError(w, "pricing_suggest", err)
		return
	}

	h.countSuggestions(suggestions)
	h.requestCounter.WithLabelValues("pricing_suggest", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"suggestions": suggestions},
	})
}

// ApplyPrices handles POST /api/pricing/apply
func (h *MonitorHandler) ApplyPrices(w http.ResponseWriter, r *http.Request) {
	defer h.observe("pricing_apply", time.Now())

	result, err := h.applyHandler.Handle(r.Context(), time.Now())
	if err != nil {
		h.respondEvaluationError(w, "pricing_apply", err)
		return
	}

	h.countSuggestions(result.Applied)
	h.requestCounter.WithLabelValues("pricing_apply", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Price changes simulated, nothing persisted",
		Data:    result,
	})
}

type checkItemRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	ExpiryDate  string          `json:"expiry_date"`
	Price       decimal.Decimal `json:"price"`
	DemandScore *float64        `json:"demand_score"`
}

// CheckItem handles POST /api/check
func (h *MonitorHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	defer h.observe("check", time.Now())

	var req checkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("check", "400").Inc()
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := req.toItem()
	if err != nil {
		h.requestCounter.WithLabelValues("check", "400").Inc()
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	result, err := h.checkHandler.Handle(r.Context(), query.CheckItemQuery{
		Item: item,
		Now:  time.Now(),
	})
	if err != nil {
		h.respondEvaluationError(w, "check", err)
		return
	}

	h.requestCounter.WithLabelValues("check", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

func (r *checkItemRequest) toItem() (rules.Item, error) {
	if r.Name == "" {
		return rules.Item{}, fmt.Errorf("name is required")
	}
	if r.ExpiryDate == "" {
		return rules.Item{}, fmt.Errorf("expiry_date is required")
	}

	expiry, err := time.Parse("2006-01-02", r.ExpiryDate)
	if err != nil {
		if expiry, err = time.Parse(time.RFC3339, r.ExpiryDate); err != nil {
			return rules.Item{}, fmt.Errorf("bad expiry_date %q, want YYYY-MM-DD", r.ExpiryDate)
		}
	}

	id := r.ID
	if id == "" {
		id = r.Name
	}
	score := 0.5
	if r.DemandScore != nil {
		score = *r.DemandScore
	}

	return rules.Item{
		ID:          id,
		Name:        r.Name,
		Quantity:    r.Quantity,
		ExpiryDate:  expiry,
		Price:       r.Price,
		DemandScore: score,
	}, nil
}

type predictDemandRequest struct {
	Model     string  `json:"model"`
	PrevSales float64 `json:"prev_sales"`
	Price     float64 `json:"price"`
	Weather   string  `json:"weather"`
}

// PredictDemand handles POST /api/demand/predict
func (h *MonitorHandler) PredictDemand(w http.ResponseWriter, r *http.Request) {
	defer h.observe("demand_predict", time.Now())

	var req predictDemandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("demand_predict", "400").Inc()
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	prediction, err := h.predictHandler.Handle(r.Context(), query.PredictDemandQuery{
		Model:     req.Model,
		PrevSales: req.PrevSales,
		Price:     req.Price,
		Weather:   req.Weather,
	})
	if err != nil {
		h.requestCounter.WithLabelValues("demand_predict", "400").Inc()
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.requestCounter.WithLabelValues("demand_predict", "200").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]float64{"predicted_demand": prediction},
	})
}

// RegisterRoutes registers all monitor routes
func (h *MonitorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/alerts/trigger", h.TriggerAlerts).Methods("GET")
	router.HandleFunc("/api/alerts/list", h.ListAlerts).Methods("GET")
	router.HandleFunc("/api/pricing/suggest", h.SuggestPrices).Methods("GET")
	router.HandleFunc("/api/pricing/apply", h.ApplyPrices).Methods("POST")
	router.HandleFunc("/api/check", h.CheckItem).Methods("POST")
	router.HandleFunc("/api/demand/predict", h.PredictDemand).Methods("POST")
	router.HandleFunc("/form", h.Form).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint. db may be nil when the
// record store is file-backed.
func (h *MonitorHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
			Message: "Inventory monitor is healthy",
		})
	}).Methods("GET")
}

// respondEvaluationError maps evaluation failures onto the error taxonomy:
// malformed input is the caller's problem, everything else is ours.
func (h *MonitorHandler) respondEvaluationError(w http.ResponseWriter, endpoint string, err error) {
	var inputErr *rules.InputError
	if errors.As(err, &inputErr) {
		h.requestCounter.WithLabelValues(endpoint, "422").Inc()
		respondJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   inputErr.Error(),
		})
		return
	}

	logger.Logger.Error().Err(err).Str("endpoint", endpoint).Msg("Evaluation failed")
	h.requestCounter.WithLabelValues(endpoint, "500").Inc()
	respondJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func (h *MonitorHandler) observe(endpoint string, start time.Time) {
	h.requestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *MonitorHandler) countAlerts(alerts []rules.Alert) {
	for _, alert := range alerts {
		h.alertsEmitted.WithLabelValues(string(alert.Kind)).Inc()
	}
}

func (h *MonitorHandler) countSuggestions(suggestions []rules.PriceSuggestion) {
	for _, s := range suggestions {
		h.suggestionsEmitted.WithLabelValues(s.Reason).Inc()
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
