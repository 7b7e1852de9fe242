package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nehalnetha/budgetbuddy-backend/internal/analytics"
	"github.com/nehalnetha/budgetbuddy-backend/internal/api/middleware"
	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/finance"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// AnalyticsHandler serves the chart-facing aggregation endpoints.
type AnalyticsHandler struct {
	svc        *finance.Service
	budgets    store.BudgetRepository
	aggregator *analytics.Aggregator
	log        zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(svc *finance.Service, budgets store.BudgetRepository, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:        svc,
		budgets:    budgets,
		aggregator: analytics.New(),
		log:        log,
	}
}

// Buckets handles GET /api/analytics/buckets?granularity=day&window=7&date=2006-01-02
func (h *AnalyticsHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	granularity := analytics.Granularity(r.URL.Query().Get("granularity"))
	switch granularity {
	case analytics.Daily, analytics.Weekly, analytics.Monthly:
	case "":
		granularity = analytics.Daily
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Invalid granularity, want day, week or month")
		return
	}
	window := queryInt(r, "window", 7)
	if window < 1 {
		middleware.WriteError(w, http.StatusBadRequest, "Window must be at least 1")
		return
	}
	ref, err := queryDate(r, "date", time.Now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD")
		return
	}

	txs, err := h.svc.AllExpenses(ctx, middleware.OwnerID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load expenses")
		return
	}
	buckets, err := h.aggregator.Bucket(txs, granularity, ref, window)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to bucket expenses")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"granularity": granularity,
		"buckets":     buckets,
	})
}

// Budget handles GET /api/analytics/budget?date=2006-01-02 and compares the
// month containing date against the owner's budget settings.
func (h *AnalyticsHandler) Budget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.OwnerID(ctx)

	month, err := queryDate(r, "date", time.Now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD")
		return
	}

	settings, err := h.budgets.Current(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		// No settings yet: compare against the zero defaults rather than 404.
		settings = domain.DefaultBudgetSettings(ownerID, month)
	} else if err != nil {
		writeServiceError(w, h.log, err, "Failed to load budget settings")
		return
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	txs, err := h.svc.AllExpenses(ctx, ownerID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load expenses")
		return
	}
	monthTxs := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.Before(start) && tx.Date.Before(start.AddDate(0, 1, 0)) {
			monthTxs = append(monthTxs, tx)
		}
	}
	spent, err := h.aggregator.ByCategory(monthTxs)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to total expenses")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"month":      start.Format(analytics.MonthKeyLayout),
		"comparison": analytics.Compare(spent, settings),
	})
}

// Growth handles GET /api/analytics/growth?category=Food&months=3&date=2006-01-02
func (h *AnalyticsHandler) Growth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	months := queryInt(r, "months", 3)
	if months < 1 {
		middleware.WriteError(w, http.StatusBadRequest, "Months must be at least 1")
		return
	}
	ref, err := queryDate(r, "date", time.Now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD")
		return
	}

	txs, err := h.svc.AllExpenses(ctx, middleware.OwnerID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load expenses")
		return
	}
	series, err := analytics.GrowthSeries(txs, category, ref, months)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to compute growth")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"series":   series,
	})
}

// Forecast handles GET /api/analytics/forecast?past=3&future=2&date=2006-01-02
func (h *AnalyticsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	past := queryInt(r, "past", 3)
	future := queryInt(r, "future", 2)
	if past < 1 || future < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid forecast window")
		return
	}
	ref, err := queryDate(r, "date", time.Now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD")
		return
	}

	txs, err := h.svc.AllExpenses(ctx, middleware.OwnerID(ctx))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load expenses")
		return
	}
	points, err := analytics.ForecastWindow(txs, ref, past, future)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to compute forecast")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
	})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return def
}
