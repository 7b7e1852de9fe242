package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nehalnetha/budgetbuddy-backend/internal/api/middleware"
	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/insight"
)

// InsightsHandler serves insight reads and triggers generations.
type InsightsHandler struct {
	gen *insight.Generator
	log zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(gen *insight.Generator, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{gen: gen, log: log}
}

type insightResponse struct {
	ID                     string   `json:"id"`
	Date                   string   `json:"date"`
	Text                   string   `json:"text"`
	AnalyzedTransactionIDs []string `json:"analyzed_transaction_ids"`
}

func toInsightResponse(in domain.Insight) insightResponse {
	return insightResponse{
		ID:                     in.ID,
		Date:                   in.FormattedDate(),
		Text:                   in.Text,
		AnalyzedTransactionIDs: in.AnalyzedTransactionIDs,
	}
}

// ListInsights handles GET /api/insights?limit=5
func (h *InsightsHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 5)
	if limit < 1 {
		middleware.WriteError(w, http.StatusBadRequest, "Limit must be at least 1")
		return
	}

	insights, err := h.gen.FetchRecent(ctx, middleware.OwnerID(ctx), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list insights")
		return
	}

	items := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		items = append(items, toInsightResponse(in))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insights": items,
		"count":    len(items),
	})
}

// GenerateInsight handles POST /api/insights/generate
func (h *InsightsHandler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, err := h.gen.GenerateDaily(ctx, middleware.OwnerID(ctx))
	if err != nil {
		if errors.Is(err, insight.ErrAlreadyGenerated) {
			middleware.WriteError(w, http.StatusConflict, "Insight already generated today")
			return
		}
		writeServiceError(w, h.log, err, "Failed to generate insight")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toInsightResponse(in))
}
