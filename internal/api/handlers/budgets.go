package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/api/middleware"
	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// BudgetsHandler serves the budget settings endpoints.
type BudgetsHandler struct {
	budgets store.BudgetRepository
	log     zerolog.Logger
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(budgets store.BudgetRepository, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{budgets: budgets, log: log}
}

type budgetSettingsRequest struct {
	MonthlyBudget   decimal.Decimal `json:"monthly_budget"`
	CategoryBudgets []struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	} `json:"category_budgets"`
}

// GetBudget handles GET /api/budget. Owners without settings get the zero
// defaults; nothing is persisted by a read.
func (h *BudgetsHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.OwnerID(ctx)

	settings, err := h.budgets.Current(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		settings = domain.DefaultBudgetSettings(ownerID, time.Now())
	} else if err != nil {
		writeServiceError(w, h.log, err, "Failed to load budget settings")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, settings)
}

// SaveBudget handles PUT /api/budget, overwriting the owner's settings.
func (h *BudgetsHandler) SaveBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.OwnerID(ctx)

	var req budgetSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now()
	settings := domain.BudgetSettings{
		OwnerID:       ownerID,
		MonthlyBudget: req.MonthlyBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, cb := range req.CategoryBudgets {
		icon, color := domain.CategoryStyle(cb.Category)
		settings.CategoryBudgets = append(settings.CategoryBudgets, domain.CategoryBudget{
			Category: cb.Category,
			Amount:   cb.Amount,
			Icon:     icon,
			Color:    color,
		})
	}
	if err := settings.Validate(); err != nil {
		writeServiceError(w, h.log, err, "Invalid budget settings")
		return
	}

	// Overwrite the current document when one exists.
	if current, err := h.budgets.Current(ctx, ownerID); err == nil {
		settings.ID = current.ID
		settings.CreatedAt = current.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		writeServiceError(w, h.log, err, "Failed to load budget settings")
		return
	}

	id, err := h.budgets.Save(ctx, settings)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to save budget settings")
		return
	}
	settings.ID = id
	middleware.WriteJSON(w, http.StatusOK, settings)
}
