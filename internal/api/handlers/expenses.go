// Package handlers implements the HTTP endpoints over the finance service,
// the analytics engine and the insight generator. Handlers decode, call the
// service, and map the error taxonomy to status codes; payload shaping
// lives in the services.
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
	"github.com/nehalnetha/budgetbuddy-backend/internal/finance"
)

// dateLayout is the wire format for calendar-day query parameters.
const dateLayout = "2006-01-02"

// ExpensesHandler handles expense and income endpoints.
type ExpensesHandler struct {
	svc *finance.Service
	log zerolog.Logger
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(svc *finance.Service, log zerolog.Logger) *ExpensesHandler {
	return &ExpensesHandler{svc: svc, log: log}
}

type expenseRequest struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type expenseResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	TimeLabel string          `json:"time"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
}

func toExpenseResponse(tx domain.Transaction) expenseResponse {
	return expenseResponse{
		ID:        tx.ID,
		Title:     tx.Title,
		Amount:    tx.Amount,
		Category:  tx.Category,
		Date:      tx.Date,
		TimeLabel: tx.TimeLabel,
		Icon:      tx.Icon,
		Color:     tx.Color,
	}
}

// CreateExpense handles POST /api/expenses
func (h *ExpensesHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.svc.AddExpense(ctx, middleware.OwnerID(ctx), req.Title, req.Amount, req.Category, req.Date)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create expense")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toExpenseResponse(tx))
}

// UpdateExpense handles PUT /api/expenses/:id
func (h *ExpensesHandler) UpdateExpense(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.svc.UpdateExpense(ctx, middleware.OwnerID(ctx), id, req.Title, req.Amount, req.Category, req.Date)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update expense")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toExpenseResponse(tx))
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	if err := h.svc.DeleteExpense(ctx, middleware.OwnerID(ctx), id); err != nil {
		h.writeServiceError(w, err, "Failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DailyExpenses handles GET /api/expenses/daily?date=2006-01-02
func (h *ExpensesHandler) DailyExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day, err := queryDate(r, "date", time.Now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD")
		return
	}

	txs, err := h.svc.DailyExpenses(ctx, middleware.OwnerID(ctx), day)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list expenses")
		return
	}
	total, err := h.svc.DailyTotal(ctx, middleware.OwnerID(ctx), day)
	if err != nil {
		h.writeServiceError(w, err, "Failed to total expenses")
		return
	}

	items := make([]expenseResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toExpenseResponse(tx))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":     day.Format(dateLayout),
		"expenses": items,
		"total":    total,
	})
}

// MonthlyExpenses handles GET /api/expenses/months
func (h *ExpensesHandler) MonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	grouped, err := h.svc.ExpensesGroupedByMonth(ctx, middleware.OwnerID(ctx))
	if err != nil {
		h.writeServiceError(w, err, "Failed to group expenses")
		return
	}

	months := make(map[string][]expenseResponse, len(grouped))
	for month, txs := range grouped {
		items := make([]expenseResponse, 0, len(txs))
		for _, tx := range txs {
			items = append(items, toExpenseResponse(tx))
		}
		months[month] = items
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"months": months,
		"count":  len(months),
	})
}

type incomeRequest struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// CreateIncome handles POST /api/incomes
func (h *ExpensesHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in, err := h.svc.AddIncome(ctx, middleware.OwnerID(ctx), req.Title, req.Amount, req.Date)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create income")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, in)
}

// ListIncomes handles GET /api/incomes
func (h *ExpensesHandler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	incomes, err := h.svc.Incomes(ctx, middleware.OwnerID(ctx))
	if err != nil {
		h.writeServiceError(w, err, "Failed to list incomes")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"incomes": incomes,
		"count":   len(incomes),
	})
}

func (h *ExpensesHandler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	writeServiceError(w, h.log, err, msg)
}

// writeServiceError maps the error taxonomy to HTTP status codes.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, msg string) {
	var invalid *domain.InvalidRecordError
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		middleware.WriteError(w, http.StatusUnauthorized, "Owner identity is required")
	case errors.As(err, &invalid):
		middleware.WriteError(w, http.StatusBadRequest, invalid.Error())
	case errors.Is(err, domain.ErrInvalidRecord):
		middleware.WriteError(w, http.StatusBadRequest, "Invalid record")
	case errors.Is(err, domain.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrExternalService):
		log.Error().Err(err).Msg(msg)
		middleware.WriteError(w, http.StatusBadGateway, msg)
	default:
		log.Error().Err(err).Msg(msg)
		middleware.WriteError(w, http.StatusInternalServerError, msg)
	}
}

// queryDate parses a YYYY-MM-DD query parameter, falling back to def when
// the parameter is absent.
func queryDate(r *http.Request, key string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return time.Parse(dateLayout, raw)
}
