// Package finance is the owner-scoped write and read surface over the
// record store. It derives the presentation fields on writes (time label,
// icon, color) so every stored record carries them, and it leans on the
// analytics package for totals.
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/analytics"
	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// Service executes finance operations for authenticated owners.
type Service struct {
	transactions store.TransactionRepository
	incomes      store.IncomeRepository
	aggregator   *analytics.Aggregator
	log          zerolog.Logger
}

// NewService wires a Service over the given repositories.
func NewService(transactions store.TransactionRepository, incomes store.IncomeRepository, log zerolog.Logger) *Service {
	return &Service{
		transactions: transactions,
		incomes:      incomes,
		aggregator:   analytics.New(),
		log:          log,
	}
}

// AddExpense validates and stores a new expense, deriving the time label
// and the category icon and color from the inputs.
func (s *Service) AddExpense(ctx context.Context, ownerID, title string, amount decimal.Decimal, category string, date time.Time) (domain.Transaction, error) {
	if ownerID == "" {
		return domain.Transaction{}, fmt.Errorf("AddExpense: %w", domain.ErrAuthRequired)
	}
	tx := domain.NewTransaction(ownerID, title, amount, category, date)
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("AddExpense: %w", err)
	}
	id, err := s.transactions.Create(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("AddExpense: %w", err)
	}
	tx.ID = id
	s.log.Debug().Str("owner_id", ownerID).Str("expense_id", id).Str("category", tx.Category).Msg("expense added")
	return tx, nil
}

// UpdateExpense overwrites the expense with the given id, re-deriving the
// presentation fields from the new values.
func (s *Service) UpdateExpense(ctx context.Context, ownerID, id, title string, amount decimal.Decimal, category string, date time.Time) (domain.Transaction, error) {
	if ownerID == "" {
		return domain.Transaction{}, fmt.Errorf("UpdateExpense: %w", domain.ErrAuthRequired)
	}
	tx := domain.NewTransaction(ownerID, title, amount, category, date)
	tx.ID = id
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("UpdateExpense: %w", err)
	}
	if err := s.transactions.Set(ctx, id, tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("UpdateExpense: %w", err)
	}
	return tx, nil
}

// DeleteExpense removes the expense with the given id.
func (s *Service) DeleteExpense(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return fmt.Errorf("DeleteExpense: %w", domain.ErrAuthRequired)
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteExpense: %w", err)
	}
	return nil
}

// DailyExpenses returns the owner's expenses on the given calendar day,
// ordered by date ascending.
func (s *Service) DailyExpenses(ctx context.Context, ownerID string, day time.Time) ([]domain.Transaction, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("DailyExpenses: %w", domain.ErrAuthRequired)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	txs, failures, err := s.transactions.ListByDateRange(ctx, ownerID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("DailyExpenses: %w", err)
	}
	s.logDecodeFailures(ownerID, failures)
	return txs, nil
}

// AllExpenses returns every expense of the owner, ordered by date
// ascending.
func (s *Service) AllExpenses(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("AllExpenses: %w", domain.ErrAuthRequired)
	}
	txs, failures, err := s.transactions.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("AllExpenses: %w", err)
	}
	s.logDecodeFailures(ownerID, failures)
	return txs, nil
}

// ExpensesGroupedByMonth returns the owner's expenses keyed by year-month,
// with only months that have expenses present.
func (s *Service) ExpensesGroupedByMonth(ctx context.Context, ownerID string) (map[string][]domain.Transaction, error) {
	txs, err := s.AllExpenses(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ExpensesGroupedByMonth: %w", err)
	}
	grouped, err := s.aggregator.ByMonth(txs)
	if err != nil {
		return nil, fmt.Errorf("ExpensesGroupedByMonth: %w", err)
	}
	return grouped, nil
}

// AddIncome validates and stores a new income record.
func (s *Service) AddIncome(ctx context.Context, ownerID, title string, amount decimal.Decimal, date time.Time) (domain.Income, error) {
	if ownerID == "" {
		return domain.Income{}, fmt.Errorf("AddIncome: %w", domain.ErrAuthRequired)
	}
	in := domain.Income{OwnerID: ownerID, Title: title, Amount: amount, Date: date}
	if err := in.Validate(); err != nil {
		return domain.Income{}, fmt.Errorf("AddIncome: %w", err)
	}
	id, err := s.incomes.Create(ctx, in)
	if err != nil {
		return domain.Income{}, fmt.Errorf("AddIncome: %w", err)
	}
	in.ID = id
	return in, nil
}

// Incomes returns every income record of the owner.
func (s *Service) Incomes(ctx context.Context, ownerID string) ([]domain.Income, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("Incomes: %w", domain.ErrAuthRequired)
	}
	ins, failures, err := s.incomes.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Incomes: %w", err)
	}
	s.logDecodeFailures(ownerID, failures)
	return ins, nil
}

// DailyTotal sums the owner's expenses on the given calendar day.
func (s *Service) DailyTotal(ctx context.Context, ownerID string, day time.Time) (decimal.Decimal, error) {
	txs, err := s.DailyExpenses(ctx, ownerID, day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("DailyTotal: %w", err)
	}
	return analytics.Total(txs), nil
}

// MonthlyTotal sums the owner's expenses in the given calendar month.
func (s *Service) MonthlyTotal(ctx context.Context, ownerID string, month time.Time) (decimal.Decimal, error) {
	if ownerID == "" {
		return decimal.Zero, fmt.Errorf("MonthlyTotal: %w", domain.ErrAuthRequired)
	}
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	txs, failures, err := s.transactions.ListByDateRange(ctx, ownerID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return decimal.Zero, fmt.Errorf("MonthlyTotal: %w", err)
	}
	s.logDecodeFailures(ownerID, failures)
	return analytics.Total(txs), nil
}

func (s *Service) logDecodeFailures(ownerID string, failures []store.DecodeFailure) {
	for _, f := range failures {
		s.log.Warn().
			Str("owner_id", ownerID).
			Str("doc_id", f.DocID).
			Err(f.Err).
			Msg("skipping undecodable record")
	}
}
