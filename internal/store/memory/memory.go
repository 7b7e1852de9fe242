// Package memory provides an in-memory record store for tests and
// single-process local runs. It is safe for concurrent use and mirrors the
// query semantics of the Firestore-backed implementation: half-open date
// ranges, ascending date order for lists, descending date order for recent
// insights.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// Store holds every collection behind one lock. Each write touches exactly
// one record, matching the single-document atomicity of the real store.
type Store struct {
	mu       sync.RWMutex
	txs      []domain.Transaction
	incomes  []domain.Income
	budgets  []domain.BudgetSettings
	insights []domain.Insight
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Transactions returns the expenses collection view.
func (s *Store) Transactions() store.TransactionRepository { return &transactionRepo{s} }

// Incomes returns the incomes collection view.
func (s *Store) Incomes() store.IncomeRepository { return &incomeRepo{s} }

// Budgets returns the budgetSettings collection view.
func (s *Store) Budgets() store.BudgetRepository { return &budgetRepo{s} }

// Insights returns the insights collection view.
func (s *Store) Insights() store.InsightRepository { return &insightRepo{s} }

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(_ context.Context, tx domain.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx.ID = uuid.NewString()
	r.s.txs = append(r.s.txs, tx)
	return tx.ID, nil
}

func (r *transactionRepo) Set(_ context.Context, id string, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.txs {
		if r.s.txs[i].ID == id {
			tx.ID = id
			r.s.txs[i] = tx
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *transactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.txs {
		if r.s.txs[i].ID == id {
			r.s.txs = append(r.s.txs[:i], r.s.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *transactionRepo) ListByDateRange(_ context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, []store.DecodeFailure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Transaction
	for _, tx := range r.s.txs {
		if tx.OwnerID != ownerID {
			continue
		}
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}
	sortByDateAsc(out)
	return out, nil, nil
}

func (r *transactionRepo) ListAll(_ context.Context, ownerID string) ([]domain.Transaction, []store.DecodeFailure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Transaction
	for _, tx := range r.s.txs {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	sortByDateAsc(out)
	return out, nil, nil
}

type incomeRepo struct{ s *Store }

func (r *incomeRepo) Create(_ context.Context, in domain.Income) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	in.ID = uuid.NewString()
	r.s.incomes = append(r.s.incomes, in)
	return in.ID, nil
}

func (r *incomeRepo) ListAll(_ context.Context, ownerID string) ([]domain.Income, []store.DecodeFailure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Income
	for _, in := range r.s.incomes {
		if in.OwnerID == ownerID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil, nil
}

type budgetRepo struct{ s *Store }

func (r *budgetRepo) Current(_ context.Context, ownerID string) (domain.BudgetSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var current *domain.BudgetSettings
	for i := range r.s.budgets {
		b := &r.s.budgets[i]
		if b.OwnerID != ownerID {
			continue
		}
		if current == nil || b.UpdatedAt.After(current.UpdatedAt) {
			current = b
		}
	}
	if current == nil {
		return domain.BudgetSettings{}, domain.ErrNotFound
	}
	return *current, nil
}

func (r *budgetRepo) Save(_ context.Context, settings domain.BudgetSettings) (string, error) {
	if err := settings.Validate(); err != nil {
		return "", err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if settings.ID == "" {
		settings.ID = uuid.NewString()
		r.s.budgets = append(r.s.budgets, settings)
		return settings.ID, nil
	}
	for i := range r.s.budgets {
		if r.s.budgets[i].ID == settings.ID {
			r.s.budgets[i] = settings
			return settings.ID, nil
		}
	}
	r.s.budgets = append(r.s.budgets, settings)
	return settings.ID, nil
}

type insightRepo struct{ s *Store }

func (r *insightRepo) Create(_ context.Context, in domain.Insight) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	in.ID = uuid.NewString()
	r.s.insights = append(r.s.insights, in)
	return in.ID, nil
}

func (r *insightRepo) Recent(_ context.Context, ownerID string, limit int) ([]domain.Insight, []store.DecodeFailure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Insight
	for _, in := range r.s.insights {
		if in.OwnerID == ownerID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func sortByDateAsc(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
}
