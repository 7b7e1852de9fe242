// Package store defines the record-store contract the engine reads and
// writes through. The store holds one document per record, keyed by the
// field names of the domain model (id, ownerId, title, amount, category,
// date, time, icon, color, ...), with dates stored as timestamps comparable
// for range queries. Implementations provide per-document atomic writes and
// filtered, sorted queries; nothing here requires multi-document
// transactions.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// Collection names shared by implementations.
const (
	CollectionExpenses       = "expenses"
	CollectionIncomes        = "incomes"
	CollectionBudgetSettings = "budgetSettings"
	CollectionInsights       = "insights"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEqual        Op = "=="
	OpGreaterEqual Op = ">="
	OpLessEqual    Op = "<="
	OpLess         Op = "<"
)

// Filter is one field comparison; filters within a query compose with AND.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a filtered, sorted, bounded read of a collection.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// DecodeFailure tags a document that could not be decoded into its domain
// type. Queries return decode failures alongside the records that did
// decode; callers decide to log and skip, they never lose them silently.
type DecodeFailure struct {
	DocID string
	Err   error
}

func (f DecodeFailure) String() string {
	return fmt.Sprintf("doc %s: %v", f.DocID, f.Err)
}

// TransactionRepository is typed access to the expenses collection.
type TransactionRepository interface {
	// Create writes a new transaction and returns the generated id.
	Create(ctx context.Context, tx domain.Transaction) (string, error)
	// Set fully overwrites the transaction with the given id.
	Set(ctx context.Context, id string, tx domain.Transaction) error
	Delete(ctx context.Context, id string) error

	// ListByDateRange returns the owner's transactions with date in
	// [start, end), ordered by date ascending.
	ListByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, []DecodeFailure, error)
	// ListAll returns every transaction of the owner, ordered by date
	// ascending.
	ListAll(ctx context.Context, ownerID string) ([]domain.Transaction, []DecodeFailure, error)
}

// IncomeRepository is typed access to the incomes collection.
type IncomeRepository interface {
	Create(ctx context.Context, in domain.Income) (string, error)
	ListAll(ctx context.Context, ownerID string) ([]domain.Income, []DecodeFailure, error)
}

// BudgetRepository is typed access to the budgetSettings collection.
type BudgetRepository interface {
	// Current returns the owner's most recently updated settings object, or
	// domain.ErrNotFound when none exists. Lazy default creation is the
	// caller's policy, not the store's.
	Current(ctx context.Context, ownerID string) (domain.BudgetSettings, error)
	// Save creates the settings when ID is empty, otherwise overwrites the
	// existing document. It returns the document id.
	Save(ctx context.Context, settings domain.BudgetSettings) (string, error)
}

// InsightRepository is typed access to the insights collection. Insights
// are append-only; there is no update or delete.
type InsightRepository interface {
	Create(ctx context.Context, in domain.Insight) (string, error)
	// Recent returns up to limit insights of the owner ordered by date
	// descending. An empty result is a valid state, not an error.
	Recent(ctx context.Context, ownerID string, limit int) ([]domain.Insight, []DecodeFailure, error)
}
