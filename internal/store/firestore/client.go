// Package firestore implements the record store contract on Cloud
// Firestore. Each domain record is one document; writes are atomic at the
// document level, and the filtered/sorted queries of the contract map
// directly onto Firestore queries.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"

	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// Client wraps a shared Firestore connection and hands out the typed
// repositories. Creating one client per process avoids a new connection per
// operation.
type Client struct {
	fs *fs.Client
}

// NewClient connects to the given project.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	client, err := fs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewClient: firestore client: %w", err)
	}
	return &Client{fs: client}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.fs != nil {
		return c.fs.Close()
	}
	return nil
}

// Transactions returns the expenses collection repository.
func (c *Client) Transactions() store.TransactionRepository { return &transactionRepo{c} }

// Incomes returns the incomes collection repository.
func (c *Client) Incomes() store.IncomeRepository { return &incomeRepo{c} }

// Budgets returns the budgetSettings collection repository.
func (c *Client) Budgets() store.BudgetRepository { return &budgetRepo{c} }

// Insights returns the insights collection repository.
func (c *Client) Insights() store.InsightRepository { return &insightRepo{c} }

// run translates the generic query contract into a Firestore read.
func (c *Client) run(ctx context.Context, collection string, q store.Query) *fs.DocumentIterator {
	query := c.fs.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := fs.Asc
		if q.Desc {
			dir = fs.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query.Documents(ctx)
}
