package firestore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

// transactionRow is the document shape of one expense. Amounts are stored as
// doubles; the decimal conversion happens at the boundary.
type transactionRow struct {
	OwnerID  string    `firestore:"ownerId"`
	Title    string    `firestore:"title"`
	Amount   float64   `firestore:"amount"`
	Category string    `firestore:"category"`
	Date     time.Time `firestore:"date"`
	Time     string    `firestore:"time"`
	Icon     string    `firestore:"icon"`
	Color    string    `firestore:"color"`
}

func toTransactionRow(tx domain.Transaction) transactionRow {
	return transactionRow{
		OwnerID:  tx.OwnerID,
		Title:    tx.Title,
		Amount:   tx.Amount.InexactFloat64(),
		Category: tx.Category,
		Date:     tx.Date,
		Time:     tx.TimeLabel,
		Icon:     tx.Icon,
		Color:    tx.Color,
	}
}

func (r transactionRow) toDomain(id string) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Amount:    decimal.NewFromFloat(r.Amount),
		Category:  r.Category,
		Date:      r.Date,
		TimeLabel: r.Time,
		Icon:      r.Icon,
		Color:     r.Color,
	}
}

type transactionRepo struct{ c *Client }

func (r *transactionRepo) Create(ctx context.Context, tx domain.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	ref, _, err := r.c.fs.Collection(store.CollectionExpenses).Add(ctx, toTransactionRow(tx))
	if err != nil {
		return "", fmt.Errorf("Create: adding expense: %w: %w", domain.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *transactionRepo) Set(ctx context.Context, id string, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	_, err := r.c.fs.Collection(store.CollectionExpenses).Doc(id).Set(ctx, toTransactionRow(tx))
	if err != nil {
		return fmt.Errorf("Set: overwriting expense %s: %w: %w", id, domain.ErrStore, err)
	}
	return nil
}

func (r *transactionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.c.fs.Collection(store.CollectionExpenses).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("Delete: deleting expense %s: %w: %w", id, domain.ErrStore, err)
	}
	return nil
}

func (r *transactionRepo) ListByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, []store.DecodeFailure, error) {
	return r.list(ctx, store.Query{
		Filters: []store.Filter{
			{Field: "ownerId", Op: store.OpEqual, Value: ownerID},
			{Field: "date", Op: store.OpGreaterEqual, Value: start},
			{Field: "date", Op: store.OpLess, Value: end},
		},
		OrderBy: "date",
	})
}

func (r *transactionRepo) ListAll(ctx context.Context, ownerID string) ([]domain.Transaction, []store.DecodeFailure, error) {
	return r.list(ctx, store.Query{
		Filters: []store.Filter{{Field: "ownerId", Op: store.OpEqual, Value: ownerID}},
		OrderBy: "date",
	})
}

// list runs a query and decodes each document, tagging undecodable ones
// instead of dropping them.
func (r *transactionRepo) list(ctx context.Context, q store.Query) ([]domain.Transaction, []store.DecodeFailure, error) {
	it := r.c.run(ctx, store.CollectionExpenses, q)
	defer it.Stop()

	var (
		txs      []domain.Transaction
		failures []store.DecodeFailure
	)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("list: expenses query: %w: %w", domain.ErrStore, err)
		}
		var row transactionRow
		if err := snap.DataTo(&row); err != nil {
			failures = append(failures, store.DecodeFailure{DocID: snap.Ref.ID, Err: err})
			continue
		}
		txs = append(txs, row.toDomain(snap.Ref.ID))
	}
	return txs, failures, nil
}
