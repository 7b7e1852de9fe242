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

type incomeRow struct {
	OwnerID string    `firestore:"ownerId"`
	Title   string    `firestore:"title"`
	Amount  float64   `firestore:"amount"`
	Date    time.Time `firestore:"date"`
}

type incomeRepo struct{ c *Client }

func (r *incomeRepo) Create(ctx context.Context, in domain.Income) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	row := incomeRow{
		OwnerID: in.OwnerID,
		Title:   in.Title,
		Amount:  in.Amount.InexactFloat64(),
		Date:    in.Date,
	}
	ref, _, err := r.c.fs.Collection(store.CollectionIncomes).Add(ctx, row)
	if err != nil {
		return "", fmt.Errorf("Create: adding income: %w: %w", domain.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *incomeRepo) ListAll(ctx context.Context, ownerID string) ([]domain.Income, []store.DecodeFailure, error) {
	it := r.c.run(ctx, store.CollectionIncomes, store.Query{
		Filters: []store.Filter{{Field: "ownerId", Op: store.OpEqual, Value: ownerID}},
		OrderBy: "date",
	})
	defer it.Stop()

	var (
		incomes  []domain.Income
		failures []store.DecodeFailure
	)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("ListAll: incomes query: %w: %w", domain.ErrStore, err)
		}
		var row incomeRow
		if err := snap.DataTo(&row); err != nil {
			failures = append(failures, store.DecodeFailure{DocID: snap.Ref.ID, Err: err})
			continue
		}
		incomes = append(incomes, domain.Income{
			ID:      snap.Ref.ID,
			OwnerID: row.OwnerID,
			Title:   row.Title,
			Amount:  decimal.NewFromFloat(row.Amount),
			Date:    row.Date,
		})
	}
	return incomes, failures, nil
}
