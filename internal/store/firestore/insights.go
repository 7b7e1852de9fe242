package firestore

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/iterator"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store"
)

type insightRow struct {
	OwnerID                string    `firestore:"ownerId"`
	Date                   time.Time `firestore:"date"`
	InsightText            string    `firestore:"insightText"`
	AnalyzedTransactionIDs []string  `firestore:"analyzedTransactionIds"`
	PreviousContextText    string    `firestore:"previousContextText"`
}

type insightRepo struct{ c *Client }

func (r *insightRepo) Create(ctx context.Context, in domain.Insight) (string, error) {
	row := insightRow{
		OwnerID:                in.OwnerID,
		Date:                   in.Date,
		InsightText:            in.Text,
		AnalyzedTransactionIDs: in.AnalyzedTransactionIDs,
		PreviousContextText:    in.PreviousContext,
	}
	ref, _, err := r.c.fs.Collection(store.CollectionInsights).Add(ctx, row)
	if err != nil {
		return "", fmt.Errorf("Create: adding insight: %w: %w", domain.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *insightRepo) Recent(ctx context.Context, ownerID string, limit int) ([]domain.Insight, []store.DecodeFailure, error) {
	it := r.c.run(ctx, store.CollectionInsights, store.Query{
		Filters: []store.Filter{{Field: "ownerId", Op: store.OpEqual, Value: ownerID}},
		OrderBy: "date",
		Desc:    true,
		Limit:   limit,
	})
	defer it.Stop()

	var (
		insights []domain.Insight
		failures []store.DecodeFailure
	)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("Recent: insights query: %w: %w", domain.ErrStore, err)
		}
		var row insightRow
		if err := snap.DataTo(&row); err != nil {
			failures = append(failures, store.DecodeFailure{DocID: snap.Ref.ID, Err: err})
			continue
		}
		insights = append(insights, domain.Insight{
			ID:                     snap.Ref.ID,
			OwnerID:                row.OwnerID,
			Date:                   row.Date,
			Text:                   row.InsightText,
			AnalyzedTransactionIDs: row.AnalyzedTransactionIDs,
			PreviousContext:        row.PreviousContextText,
		})
	}
	return insights, failures, nil
}
