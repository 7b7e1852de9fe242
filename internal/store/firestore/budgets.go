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

type categoryBudgetRow struct {
	Category string  `firestore:"category"`
	Amount   float64 `firestore:"amount"`
	Icon     string  `firestore:"icon"`
	Color    string  `firestore:"color"`
}

type budgetSettingsRow struct {
	OwnerID         string              `firestore:"ownerId"`
	MonthlyBudget   float64             `firestore:"monthlyBudget"`
	CategoryBudgets []categoryBudgetRow `firestore:"categoryBudgets"`
	CreatedAt       time.Time           `firestore:"createdAt"`
	UpdatedAt       time.Time           `firestore:"updatedAt"`
}

func toBudgetRow(s domain.BudgetSettings) budgetSettingsRow {
	row := budgetSettingsRow{
		OwnerID:       s.OwnerID,
		MonthlyBudget: s.MonthlyBudget.InexactFloat64(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, cb := range s.CategoryBudgets {
		row.CategoryBudgets = append(row.CategoryBudgets, categoryBudgetRow{
			Category: cb.Category,
			Amount:   cb.Amount.InexactFloat64(),
			Icon:     cb.Icon,
			Color:    cb.Color,
		})
	}
	return row
}

func (r budgetSettingsRow) toDomain(id string) domain.BudgetSettings {
	s := domain.BudgetSettings{
		ID:            id,
		OwnerID:       r.OwnerID,
		MonthlyBudget: decimal.NewFromFloat(r.MonthlyBudget),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	for _, cb := range r.CategoryBudgets {
		s.CategoryBudgets = append(s.CategoryBudgets, domain.CategoryBudget{
			Category: cb.Category,
			Amount:   decimal.NewFromFloat(cb.Amount),
			Icon:     cb.Icon,
			Color:    cb.Color,
		})
	}
	return s
}

type budgetRepo struct{ c *Client }

// Current fetches the most recently updated settings document of the owner.
func (r *budgetRepo) Current(ctx context.Context, ownerID string) (domain.BudgetSettings, error) {
	it := r.c.run(ctx, store.CollectionBudgetSettings, store.Query{
		Filters: []store.Filter{{Field: "ownerId", Op: store.OpEqual, Value: ownerID}},
		OrderBy: "updatedAt",
		Desc:    true,
		Limit:   1,
	})
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return domain.BudgetSettings{}, fmt.Errorf("Current: settings for owner: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.BudgetSettings{}, fmt.Errorf("Current: settings query: %w: %w", domain.ErrStore, err)
	}

	var row budgetSettingsRow
	if err := snap.DataTo(&row); err != nil {
		return domain.BudgetSettings{}, fmt.Errorf("Current: decoding settings %s: %w: %w", snap.Ref.ID, domain.ErrStore, err)
	}
	return row.toDomain(snap.Ref.ID), nil
}

func (r *budgetRepo) Save(ctx context.Context, settings domain.BudgetSettings) (string, error) {
	if err := settings.Validate(); err != nil {
		return "", err
	}
	col := r.c.fs.Collection(store.CollectionBudgetSettings)
	if settings.ID == "" {
		ref, _, err := col.Add(ctx, toBudgetRow(settings))
		if err != nil {
			return "", fmt.Errorf("Save: adding settings: %w: %w", domain.ErrStore, err)
		}
		return ref.ID, nil
	}
	if _, err := col.Doc(settings.ID).Set(ctx, toBudgetRow(settings)); err != nil {
		return "", fmt.Errorf("Save: overwriting settings %s: %w: %w", settings.ID, domain.ErrStore, err)
	}
	return settings.ID, nil
}
