package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KnownCategories are the categories a default budget is seeded with, in
// display order.
var KnownCategories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment"}

// categoryStyles maps a category to its presentation icon and color. The
// table is static; unknown categories fall back to the card style.
var categoryStyles = map[string][2]string{
	"Food":          {"fork-knife", "#FF8E8E"},
	"Transport":     {"car", "#60A5FA"},
	"Shopping":      {"cart", "#8B5CF6"},
	"Bills":         {"doc", "#F59E0B"},
	"Entertainment": {"tv", "#10B981"},
}

// CategoryStyle returns the icon and color for a category.
func CategoryStyle(category string) (icon, color string) {
	if s, ok := categoryStyles[category]; ok {
		return s[0], s[1]
	}
	return "card", "#6B7280"
}

// CategoryBudget is a per-category spending limit. The category name is the
// identity of the entry within a settings object; icon and color are carried
// for presentation only.
type CategoryBudget struct {
	Category string
	Amount   decimal.Decimal
	Icon     string
	Color    string
}

// BudgetSettings is an owner's budget configuration. Exactly one settings
// object is considered current per owner: the most recently updated one.
type BudgetSettings struct {
	ID              string
	OwnerID         string
	MonthlyBudget   decimal.Decimal
	CategoryBudgets []CategoryBudget
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultBudgetSettings builds the zero-valued settings object lazily created
// for owners that have none: one CategoryBudget per known category, amount 0.
func DefaultBudgetSettings(ownerID string, now time.Time) BudgetSettings {
	budgets := make([]CategoryBudget, 0, len(KnownCategories))
	for _, category := range KnownCategories {
		icon, color := CategoryStyle(category)
		budgets = append(budgets, CategoryBudget{
			Category: category,
			Amount:   decimal.Zero,
			Icon:     icon,
			Color:    color,
		})
	}
	return BudgetSettings{
		OwnerID:         ownerID,
		MonthlyBudget:   decimal.Zero,
		CategoryBudgets: budgets,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate checks the settings' domain invariants, including category
// uniqueness within the list.
func (s BudgetSettings) Validate() error {
	if s.OwnerID == "" {
		return &InvalidRecordError{Field: "ownerId", Reason: "must not be empty"}
	}
	if s.MonthlyBudget.IsNegative() {
		return &InvalidRecordError{Field: "monthlyBudget", Reason: "must not be negative"}
	}
	seen := make(map[string]bool, len(s.CategoryBudgets))
	for _, cb := range s.CategoryBudgets {
		if cb.Category == "" {
			return &InvalidRecordError{Field: "categoryBudgets.category", Reason: "must not be empty"}
		}
		if cb.Amount.IsNegative() {
			return &InvalidRecordError{Field: "categoryBudgets.amount", Reason: "must not be negative"}
		}
		if seen[cb.Category] {
			return &InvalidRecordError{Field: "categoryBudgets.category", Reason: "duplicate category " + cb.Category}
		}
		seen[cb.Category] = true
	}
	return nil
}
