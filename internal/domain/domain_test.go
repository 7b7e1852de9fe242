package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2025, 3, 10, 19, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		field   string
	}{
		{
			name: "valid",
			tx:   NewTransaction("owner-1", "Lunch", decimal.NewFromInt(12), "Food", date),
		},
		{
			name:    "missing owner",
			tx:      NewTransaction("", "Lunch", decimal.NewFromInt(12), "Food", date),
			wantErr: true,
			field:   "ownerId",
		},
		{
			name:    "empty title",
			tx:      NewTransaction("owner-1", "", decimal.NewFromInt(12), "Food", date),
			wantErr: true,
			field:   "title",
		},
		{
			name:    "negative amount",
			tx:      NewTransaction("owner-1", "Lunch", decimal.NewFromInt(-5), "Food", date),
			wantErr: true,
			field:   "amount",
		},
		{
			name:    "zero date",
			tx:      Transaction{OwnerID: "owner-1", Title: "Lunch", Amount: decimal.NewFromInt(5)},
			wantErr: true,
			field:   "date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected error to unwrap to ErrInvalidRecord, got %v", err)
			}
			var ire *InvalidRecordError
			if !errors.As(err, &ire) || ire.Field != tt.field {
				t.Errorf("expected InvalidRecordError on field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestNewTransactionDerivedFields(t *testing.T) {
	date := time.Date(2025, 3, 10, 19, 45, 0, 0, time.UTC)
	tx := NewTransaction("owner-1", "Bus ticket", decimal.NewFromInt(3), "Transport", date)

	if tx.TimeLabel != "07:45 PM" {
		t.Errorf("TimeLabel = %q, want %q", tx.TimeLabel, "07:45 PM")
	}
	if tx.Icon != "car" || tx.Color != "#60A5FA" {
		t.Errorf("style = (%q, %q), want (car, #60A5FA)", tx.Icon, tx.Color)
	}
}

func TestCategoryStyle(t *testing.T) {
	tests := []struct {
		category string
		icon     string
		color    string
	}{
		{"Food", "fork-knife", "#FF8E8E"},
		{"Transport", "car", "#60A5FA"},
		{"Shopping", "cart", "#8B5CF6"},
		{"Bills", "doc", "#F59E0B"},
		{"Entertainment", "tv", "#10B981"},
		{"Gibberish", "card", "#6B7280"},
		{"", "card", "#6B7280"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			icon, color := CategoryStyle(tt.category)
			if icon != tt.icon || color != tt.color {
				t.Errorf("CategoryStyle(%q) = (%q, %q), want (%q, %q)",
					tt.category, icon, color, tt.icon, tt.color)
			}
		})
	}
}

func TestDefaultBudgetSettings(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	settings := DefaultBudgetSettings("owner-1", now)

	if err := settings.Validate(); err != nil {
		t.Fatalf("default settings should be valid, got %v", err)
	}
	if !settings.MonthlyBudget.IsZero() {
		t.Errorf("MonthlyBudget = %s, want 0", settings.MonthlyBudget)
	}
	if len(settings.CategoryBudgets) != len(KnownCategories) {
		t.Fatalf("got %d category budgets, want %d", len(settings.CategoryBudgets), len(KnownCategories))
	}
	for i, cb := range settings.CategoryBudgets {
		if cb.Category != KnownCategories[i] {
			t.Errorf("category[%d] = %q, want %q", i, cb.Category, KnownCategories[i])
		}
		if !cb.Amount.IsZero() {
			t.Errorf("category %q amount = %s, want 0", cb.Category, cb.Amount)
		}
	}
}

func TestBudgetSettingsValidateDuplicateCategory(t *testing.T) {
	now := time.Now()
	settings := DefaultBudgetSettings("owner-1", now)
	settings.CategoryBudgets = append(settings.CategoryBudgets, settings.CategoryBudgets[0])

	if err := settings.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for duplicate category, got %v", err)
	}
}
