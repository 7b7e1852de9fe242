package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

func TestTransactionDateRangeIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := New()
	repo := s.Transactions()

	dayStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, date := range []time.Time{
		dayStart,                     // inclusive lower bound
		dayStart.Add(13 * time.Hour), // inside
		dayEnd,                       // exclusive upper bound
		dayStart.Add(-time.Minute),   // before
	} {
		tx := domain.NewTransaction("owner-1", "coffee", decimal.NewFromInt(4), "Food", date)
		if _, err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, failures, err := repo.ListByDateRange(ctx, "owner-1", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("ListByDateRange() error = %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected decode failures: %v", failures)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if !got[0].Date.Equal(dayStart) {
		t.Errorf("results should be date ascending, first = %v", got[0].Date)
	}
}

func TestTransactionOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	repo := New().Transactions()
	date := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	if _, err := repo.Create(ctx, domain.NewTransaction("owner-1", "mine", decimal.NewFromInt(1), "Food", date)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(ctx, domain.NewTransaction("owner-2", "theirs", decimal.NewFromInt(1), "Food", date)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, _, err := repo.ListAll(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "mine" {
		t.Errorf("owner-1 should only see their own records, got %v", got)
	}
}

func TestTransactionSetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := New().Transactions()
	date := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	id, err := repo.Create(ctx, domain.NewTransaction("owner-1", "lunch", decimal.NewFromInt(10), "Food", date))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated := domain.NewTransaction("owner-1", "dinner", decimal.NewFromInt(25), "Food", date)
	if err := repo.Set(ctx, id, updated); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _, _ := repo.ListAll(ctx, "owner-1")
	if len(got) != 1 || got[0].Title != "dinner" {
		t.Fatalf("after Set, got %v", got)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete should be ErrNotFound, got %v", err)
	}
}

func TestBudgetCurrentPicksMostRecentlyUpdated(t *testing.T) {
	ctx := context.Background()
	repo := New().Budgets()

	if _, err := repo.Current(ctx, "owner-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Current() on empty store = %v, want ErrNotFound", err)
	}

	older := domain.DefaultBudgetSettings("owner-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := domain.DefaultBudgetSettings("owner-1", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	newer.MonthlyBudget = decimal.NewFromInt(500)

	if _, err := repo.Save(ctx, older); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	current, err := repo.Current(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !current.MonthlyBudget.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Current() monthly budget = %s, want 500", current.MonthlyBudget)
	}
}

func TestInsightRecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := New().Insights()

	for day := 1; day <= 7; day++ {
		in := domain.Insight{
			OwnerID: "owner-1",
			Date:    time.Date(2025, 3, day, 8, 0, 0, 0, time.UTC),
			Text:    "day insight",
		}
		if _, err := repo.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, _, err := repo.Recent(ctx, "owner-1", 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d insights, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("insights not ordered by date descending: %v", got)
		}
	}
	if got[0].Date.Day() != 7 {
		t.Errorf("most recent insight day = %d, want 7", got[0].Date.Day())
	}
}
