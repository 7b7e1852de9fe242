package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewService(st.Transactions(), st.Incomes(), zerolog.Nop()), st
}

func TestAddExpenseDerivesPresentationFields(t *testing.T) {
	svc, _ := newTestService(t)
	date := time.Date(2024, time.March, 12, 14, 30, 0, 0, time.UTC)

	tx, err := svc.AddExpense(context.Background(), "u1", "Coffee", decimal.NewFromFloat(4.50), "Food", date)
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if tx.ID == "" {
		t.Error("expected generated id")
	}
	if tx.TimeLabel != "02:30 PM" {
		t.Errorf("TimeLabel = %q, want 02:30 PM", tx.TimeLabel)
	}
	if tx.Icon != "fork-knife" || tx.Color != "#FF8E8E" {
		t.Errorf("style = %q/%q, want Food style", tx.Icon, tx.Color)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	svc, _ := newTestService(t)
	date := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	if _, err := svc.AddExpense(context.Background(), "", "Coffee", decimal.NewFromInt(4), "Food", date); !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("empty owner err = %v, want ErrAuthRequired", err)
	}
	if _, err := svc.AddExpense(context.Background(), "u1", "", decimal.NewFromInt(4), "Food", date); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("empty title err = %v, want ErrInvalidRecord", err)
	}
	if _, err := svc.AddExpense(context.Background(), "u1", "Coffee", decimal.NewFromInt(-4), "Food", date); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("negative amount err = %v, want ErrInvalidRecord", err)
	}
}

func TestUpdateExpenseRederivesStyle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	tx, err := svc.AddExpense(ctx, "u1", "Coffee", decimal.NewFromInt(4), "Food", date)
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	updated, err := svc.UpdateExpense(ctx, "u1", tx.ID, "Taxi", decimal.NewFromInt(12), "Transport", date.Add(time.Hour))
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Icon != "car" || updated.Color != "#60A5FA" {
		t.Errorf("style = %q/%q, want Transport style", updated.Icon, updated.Color)
	}

	stored, err := svc.DailyExpenses(ctx, "u1", date)
	if err != nil {
		t.Fatalf("DailyExpenses: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "Taxi" {
		t.Errorf("stored = %+v, want the updated expense", stored)
	}
}

func TestDeleteExpense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	tx, err := svc.AddExpense(ctx, "u1", "Coffee", decimal.NewFromInt(4), "Food", date)
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := svc.DeleteExpense(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := svc.DeleteExpense(ctx, "u1", tx.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDailyExpensesBoundsAreHalfOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)

	mustAdd := func(title string, at time.Time) {
		t.Helper()
		if _, err := svc.AddExpense(ctx, "u1", title, decimal.NewFromInt(1), "Food", at); err != nil {
			t.Fatalf("AddExpense %s: %v", title, err)
		}
	}
	mustAdd("midnight", day)
	mustAdd("evening", day.Add(23*time.Hour))
	mustAdd("next midnight", day.AddDate(0, 0, 1))

	got, err := svc.DailyExpenses(ctx, "u1", day.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("DailyExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (next midnight excluded)", len(got))
	}
	if got[0].Title != "midnight" || got[1].Title != "evening" {
		t.Errorf("order = %q, %q, want date ascending", got[0].Title, got[1].Title)
	}
}

func TestExpensesGroupedByMonthIsSparse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	jan := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{jan, jan.AddDate(0, 0, 1), mar} {
		if _, err := svc.AddExpense(ctx, "u1", "x", decimal.NewFromInt(1), "Food", at); err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}

	grouped, err := svc.ExpensesGroupedByMonth(ctx, "u1")
	if err != nil {
		t.Fatalf("ExpensesGroupedByMonth: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("months = %d, want 2 (February absent, not empty)", len(grouped))
	}
	if len(grouped["2024-01"]) != 2 || len(grouped["2024-03"]) != 1 {
		t.Errorf("grouped = %v, want 2 in 2024-01 and 1 in 2024-03", grouped)
	}
	if _, ok := grouped["2024-02"]; ok {
		t.Error("2024-02 present, want sparse grouping")
	}
}

func TestIncomes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.AddIncome(ctx, "u1", "Salary", decimal.NewFromInt(3000), date); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := svc.AddIncome(ctx, "u1", "", decimal.NewFromInt(10), date); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("empty title err = %v, want ErrInvalidRecord", err)
	}

	got, err := svc.Incomes(ctx, "u1")
	if err != nil {
		t.Fatalf("Incomes: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Salary" {
		t.Errorf("incomes = %+v, want the one valid record", got)
	}
}

func TestTotals(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	amounts := []struct {
		amount float64
		at     time.Time
	}{
		{4.50, day},
		{5.50, day.Add(2 * time.Hour)},
		{20, day.AddDate(0, 0, 3)},  // same month, other day
		{99, day.AddDate(0, -1, 0)}, // previous month
	}
	for _, a := range amounts {
		if _, err := svc.AddExpense(ctx, "u1", "x", decimal.NewFromFloat(a.amount), "Food", a.at); err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}

	daily, err := svc.DailyTotal(ctx, "u1", day)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if !daily.Equal(decimal.NewFromInt(10)) {
		t.Errorf("DailyTotal = %s, want 10", daily)
	}

	monthly, err := svc.MonthlyTotal(ctx, "u1", day)
	if err != nil {
		t.Fatalf("MonthlyTotal: %v", err)
	}
	if !monthly.Equal(decimal.NewFromInt(30)) {
		t.Errorf("MonthlyTotal = %s, want 30", monthly)
	}
}

func TestOwnerScoping(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

	if _, err := svc.AddExpense(ctx, "u1", "mine", decimal.NewFromInt(5), "Food", day); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, "u2", "theirs", decimal.NewFromInt(7), "Food", day); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	got, err := svc.DailyExpenses(ctx, "u1", day)
	if err != nil {
		t.Fatalf("DailyExpenses: %v", err)
	}
	if len(got) != 1 || got[0].Title != "mine" {
		t.Errorf("got %+v, want only u1's expense", got)
	}
}
