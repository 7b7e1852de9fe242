package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

func tx(t *testing.T, category string, amount int64, date time.Time) domain.Transaction {
	t.Helper()
	return domain.NewTransaction("owner-1", category+" purchase", decimal.NewFromInt(amount), category, date)
}

func TestBucketZeroFill(t *testing.T) {
	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	a := New()

	tests := []struct {
		name        string
		granularity Granularity
		window      int
	}{
		{"daily empty window", Daily, 7},
		{"weekly empty window", Weekly, 4},
		{"monthly empty window", Monthly, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := a.Bucket(nil, tt.granularity, ref, tt.window)
			if err != nil {
				t.Fatalf("Bucket() error = %v", err)
			}
			if len(buckets) != tt.window {
				t.Fatalf("got %d buckets, want %d", len(buckets), tt.window)
			}
			for _, b := range buckets {
				if !b.Total.IsZero() {
					t.Errorf("bucket %s total = %s, want 0", b.Label, b.Total)
				}
			}
		})
	}
}

func TestBucketDaily(t *testing.T) {
	ref := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(t, "Food", 20, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)),
		tx(t, "Food", 10, time.Date(2025, 3, 15, 21, 0, 0, 0, time.UTC)),
		tx(t, "Bills", 50, time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC)),
		// Outside the 7-day window.
		tx(t, "Shopping", 99, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)),
	}

	buckets, err := New().Bucket(txs, Daily, ref, 7)
	if err != nil {
		t.Fatalf("Bucket() error = %v", err)
	}
	if len(buckets) != 7 {
		t.Fatalf("got %d buckets, want 7", len(buckets))
	}

	last := buckets[6]
	if !last.Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("reference-day total = %s, want 30", last.Total)
	}
	if !buckets[4].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("day -2 total = %s, want 50", buckets[4].Total)
	}
	if !buckets[0].Start.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window start = %v, want 2025-03-09", buckets[0].Start)
	}
}

func TestBucketReconciliation(t *testing.T) {
	// The sum over all buckets must equal the total of transactions that
	// fall inside the window.
	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(t, "Food", 20, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)),
		tx(t, "Bills", 35, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)),
		tx(t, "Food", 7, time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)),
		tx(t, "Shopping", 1000, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}

	buckets, err := New().Bucket(txs, Daily, ref, 7)
	if err != nil {
		t.Fatalf("Bucket() error = %v", err)
	}

	bucketSum := decimal.Zero
	for _, b := range buckets {
		bucketSum = bucketSum.Add(b.Total)
	}

	windowStart := buckets[0].Start
	windowEnd := buckets[len(buckets)-1].End
	var inWindow []domain.Transaction
	for _, x := range txs {
		if !x.Date.Before(windowStart) && x.Date.Before(windowEnd) {
			inWindow = append(inWindow, x)
		}
	}
	if !bucketSum.Equal(Total(inWindow)) {
		t.Errorf("bucket sum %s != window total %s", bucketSum, Total(inWindow))
	}
}

func TestBucketHalfOpenIntervals(t *testing.T) {
	// Midnight belongs to the day that starts there, not the one ending.
	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	midnight := tx(t, "Food", 5, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	buckets, err := New().Bucket([]domain.Transaction{midnight}, Daily, ref, 2)
	if err != nil {
		t.Fatalf("Bucket() error = %v", err)
	}
	if !buckets[0].Total.IsZero() {
		t.Errorf("previous day total = %s, want 0", buckets[0].Total)
	}
	if !buckets[1].Total.Equal(decimal.NewFromInt(5)) {
		t.Errorf("reference day total = %s, want 5", buckets[1].Total)
	}
}

func TestBucketWeekStartConvention(t *testing.T) {
	// 2025-03-15 is a Saturday. With a Monday week start the current week
	// begins on 2025-03-10; with Sunday it begins on 2025-03-09.
	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	monday := New()
	buckets, err := monday.Bucket(nil, Weekly, ref, 1)
	if err != nil {
		t.Fatalf("Bucket() error = %v", err)
	}
	if !buckets[0].Start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monday week start = %v, want 2025-03-10", buckets[0].Start)
	}

	sunday := &Aggregator{WeekStart: time.Sunday}
	buckets, err = sunday.Bucket(nil, Weekly, ref, 1)
	if err != nil {
		t.Fatalf("Bucket() error = %v", err)
	}
	if !buckets[0].Start.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("sunday week start = %v, want 2025-03-09", buckets[0].Start)
	}
}

func TestBucketRejectsNegativeAmount(t *testing.T) {
	bad := domain.Transaction{
		OwnerID: "owner-1", Title: "refund gone wrong",
		Amount: decimal.NewFromInt(-10), Category: "Food",
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	_, err := New().Bucket([]domain.Transaction{bad}, Daily, bad.Date, 3)
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestByMonthSparse(t *testing.T) {
	a := New()

	byMonth, err := a.ByMonth(nil)
	if err != nil {
		t.Fatalf("ByMonth() error = %v", err)
	}
	if len(byMonth) != 0 {
		t.Fatalf("empty input should yield empty map, got %d entries", len(byMonth))
	}

	txs := []domain.Transaction{
		tx(t, "Food", 20, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)),
		tx(t, "Bills", 55, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)),
		tx(t, "Food", 10, time.Date(2025, 3, 28, 9, 0, 0, 0, time.UTC)),
	}
	byMonth, err = a.ByMonth(txs)
	if err != nil {
		t.Fatalf("ByMonth() error = %v", err)
	}

	// February has no transactions and must not be materialized.
	if _, ok := byMonth["2025-02"]; ok {
		t.Error("empty month 2025-02 should not be present")
	}
	if len(byMonth) != 2 {
		t.Fatalf("got %d months, want 2", len(byMonth))
	}

	march := byMonth["2025-03"]
	if len(march) != 2 {
		t.Fatalf("got %d march transactions, want 2", len(march))
	}
	// Insertion order equals input order.
	if !march[0].Amount.Equal(decimal.NewFromInt(20)) || !march[1].Amount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("march order = [%s, %s], want [20, 10]", march[0].Amount, march[1].Amount)
	}
}

func TestByHour(t *testing.T) {
	txs := []domain.Transaction{
		tx(t, "Food", 12, time.Date(2025, 3, 15, 9, 15, 0, 0, time.UTC)),
		tx(t, "Food", 8, time.Date(2025, 3, 16, 9, 50, 0, 0, time.UTC)),
		tx(t, "Bills", 40, time.Date(2025, 3, 15, 21, 5, 0, 0, time.UTC)),
	}
	// An unparseable label is skipped, not an error.
	broken := txs[0]
	broken.TimeLabel = "soonish"
	txs = append(txs, broken)

	hours, err := New().ByHour(txs)
	if err != nil {
		t.Fatalf("ByHour() error = %v", err)
	}
	if !hours[9].Equal(decimal.NewFromInt(20)) {
		t.Errorf("hour 9 total = %s, want 20", hours[9])
	}
	if !hours[21].Equal(decimal.NewFromInt(40)) {
		t.Errorf("hour 21 total = %s, want 40", hours[21])
	}
	if !hours[0].IsZero() {
		t.Errorf("hour 0 total = %s, want 0", hours[0])
	}
}

func TestByCategory(t *testing.T) {
	txs := []domain.Transaction{
		tx(t, "Food", 20, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)),
		tx(t, "Food", 10, time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)),
		tx(t, "Bills", 55, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)),
	}

	totals, err := New().ByCategory(txs)
	if err != nil {
		t.Fatalf("ByCategory() error = %v", err)
	}
	if !totals["Food"].Equal(decimal.NewFromInt(30)) {
		t.Errorf("Food total = %s, want 30", totals["Food"])
	}
	if !totals["Bills"].Equal(decimal.NewFromInt(55)) {
		t.Errorf("Bills total = %s, want 55", totals["Bills"])
	}
}
