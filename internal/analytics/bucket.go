// Package analytics turns raw transaction lists into time-bucketed
// aggregates, budget comparisons, growth rates and forecasts. Everything in
// this package is pure: functions operate on already-fetched data, perform
// no I/O, never retry, and fail only with domain.ErrInvalidRecord.
//
// Two grouping shapes coexist deliberately. Bucket always returns exactly
// windowSize entries, zero-filling buckets with no transactions, so chart
// paths render zero bars. ByMonth is sparse and never materializes an empty
// month, so list paths can show an empty state instead.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// Granularity selects the bucket interval.
type Granularity string

const (
	Daily   Granularity = "day"
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
)

// MonthKeyLayout is the key format used by ByMonth.
const MonthKeyLayout = "2006-01"

// BucketTotal is one aggregated time bucket. The bucket covers the half-open
// interval [Start, End).
type BucketTotal struct {
	Label string
	Start time.Time
	End   time.Time
	Total decimal.Decimal
}

// Aggregator buckets transactions by time. The zero value uses Monday as the
// first day of the week; set WeekStart to follow a different convention.
type Aggregator struct {
	WeekStart time.Weekday
}

// New returns an Aggregator with the default Monday week start.
func New() *Aggregator {
	return &Aggregator{WeekStart: time.Monday}
}

// Bucket groups transactions into windowSize consecutive buckets of the
// given granularity, the last bucket containing referenceDate. Exactly
// windowSize entries are returned regardless of data sparsity; a bucket with
// no transactions totals zero. A transaction counts toward the bucket whose
// [start, end) interval contains its date.
func (a *Aggregator) Bucket(txs []domain.Transaction, g Granularity, referenceDate time.Time, windowSize int) ([]BucketTotal, error) {
	if err := validateAmounts(txs); err != nil {
		return nil, err
	}
	if windowSize <= 0 {
		return []BucketTotal{}, nil
	}

	buckets := make([]BucketTotal, 0, windowSize)
	for i := windowSize - 1; i >= 0; i-- {
		start, end, label := a.bucketBounds(g, referenceDate, i)
		buckets = append(buckets, BucketTotal{
			Label: label,
			Start: start,
			End:   end,
			Total: decimal.Zero,
		})
	}

	for _, tx := range txs {
		for i := range buckets {
			if !tx.Date.Before(buckets[i].Start) && tx.Date.Before(buckets[i].End) {
				buckets[i].Total = buckets[i].Total.Add(tx.Amount)
				break
			}
		}
	}
	return buckets, nil
}

// bucketBounds computes the interval and label of the bucket offset whole
// granularity steps before the one containing ref.
func (a *Aggregator) bucketBounds(g Granularity, ref time.Time, offset int) (start, end time.Time, label string) {
	switch g {
	case Weekly:
		ws := a.weekStart(ref).AddDate(0, 0, -7*offset)
		return ws, ws.AddDate(0, 0, 7), ws.Format("Jan 02")
	case Monthly:
		ms := time.Date(ref.Year(), ref.Month()-time.Month(offset), 1, 0, 0, 0, 0, ref.Location())
		return ms, ms.AddDate(0, 1, 0), ms.Format("Jan")
	default: // Daily
		ds := startOfDay(ref).AddDate(0, 0, -offset)
		return ds, ds.AddDate(0, 0, 1), ds.Format("Mon 02")
	}
}

// weekStart returns midnight of the first day of the week containing t.
func (a *Aggregator) weekStart(t time.Time) time.Time {
	back := (int(t.Weekday()) - int(a.WeekStart) + 7) % 7
	return startOfDay(t).AddDate(0, 0, -back)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ByMonth groups transactions under "YYYY-MM" keys, preserving input order
// within each month. Months without transactions are never materialized.
func (a *Aggregator) ByMonth(txs []domain.Transaction) (map[string][]domain.Transaction, error) {
	if err := validateAmounts(txs); err != nil {
		return nil, err
	}
	byMonth := make(map[string][]domain.Transaction)
	for _, tx := range txs {
		key := tx.Date.Format(MonthKeyLayout)
		byMonth[key] = append(byMonth[key], tx)
	}
	return byMonth, nil
}

// ByHour sums amounts into 24 hour-of-day slots using each transaction's
// stored time label. Transactions with an unparseable label are skipped.
func (a *Aggregator) ByHour(txs []domain.Transaction) ([24]decimal.Decimal, error) {
	var hours [24]decimal.Decimal
	for i := range hours {
		hours[i] = decimal.Zero
	}
	if err := validateAmounts(txs); err != nil {
		return hours, err
	}
	for _, tx := range txs {
		clock, err := time.Parse(domain.TimeLabelLayout, tx.TimeLabel)
		if err != nil {
			continue
		}
		hours[clock.Hour()] = hours[clock.Hour()].Add(tx.Amount)
	}
	return hours, nil
}

// validateAmounts rejects out-of-domain amounts before any aggregation runs.
func validateAmounts(txs []domain.Transaction) error {
	for _, tx := range txs {
		if tx.Amount.IsNegative() {
			return &domain.InvalidRecordError{Field: "amount", Reason: "must not be negative"}
		}
	}
	return nil
}
