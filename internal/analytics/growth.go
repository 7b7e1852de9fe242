package analytics

import (
	"time"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// CategoryGrowth is one month-over-month growth data point.
type CategoryGrowth struct {
	Category string
	Month    string
	Growth   float64
}

// Growth computes the month-over-month percent change of spending in a
// category: previous month's total against the calendar month containing
// currentMonth.
//
// When the previous month has no spend the result is 100 if the current
// month has any, 0 otherwise. The rule is deliberate: it keeps a first month
// of spending visible as growth instead of producing NaN.
func Growth(expenses []domain.Transaction, category string, currentMonth time.Time) (float64, error) {
	if err := validateAmounts(expenses); err != nil {
		return 0, err
	}

	current := monthTotalFor(expenses, category, currentMonth)
	previous := monthTotalFor(expenses, category, monthAdd(currentMonth, -1))

	if previous.IsZero() {
		if current.IsPositive() {
			return 100, nil
		}
		return 0, nil
	}
	return current.Sub(previous).Div(previous).InexactFloat64() * 100, nil
}

// GrowthSeries computes Growth for each of the last months calendar months
// ending with the one containing referenceDate, oldest first. It backs the
// 1-month and 6-month growth trend views.
func GrowthSeries(expenses []domain.Transaction, category string, referenceDate time.Time, months int) ([]CategoryGrowth, error) {
	if err := validateAmounts(expenses); err != nil {
		return nil, err
	}

	series := make([]CategoryGrowth, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := monthAdd(referenceDate, -i)
		growth, err := Growth(expenses, category, month)
		if err != nil {
			return nil, err
		}
		series = append(series, CategoryGrowth{
			Category: category,
			Month:    month.Format("Jan"),
			Growth:   growth,
		})
	}
	return series, nil
}
