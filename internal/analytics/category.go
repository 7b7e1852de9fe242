package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// ByCategory sums transaction amounts per category irrespective of time.
func (a *Aggregator) ByCategory(txs []domain.Transaction) (map[string]decimal.Decimal, error) {
	if err := validateAmounts(txs); err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals, nil
}

// Total sums all transaction amounts.
func Total(txs []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// monthAdd steps n calendar months from the month containing t and returns
// the first day of the resulting month. Stepping from the first day matters:
// AddDate on a late day of the month normalizes (May 31 minus one month is
// April 31, i.e. May 1), which would land back in the same month.
func monthAdd(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// monthTotalFor sums amounts of transactions in the given category whose
// dates fall inside the calendar month containing m. An empty category
// matches every transaction.
func monthTotalFor(txs []domain.Transaction, category string, m time.Time) decimal.Decimal {
	start := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, m.Location())
	end := start.AddDate(0, 1, 0)
	total := decimal.Zero
	for _, tx := range txs {
		if category != "" && tx.Category != category {
			continue
		}
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
