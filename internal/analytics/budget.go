package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// Severity classifies budget utilization.
type Severity string

const (
	SeverityWithin Severity = "within"
	SeverityNear   Severity = "near"
	SeverityOver   Severity = "over"

	// SeverityUnknown marks categories whose budget amount is zero, where
	// utilization is undefined rather than divided by zero.
	SeverityUnknown Severity = "unknown"
)

// nearThreshold is the utilization at which a category is flagged as
// approaching its budget.
const nearThreshold = 0.8

// CategoryComparison is one budget-vs-actual row.
type CategoryComparison struct {
	Category    string
	Spent       decimal.Decimal
	Budget      decimal.Decimal
	Utilization float64
	Severity    Severity
}

// Compare joins per-category spend totals against the owner's budget
// settings. Every CategoryBudget produces exactly one row, in settings
// order; categories with no recorded spend report zero.
func Compare(spentByCategory map[string]decimal.Decimal, settings domain.BudgetSettings) []CategoryComparison {
	rows := make([]CategoryComparison, 0, len(settings.CategoryBudgets))
	for _, cb := range settings.CategoryBudgets {
		spent, ok := spentByCategory[cb.Category]
		if !ok {
			spent = decimal.Zero
		}

		row := CategoryComparison{
			Category: cb.Category,
			Spent:    spent,
			Budget:   cb.Amount,
		}
		if cb.Amount.IsPositive() {
			row.Utilization = spent.Div(cb.Amount).InexactFloat64()
			row.Severity = severityFor(row.Utilization)
		} else {
			row.Severity = SeverityUnknown
		}
		rows = append(rows, row)
	}
	return rows
}

func severityFor(utilization float64) Severity {
	switch {
	case utilization >= 1.0:
		return SeverityOver
	case utilization >= nearThreshold:
		return SeverityNear
	default:
		return SeverityWithin
	}
}
