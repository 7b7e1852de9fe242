package domain

import "time"

// insightDateLayout matches the date formatting the insight context string
// has always used.
const insightDateLayout = "Jan 2, 2006, 3:04 PM"

// Insight is one generated natural-language analysis. Insights are
// append-only: they are never mutated after creation, and editing an
// analyzed transaction does not rewrite past insights. The pipeline, not the
// store, enforces that an owner gets at most one insight per calendar day.
type Insight struct {
	ID      string
	OwnerID string
	Date    time.Time

	// Text is the concatenated output of the reasoning service.
	Text string

	// AnalyzedTransactionIDs references the transactions the insight was
	// generated from.
	AnalyzedTransactionIDs []string

	// PreviousContext is the composed prior-insight context string this
	// generation was chained against.
	PreviousContext string
}

// FormattedDate renders the insight date the way it appears inside the
// chained context string.
func (i Insight) FormattedDate() string {
	return i.Date.Format(insightDateLayout)
}
