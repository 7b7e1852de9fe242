package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLabelLayout is the clock format stored alongside each transaction for
// display, e.g. "07:45 PM".
const TimeLabelLayout = "03:04 PM"

// Transaction is one dated money-movement record. A transaction is owned
// exclusively by OwnerID and is never aggregated across owners. Once an
// Insight references it by id the record itself stays editable; the Insight
// is not rewritten.
type Transaction struct {
	ID        string
	OwnerID   string
	Title     string
	Category  string
	Amount    decimal.Decimal
	Date      time.Time
	TimeLabel string

	// Presentation metadata carried through the store untouched.
	Icon  string
	Color string
}

// NewTransaction builds a transaction for the given owner, deriving the time
// label from the date and the icon/color pair from the category table.
func NewTransaction(ownerID, title string, amount decimal.Decimal, category string, date time.Time) Transaction {
	icon, color := CategoryStyle(category)
	return Transaction{
		OwnerID:   ownerID,
		Title:     title,
		Category:  category,
		Amount:    amount,
		Date:      date,
		TimeLabel: date.Format(TimeLabelLayout),
		Icon:      icon,
		Color:     color,
	}
}

// Validate checks the record's domain invariants. It returns an
// *InvalidRecordError describing the first violated field.
func (t Transaction) Validate() error {
	if t.OwnerID == "" {
		return &InvalidRecordError{Field: "ownerId", Reason: "must not be empty"}
	}
	if t.Title == "" {
		return &InvalidRecordError{Field: "title", Reason: "must not be empty"}
	}
	if t.Amount.IsNegative() {
		return &InvalidRecordError{Field: "amount", Reason: "must not be negative"}
	}
	if t.Date.IsZero() {
		return &InvalidRecordError{Field: "date", Reason: "must be set"}
	}
	return nil
}

// Income is a dated money-in record. It shares the transaction validation
// rules but carries no category or presentation metadata.
type Income struct {
	ID      string
	OwnerID string
	Title   string
	Amount  decimal.Decimal
	Date    time.Time
}

func (i Income) Validate() error {
	if i.OwnerID == "" {
		return &InvalidRecordError{Field: "ownerId", Reason: "must not be empty"}
	}
	if i.Title == "" {
		return &InvalidRecordError{Field: "title", Reason: "must not be empty"}
	}
	if i.Amount.IsNegative() {
		return &InvalidRecordError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}
