package models

// SplitType records how an expense's shares were derived.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitExact      SplitType = "exact"
)

// DefaultCategory is stored when an expense is submitted without one.
const DefaultCategory = "Other"

// Valid reports whether t is one of the recognized split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitExact:
		return true
	}
	return false
}

// Expense represents a recorded outlay with a payer and a breakdown of who
// owes what share.
type Expense struct {
	// ID is the unique identifier for the expense ("exp_" TypeID).
	ID string

	// Description is the human-readable label (e.g., "Groceries").
	Description string

	// Amount is the total outlay. Always > 0.
	Amount float64

	// Category is a free-form label; "Other" when not provided.
	Category string

	// Date is the Unix timestamp in milliseconds the expense happened at.
	Date int64

	// PayerID is the user who paid the full amount.
	PayerID string

	// SplitType records how Splits were derived.
	SplitType SplitType

	// Splits are the per-participant shares, in submission order.
	// Their amounts add up to Amount within the ledger tolerance.
	Splits []Split

	// GroupID is the group this expense belongs to; empty when ungrouped.
	GroupID string

	// CreatedBy is the user who recorded the expense.
	CreatedBy string
}

// Split is one participant's share of an expense.
type Split struct {
	// ParticipantID is the user who owes this share.
	ParticipantID string

	// Amount is the share. Always > 0.
	Amount float64

	// Paid marks a share that was already settled when the expense was
	// recorded. Paid shares never count toward balances. The flag is set at
	// creation time and never changes.
	Paid bool
}

// SplitFor returns the split belonging to userID, or nil.
func (e *Expense) SplitFor(userID string) *Split {
	for i := range e.Splits {
		if e.Splits[i].ParticipantID == userID {
			return &e.Splits[i]
		}
	}
	return nil
}

// UnpaidShare returns userID's unpaid share of the expense, or 0 when the
// user has no split or the split is already paid.
func (e *Expense) UnpaidShare(userID string) float64 {
	s := e.SplitFor(userID)
	if s == nil || s.Paid {
		return 0
	}
	return s.Amount
}

// Involves reports whether userID paid the expense or owes a share of it.
func (e *Expense) Involves(userID string) bool {
	return e.PayerID == userID || e.SplitFor(userID) != nil
}
