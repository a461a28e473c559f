package models

// Settlement represents a direct payment from one participant to another.
type Settlement struct {
	// ID is the unique identifier for the settlement ("stl_" TypeID).
	ID string

	// Amount is the payment amount. Always > 0.
	Amount float64

	// Note is an optional description for the settlement.
	Note string

	// Date is the server-assigned Unix timestamp in milliseconds.
	Date int64

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// ReceiverID is the user who received payment. Never equal to PayerID.
	ReceiverID string

	// GroupID is the group this settlement belongs to; empty when ungrouped.
	GroupID string

	// RelatedExpenseIDs lists expenses this payment was made against.
	// These are lookup-only references backed by an index in the store.
	RelatedExpenseIDs []string

	// CreatedBy is the user who recorded the settlement.
	CreatedBy string
}

// Involves reports whether userID is the payer or the receiver.
func (s *Settlement) Involves(userID string) bool {
	return s.PayerID == userID || s.ReceiverID == userID
}

// Between reports whether the settlement is between a and b, in either
// direction.
func (s *Settlement) Between(a, b string) bool {
	return (s.PayerID == a && s.ReceiverID == b) || (s.PayerID == b && s.ReceiverID == a)
}
