package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/splitledger/internal/models"
)

// ValidateExpense checks the parts of an expense that need no outside
// lookups: a positive amount, a recognized split type and at least one
// split, each with a positive amount and a distinct participant.
// Whether the splits add up is checked separately with SplitsMatch.
func ValidateExpense(e *models.Expense) error {
	if !Positive(e.Amount) {
		return fmt.Errorf("amount must be greater than zero")
	}
	if !e.SplitType.Valid() {
		return fmt.Errorf("invalid split type %q", e.SplitType)
	}
	if e.PayerID == "" {
		return fmt.Errorf("payer is required")
	}
	if len(e.Splits) == 0 {
		return fmt.Errorf("must have at least one split")
	}
	seen := make(map[string]bool, len(e.Splits))
	for _, s := range e.Splits {
		if s.ParticipantID == "" {
			return fmt.Errorf("split participant is required")
		}
		if !Positive(s.Amount) {
			return fmt.Errorf("split amount for %s must be greater than zero", s.ParticipantID)
		}
		if seen[s.ParticipantID] {
			return fmt.Errorf("participant %s appears in more than one split", s.ParticipantID)
		}
		seen[s.ParticipantID] = true
	}
	return nil
}

// Positive reports whether x is a finite amount greater than zero.
func Positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
