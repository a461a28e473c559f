package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Share is one participant's input to a split calculation. Value is a
// percentage for percentage splits and an amount for exact splits; it is
// ignored for equal splits.
type Share struct {
	ParticipantID string
	Value         float64
}

// CalculateSplit turns an amount and per-participant inputs into the Split
// list an expense is recorded with. Equal and percentage splits are rounded
// to the cent so the shares add up exactly to amount; leftover cents go to
// the first participants.
func CalculateSplit(amount float64, splitType models.SplitType, shares []Share) ([]models.Split, error) {
	if !Positive(amount) {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	switch splitType {
	case models.SplitEqual:
		ids := make([]string, len(shares))
		for i, s := range shares {
			ids[i] = s.ParticipantID
		}
		return EqualSplits(amount, ids), nil
	case models.SplitPercentage:
		return PercentageSplits(amount, shares)
	case models.SplitExact:
		splits := make([]models.Split, len(shares))
		for i, s := range shares {
			if !Positive(s.Value) {
				return nil, fmt.Errorf("amount for %s must be greater than zero", s.ParticipantID)
			}
			splits[i] = models.Split{ParticipantID: s.ParticipantID, Amount: s.Value}
		}
		if !SplitsMatch(amount, splits) {
			return nil, fmt.Errorf("exact amounts add up to %s, want %.2f",
				SplitTotal(splits).StringFixed(2), amount)
		}
		return splits, nil
	default:
		return nil, fmt.Errorf("invalid split type %q", splitType)
	}
}

// EqualSplits divides amount evenly among participants, to the cent.
func EqualSplits(amount float64, participants []string) []models.Split {
	if len(participants) == 0 {
		return nil
	}
	cents := toCents(amount)
	n := int64(len(participants))
	base, rem := cents/n, cents%n

	splits := make([]models.Split, len(participants))
	for i, p := range participants {
		c := base
		if int64(i) < rem {
			c++
		}
		splits[i] = models.Split{ParticipantID: p, Amount: fromCents(c)}
	}
	return splits
}

// PercentageSplits divides amount according to each share's percentage.
// The percentages must add up to 100 within Tolerance.
func PercentageSplits(amount float64, shares []Share) ([]models.Split, error) {
	totalPct := decimal.Zero
	for _, s := range shares {
		if !Positive(s.Value) {
			return nil, fmt.Errorf("percentage for %s must be greater than zero", s.ParticipantID)
		}
		totalPct = totalPct.Add(decimal.NewFromFloat(s.Value))
	}
	if totalPct.Sub(hundred).Abs().GreaterThan(decimal.NewFromFloat(Tolerance)) {
		return nil, fmt.Errorf("percentages add up to %s, want 100", totalPct.String())
	}

	cents := toCents(amount)
	total := decimal.NewFromInt(cents)
	splits := make([]models.Split, len(shares))
	var assigned int64
	shareCents := make([]int64, len(shares))
	for i, s := range shares {
		c := total.Mul(decimal.NewFromFloat(s.Value)).Div(hundred).Floor().IntPart()
		shareCents[i] = c
		assigned += c
	}
	for i := 0; assigned < cents; i = (i + 1) % len(shares) {
		shareCents[i]++
		assigned++
	}
	// Percentages within tolerance above 100 can overshoot by a few cents.
	for i := len(shares) - 1; assigned > cents; i = (i + len(shares) - 1) % len(shares) {
		if shareCents[i] > 1 {
			shareCents[i]--
			assigned--
		}
	}
	for i, s := range shares {
		splits[i] = models.Split{ParticipantID: s.ParticipantID, Amount: fromCents(shareCents[i])}
	}
	return splits, nil
}

// SplitTotal sums split amounts without float accumulation error.
func SplitTotal(splits []models.Split) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(decimal.NewFromFloat(s.Amount))
	}
	return sum
}

// SplitsMatch reports whether the splits add up to amount within Tolerance.
func SplitsMatch(amount float64, splits []models.Split) bool {
	diff := SplitTotal(splits).Sub(decimal.NewFromFloat(amount)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(Tolerance))
}

func toCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

func fromCents(c int64) float64 {
	return decimal.New(c, -2).InexactFloat64()
}
