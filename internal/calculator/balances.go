package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the allowance for floating point rounding when comparing
// monetary amounts. Tallies smaller than this are treated as settled.
const Tolerance = 0.01

// CounterpartyBalance is the magnitude of an open balance with one other
// participant.
type CounterpartyBalance struct {
	UserID string
	Amount float64
}

// Balances is the all-counterparties view for one user.
type Balances struct {
	Owed    float64 // total others owe the user
	Owing   float64 // total the user owes others
	Total   float64 // Owed - Owing
	OwedBy  []CounterpartyBalance
	OwingTo []CounterpartyBalance
}

// ComputeBalances computes the dashboard view for userID from ungrouped
// records. Grouped records and records not involving userID are ignored, so
// callers may pass a superset.
//
// For each expense the user paid, every other participant's unpaid share is
// credited to that participant; for each expense someone else paid, the
// user's own unpaid share is debited against the payer. Settlements the user
// paid credit the receiver; settlements the user received debit the payer.
// Tallies below Tolerance are dropped. Lists are ordered by descending
// amount, then by user ID.
func ComputeBalances(userID string, expenses []models.Expense, settlements []models.Settlement, obs Observer) Balances {
	t := newTally(obs)

	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != "" || !e.Involves(userID) {
			continue
		}
		if e.PayerID == userID {
			for _, s := range e.Splits {
				if s.ParticipantID == userID || s.Paid {
					continue
				}
				t.add(s.ParticipantID, SourceExpense, e.ID, s.Amount)
			}
		} else if share := e.UnpaidShare(userID); share > 0 {
			t.add(e.PayerID, SourceExpense, e.ID, -share)
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if s.GroupID != "" || !s.Involves(userID) || s.PayerID == s.ReceiverID {
			continue
		}
		if s.PayerID == userID {
			t.add(s.ReceiverID, SourceSettlement, s.ID, s.Amount)
		} else {
			t.add(s.PayerID, SourceSettlement, s.ID, -s.Amount)
		}
	}

	var b Balances
	for counterparty, net := range t.net {
		if math.Abs(net) < Tolerance {
			continue
		}
		if net > 0 {
			b.OwedBy = append(b.OwedBy, CounterpartyBalance{UserID: counterparty, Amount: net})
		} else {
			b.OwingTo = append(b.OwingTo, CounterpartyBalance{UserID: counterparty, Amount: -net})
		}
	}
	sortByAmount(b.OwedBy)
	sortByAmount(b.OwingTo)

	// Sum after sorting so the totals do not depend on map iteration order.
	for _, c := range b.OwedBy {
		b.Owed += c.Amount
	}
	for _, c := range b.OwingTo {
		b.Owing += c.Amount
	}
	b.Total = b.Owed - b.Owing
	return b
}

func sortByAmount(list []CounterpartyBalance) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Amount != list[j].Amount {
			return list[i].Amount > list[j].Amount
		}
		return list[i].UserID < list[j].UserID
	})
}

// PairNet returns the signed balance between subject and other over the
// records scoped to groupID (empty for ungrouped records). Positive means
// other owes subject.
//
// An expense paid by subject contributes other's unpaid share; an expense
// paid by other contributes minus subject's unpaid share. A settlement paid
// by subject to other adds its amount; one paid by other to subject
// subtracts it. Records outside the pair or the scope are ignored.
func PairNet(subject, other, groupID string, expenses []models.Expense, settlements []models.Settlement, obs Observer) float64 {
	t := newTally(obs)
	t.net[other] = 0

	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != groupID {
			continue
		}
		switch e.PayerID {
		case subject:
			if share := e.UnpaidShare(other); share > 0 {
				t.add(other, SourceExpense, e.ID, share)
			}
		case other:
			if share := e.UnpaidShare(subject); share > 0 {
				t.add(other, SourceExpense, e.ID, -share)
			}
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if s.GroupID != groupID {
			continue
		}
		switch {
		case s.PayerID == subject && s.ReceiverID == other:
			t.add(other, SourceSettlement, s.ID, s.Amount)
		case s.PayerID == other && s.ReceiverID == subject:
			t.add(other, SourceSettlement, s.ID, -s.Amount)
		}
	}

	return t.net[other]
}

// PairDetail is the pairwise history and balance between two participants.
type PairDetail struct {
	Expenses    []models.Expense
	Settlements []models.Settlement
	Net         float64 // positive = other owes subject
	YouAreOwed  float64 // max(0, Net)
	YouOwe      float64 // max(0, -Net)
}

// ComputePair filters the candidate records down to the ungrouped ones
// involving both subject and other, orders them by descending date and folds
// the net balance with the same sign convention as ComputeBalances.
// Candidates are typically the ungrouped expenses paid by either party; a
// record present twice is kept once.
func ComputePair(subject, other string, expenses []models.Expense, settlements []models.Settlement, obs Observer) PairDetail {
	var d PairDetail

	seen := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		if e.GroupID != "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if e.Involves(subject) && e.Involves(other) {
			d.Expenses = append(d.Expenses, e)
		}
	}

	seen = make(map[string]bool, len(settlements))
	for _, s := range settlements {
		if s.GroupID != "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if s.Between(subject, other) {
			d.Settlements = append(d.Settlements, s)
		}
	}

	SortExpensesByDate(d.Expenses)
	SortSettlementsByDate(d.Settlements)

	d.Net = PairNet(subject, other, "", d.Expenses, d.Settlements, obs)
	d.YouAreOwed = math.Max(0, d.Net)
	d.YouOwe = math.Max(0, -d.Net)
	return d
}

// SortExpensesByDate orders expenses newest first; equal dates fall back to
// descending ID.
func SortExpensesByDate(expenses []models.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].ID > expenses[j].ID
	})
}

// SortSettlementsByDate orders settlements newest first; equal dates fall
// back to descending ID.
func SortSettlementsByDate(settlements []models.Settlement) {
	sort.SliceStable(settlements, func(i, j int) bool {
		if settlements[i].Date != settlements[j].Date {
			return settlements[i].Date > settlements[j].Date
		}
		return settlements[i].ID > settlements[j].ID
	})
}
