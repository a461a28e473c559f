package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
)

// MemberBalance is the caller's balance with one other group member.
type MemberBalance struct {
	UserID string
	Owed   float64 // max(0, Net): the member owes the caller
	Owing  float64 // max(0, -Net): the caller owes the member
	Net    float64
}

// ComputeGroupBalances computes the caller's balance with every other member
// of group, in member order. Only records scoped to the group count.
//
// When the caller paid an expense, each other member's unpaid share is
// credited to that member. When another member paid, the caller's own unpaid
// share is debited against them; expenses paid by non-members are ignored.
// Settlements between the caller and a member shift that member's tally.
func ComputeGroupBalances(userID string, group *models.Group, expenses []models.Expense, settlements []models.Settlement, obs Observer) []MemberBalance {
	t := newTally(obs)
	for _, m := range group.Members {
		if m != userID {
			t.net[m] = 0
		}
	}
	tracked := func(uid string) bool {
		_, ok := t.net[uid]
		return ok
	}

	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != group.ID {
			continue
		}
		if e.PayerID == userID {
			for _, s := range e.Splits {
				if s.ParticipantID == userID || s.Paid || !tracked(s.ParticipantID) {
					continue
				}
				t.add(s.ParticipantID, SourceExpense, e.ID, s.Amount)
			}
		} else if tracked(e.PayerID) {
			if share := e.UnpaidShare(userID); share > 0 {
				t.add(e.PayerID, SourceExpense, e.ID, -share)
			}
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if s.GroupID != group.ID {
			continue
		}
		if s.PayerID == userID && tracked(s.ReceiverID) {
			t.add(s.ReceiverID, SourceSettlement, s.ID, s.Amount)
		}
		if s.ReceiverID == userID && tracked(s.PayerID) {
			t.add(s.PayerID, SourceSettlement, s.ID, -s.Amount)
		}
	}

	list := make([]MemberBalance, 0, len(t.net))
	for _, m := range group.Members {
		net, ok := t.net[m]
		if !ok {
			continue
		}
		list = append(list, MemberBalance{
			UserID: m,
			Owed:   math.Max(0, net),
			Owing:  math.Max(0, -net),
			Net:    net,
		})
		// Guard against a member listed twice.
		delete(t.net, m)
	}
	return list
}

// GroupBalance returns the caller's single net balance in group for list
// views: what other members owe the caller minus what the caller owes them,
// counting unpaid shares and settlements with current members only. It
// agrees with the sum of ComputeGroupBalances' Net values.
func GroupBalance(userID string, group *models.Group, expenses []models.Expense, settlements []models.Settlement) float64 {
	member := func(uid string) bool {
		return uid != userID && group.HasMember(uid)
	}

	var balance float64
	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != group.ID {
			continue
		}
		if e.PayerID == userID {
			for _, s := range e.Splits {
				if !s.Paid && member(s.ParticipantID) {
					balance += s.Amount
				}
			}
		} else if member(e.PayerID) {
			balance -= e.UnpaidShare(userID)
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if s.GroupID != group.ID {
			continue
		}
		if s.PayerID == userID && member(s.ReceiverID) {
			balance += s.Amount
		}
		if s.ReceiverID == userID && member(s.PayerID) {
			balance -= s.Amount
		}
	}
	return balance
}

// Transfer is a suggested payment that clears part of the group's debt.
type Transfer struct {
	From   string // who pays
	To     string // who receives
	Amount float64
}

// SuggestSettlements computes a short list of payments that would settle the
// whole group. Every participant's group-wide net is derived first (payers
// are credited with the unpaid shares of others, participants debited with
// their own unpaid share, settlement payers credited and receivers debited),
// then the largest debtor is repeatedly matched with the largest creditor.
// Amounts at or below Tolerance are skipped.
func SuggestSettlements(group *models.Group, expenses []models.Expense, settlements []models.Settlement) []Transfer {
	nets := make(map[string]float64)
	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != group.ID {
			continue
		}
		for _, s := range e.Splits {
			if s.Paid || s.ParticipantID == e.PayerID {
				continue
			}
			nets[e.PayerID] += s.Amount
			nets[s.ParticipantID] -= s.Amount
		}
	}
	for i := range settlements {
		s := &settlements[i]
		if s.GroupID != group.ID {
			continue
		}
		nets[s.PayerID] += s.Amount
		nets[s.ReceiverID] -= s.Amount
	}

	var creditors, debtors []CounterpartyBalance
	for uid, net := range nets {
		switch {
		case net > Tolerance:
			creditors = append(creditors, CounterpartyBalance{UserID: uid, Amount: net})
		case net < -Tolerance:
			debtors = append(debtors, CounterpartyBalance{UserID: uid, Amount: -net})
		}
	}
	sortByAmount(creditors)
	sortByAmount(debtors)

	// Greedy: match largest debts with largest credits
	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].Amount, creditors[j].Amount)
		if amount > Tolerance {
			transfers = append(transfers, Transfer{
				From:   debtors[i].UserID,
				To:     creditors[j].UserID,
				Amount: amount,
			})
		}

		debtors[i].Amount -= amount
		creditors[j].Amount -= amount

		if debtors[i].Amount <= Tolerance {
			i++
		}
		if creditors[j].Amount <= Tolerance {
			j++
		}
	}

	sort.SliceStable(transfers, func(a, b int) bool {
		return transfers[a].Amount > transfers[b].Amount
	})
	return transfers
}
