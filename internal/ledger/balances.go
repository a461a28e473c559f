package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CounterpartyBalance is an open balance with one participant.
type CounterpartyBalance struct {
	models.Participant
	Amount float64
}

// Balances is the all-counterparties view of one user's ungrouped records.
type Balances struct {
	Owed    float64
	Owing   float64
	Total   float64
	OwedBy  []CounterpartyBalance
	OwingTo []CounterpartyBalance
}

// Balances computes who owes userID and whom userID owes, across every
// ungrouped expense and settlement involving them.
func (e *Engine) Balances(ctx context.Context, userID string) (*Balances, error) {
	var out *Balances
	err := e.read(ctx, "Balances", userID, func(ctx context.Context, tx storage.Tx) error {
		expenses, err := tx.ListUngroupedExpensesInvolving(userID)
		if err != nil {
			return err
		}
		settlements, err := tx.ListUngroupedSettlementsInvolving(userID)
		if err != nil {
			return err
		}

		b := calculator.ComputeBalances(userID, expenses, settlements, e.observe(ctx, "Balances"))

		ids := make([]string, 0, len(b.OwedBy)+len(b.OwingTo))
		for _, c := range b.OwedBy {
			ids = append(ids, c.UserID)
		}
		for _, c := range b.OwingTo {
			ids = append(ids, c.UserID)
		}
		people, err := participants(tx, ids)
		if err != nil {
			return err
		}

		out = &Balances{
			Owed:    b.Owed,
			Owing:   b.Owing,
			Total:   b.Total,
			OwedBy:  enrich(b.OwedBy, people),
			OwingTo: enrich(b.OwingTo, people),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func enrich(list []calculator.CounterpartyBalance, people map[string]models.Participant) []CounterpartyBalance {
	if len(list) == 0 {
		return nil
	}
	out := make([]CounterpartyBalance, len(list))
	for i, c := range list {
		out[i] = CounterpartyBalance{Participant: people[c.UserID], Amount: c.Amount}
	}
	return out
}

// PairBalance is the ungrouped history and net balance between the caller
// and one counterparty. Net is positive when the counterparty owes the
// caller.
type PairBalance struct {
	Counterparty models.Participant
	Expenses     []models.Expense
	Settlements  []models.Settlement
	Net          float64
	YouAreOwed   float64
	YouOwe       float64
}

// Pair returns the ungrouped records between userID and otherID, newest
// first, with their net balance.
func (e *Engine) Pair(ctx context.Context, userID, otherID string) (*PairBalance, error) {
	if userID == otherID {
		return nil, validation("cannot query yourself")
	}

	var out *PairBalance
	err := e.read(ctx, "Pair", userID, func(ctx context.Context, tx storage.Tx) error {
		other, err := tx.GetUser(otherID)
		if err != nil {
			return lookup(err, "user", otherID)
		}

		var expenses []models.Expense
		for _, payer := range []string{userID, otherID} {
			paid, err := tx.ListUngroupedExpensesByPayer(payer)
			if err != nil {
				return err
			}
			expenses = append(expenses, paid...)
		}
		settlements, err := tx.ListUngroupedSettlementsBetween(userID, otherID)
		if err != nil {
			return err
		}

		d := calculator.ComputePair(userID, otherID, expenses, settlements, e.observe(ctx, "Pair"))
		out = &PairBalance{
			Counterparty: models.ParticipantOf(otherID, other),
			Expenses:     d.Expenses,
			Settlements:  d.Settlements,
			Net:          d.Net,
			YouAreOwed:   d.YouAreOwed,
			YouOwe:       d.YouOwe,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// participants resolves display info for ids. Unknown users get the
// placeholder name.
func participants(tx storage.Tx, ids []string) (map[string]models.Participant, error) {
	out := make(map[string]models.Participant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := tx.GetUsers(ids)
	if err != nil {
		return nil, err
	}
	for _, uid := range ids {
		out[uid] = models.ParticipantOf(uid, users[uid])
	}
	return out, nil
}
