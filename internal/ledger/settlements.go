package ledger

import (
	"context"
	"math"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/id"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// SettlementDraft is a settlement as submitted. The date is assigned by
// the engine.
type SettlementDraft struct {
	Amount            float64
	Note              string
	PayerID           string
	ReceiverID        string
	GroupID           string
	RelatedExpenseIDs []string
}

// SubmitSettlement validates draft and stores it as a new settlement
// recorded by callerID.
//
// An ungrouped settlement must not exceed the outstanding balance between
// its two parties. A grouped one is bounded the same way only under
// PolicyBounded; otherwise only membership is checked.
func (e *Engine) SubmitSettlement(ctx context.Context, callerID string, draft SettlementDraft) (*models.Settlement, error) {
	st := &models.Settlement{
		Amount:            draft.Amount,
		Note:              strings.TrimSpace(draft.Note),
		PayerID:           draft.PayerID,
		ReceiverID:        draft.ReceiverID,
		GroupID:           draft.GroupID,
		RelatedExpenseIDs: dedupe(draft.RelatedExpenseIDs),
		CreatedBy:         callerID,
	}

	var net float64
	err := e.write(ctx, "SubmitSettlement", callerID, func(ctx context.Context, tx storage.Tx) error {
		if !calculator.Positive(st.Amount) {
			return validation("amount must be positive")
		}
		if st.PayerID == "" || st.ReceiverID == "" {
			return validation("payer and receiver are required")
		}
		if st.PayerID == st.ReceiverID {
			return validation("payer and receiver cannot be the same user")
		}
		if !st.Involves(callerID) {
			return unauthorized("you must be either the payer or the receiver")
		}

		for _, ref := range st.RelatedExpenseIDs {
			if _, err := tx.GetExpense(ref); err != nil {
				return lookup(err, "expense", ref)
			}
		}

		var err error
		if st.GroupID == "" {
			net, err = ungroupedNet(tx, st.PayerID, st.ReceiverID)
			if err != nil {
				return err
			}
			if err := checkBound(st.Amount, net); err != nil {
				return err
			}
		} else {
			group, err := tx.GetGroup(st.GroupID)
			if err != nil {
				return lookup(err, "group", st.GroupID)
			}
			if !group.HasMember(callerID) {
				return unauthorized("you are not a member of this group")
			}
			if !group.HasMember(st.PayerID) || !group.HasMember(st.ReceiverID) {
				return validation("both parties must be members of the group")
			}
			if e.policy == PolicyBounded {
				net, err = groupNet(tx, st.GroupID, st.PayerID, st.ReceiverID)
				if err != nil {
					return err
				}
				if err := checkBound(st.Amount, net); err != nil {
					return err
				}
			}
		}

		st.ID = id.NewSettlement()
		st.Date = e.now().UnixMilli()
		return tx.InsertSettlement(st)
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "settlement recorded",
		"settlement_id", st.ID, "amount", st.Amount, "group_id", st.GroupID, "outstanding", net)
	return st, nil
}

// ungroupedNet replays the ungrouped records between payer and receiver.
// Positive means the receiver owes the payer.
func ungroupedNet(tx storage.Tx, payerID, receiverID string) (float64, error) {
	var expenses []models.Expense
	for _, p := range []string{payerID, receiverID} {
		paid, err := tx.ListUngroupedExpensesByPayer(p)
		if err != nil {
			return 0, err
		}
		expenses = append(expenses, paid...)
	}
	settlements, err := tx.ListUngroupedSettlementsBetween(payerID, receiverID)
	if err != nil {
		return 0, err
	}
	return calculator.PairNet(payerID, receiverID, "", expenses, settlements, nil), nil
}

func groupNet(tx storage.Tx, groupID, payerID, receiverID string) (float64, error) {
	expenses, err := tx.ListExpensesByGroup(groupID)
	if err != nil {
		return 0, err
	}
	settlements, err := tx.ListSettlementsByGroup(groupID)
	if err != nil {
		return 0, err
	}
	return calculator.PairNet(payerID, receiverID, groupID, expenses, settlements, nil), nil
}

func checkBound(amount, net float64) error {
	available := math.Abs(net)
	if available < calculator.Tolerance {
		return conflict("no outstanding balance to settle")
	}
	if amount > available+calculator.Tolerance {
		return conflict("settlement amount %.2f exceeds outstanding balance %.2f", amount, available)
	}
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, s := range ids {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
