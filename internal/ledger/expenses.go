package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/id"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ExpenseDraft is an expense as submitted, before it has an ID.
type ExpenseDraft struct {
	Description string
	Amount      float64
	Category    string
	// Date is Unix milliseconds; zero means now.
	Date      int64
	PayerID   string
	SplitType models.SplitType
	Splits    []models.Split
	GroupID   string
}

// SubmitExpense validates draft and stores it as a new expense created by
// callerID. Nothing is written unless every check passes.
func (e *Engine) SubmitExpense(ctx context.Context, callerID string, draft ExpenseDraft) (*models.Expense, error) {
	exp := &models.Expense{
		Description: strings.TrimSpace(draft.Description),
		Amount:      draft.Amount,
		Category:    strings.TrimSpace(draft.Category),
		Date:        draft.Date,
		PayerID:     draft.PayerID,
		SplitType:   draft.SplitType,
		Splits:      append([]models.Split(nil), draft.Splits...),
		GroupID:     draft.GroupID,
		CreatedBy:   callerID,
	}
	if exp.Category == "" {
		exp.Category = models.DefaultCategory
	}
	if exp.Date == 0 {
		exp.Date = e.now().UnixMilli()
	}

	err := e.write(ctx, "SubmitExpense", callerID, func(ctx context.Context, tx storage.Tx) error {
		if err := calculator.ValidateExpense(exp); err != nil {
			return validation("%v", err)
		}

		if exp.GroupID != "" {
			group, err := tx.GetGroup(exp.GroupID)
			if err != nil {
				return lookup(err, "group", exp.GroupID)
			}
			if !group.HasMember(callerID) {
				return unauthorized("you are not a member of this group")
			}
			if !group.HasMember(exp.PayerID) {
				return validation("payer must be a member of the group")
			}
			for _, s := range exp.Splits {
				if !group.HasMember(s.ParticipantID) {
					return validation("all split participants must be group members")
				}
			}
		}

		if exp.PayerID != callerID && exp.SplitFor(callerID) == nil {
			return unauthorized("you must be the payer or included in the splits")
		}

		if !calculator.SplitsMatch(exp.Amount, exp.Splits) {
			return validation("split amounts add up to %s, want %.2f",
				calculator.SplitTotal(exp.Splits).StringFixed(2), exp.Amount)
		}

		exp.ID = id.NewExpense()
		return tx.InsertExpense(exp)
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "expense recorded",
		"expense_id", exp.ID, "amount", exp.Amount, "group_id", exp.GroupID)
	return exp, nil
}

// DeleteExpense removes an expense on behalf of its creator or payer.
// Settlements referencing it lose the reference; a settlement left with no
// references is deleted. Both happen in the same transaction.
func (e *Engine) DeleteExpense(ctx context.Context, callerID, expenseID string) error {
	var deleted, trimmed int

	err := e.write(ctx, "DeleteExpense", callerID, func(ctx context.Context, tx storage.Tx) error {
		exp, err := tx.GetExpense(expenseID)
		if err != nil {
			return lookup(err, "expense", expenseID)
		}
		if exp.CreatedBy != callerID && exp.PayerID != callerID {
			return unauthorized("you don't have permission to delete this expense")
		}

		related, err := tx.ListSettlementsByRelatedExpense(expenseID)
		if err != nil {
			return err
		}
		for _, s := range related {
			remaining := make([]string, 0, len(s.RelatedExpenseIDs))
			for _, ref := range s.RelatedExpenseIDs {
				if ref != expenseID {
					remaining = append(remaining, ref)
				}
			}
			if len(remaining) == 0 {
				if err := tx.DeleteSettlement(s.ID); err != nil {
					return err
				}
				deleted++
				continue
			}
			if err := tx.SetSettlementRelatedExpenses(s.ID, remaining); err != nil {
				return err
			}
			trimmed++
		}

		return tx.DeleteExpense(expenseID)
	})
	if err != nil {
		return err
	}

	e.metrics.Cascade(metrics.CascadeDeleted, deleted)
	e.metrics.Cascade(metrics.CascadeTrimmed, trimmed)
	e.logger.InfoContext(ctx, "expense deleted",
		"expense_id", expenseID, "settlements_deleted", deleted, "settlements_trimmed", trimmed)
	return nil
}
