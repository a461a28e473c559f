package ledger

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ActivityItem is an expense enriched for the activity feed.
type ActivityItem struct {
	models.Expense
	PayerName string
	GroupName string // empty for ungrouped expenses or a group that no longer resolves
}

// RecentActivity scans the most recent expenses, keeps those involving
// userID and returns at most the configured limit, newest first.
func (e *Engine) RecentActivity(ctx context.Context, userID string) ([]ActivityItem, error) {
	var out []ActivityItem
	err := e.read(ctx, "RecentActivity", userID, func(ctx context.Context, tx storage.Tx) error {
		recent, err := tx.ListRecentExpenses(e.window)
		if err != nil {
			return err
		}

		var mine []models.Expense
		for _, exp := range recent {
			if exp.Involves(userID) {
				mine = append(mine, exp)
			}
			if len(mine) == e.limit {
				break
			}
		}
		calculator.SortExpensesByDate(mine)

		payerIDs := make([]string, 0, len(mine))
		for _, exp := range mine {
			payerIDs = append(payerIDs, exp.PayerID)
		}
		people, err := participants(tx, payerIDs)
		if err != nil {
			return err
		}

		groupNames := make(map[string]string)
		for _, exp := range mine {
			if exp.GroupID == "" {
				continue
			}
			if _, ok := groupNames[exp.GroupID]; ok {
				continue
			}
			g, err := tx.GetGroup(exp.GroupID)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				groupNames[exp.GroupID] = ""
			case err != nil:
				return err
			default:
				groupNames[exp.GroupID] = g.Name
			}
		}

		out = make([]ActivityItem, 0, len(mine))
		for _, exp := range mine {
			out = append(out, ActivityItem{
				Expense:   exp,
				PayerName: people[exp.PayerID].Name,
				GroupName: groupNames[exp.GroupID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Spending returns userID's own share of the expenses dated within year,
// in total and per month.
func (e *Engine) Spending(ctx context.Context, userID string, year int) (*calculator.Spending, error) {
	if year <= 0 {
		year = e.now().UTC().Year()
	}

	var out calculator.Spending
	err := e.read(ctx, "Spending", userID, func(ctx context.Context, tx storage.Tx) error {
		from, to := calculator.YearRange(year)
		expenses, err := tx.ListExpensesBetween(from, to)
		if err != nil {
			return err
		}
		out = calculator.ComputeSpending(userID, year, expenses)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewSplit computes the shares an expense would be recorded with,
// without storing anything.
func (e *Engine) PreviewSplit(amount float64, splitType models.SplitType, shares []calculator.Share) ([]models.Split, error) {
	splits, err := calculator.CalculateSplit(amount, splitType, shares)
	if err != nil {
		return nil, validation("%v", err)
	}
	return splits, nil
}
