package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = `id, description, amount, category, date, payer_id, split_type, group_id, created_by`

// InsertExpense persists an expense and its splits.
func (t *sqliteTx) InsertExpense(e *models.Expense) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, e.Category, e.Date, e.PayerID,
		string(e.SplitType), nullable(e.GroupID), e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, s := range e.Splits {
		_, err = t.q.ExecContext(t.ctx,
			"INSERT INTO expense_splits (expense_id, position, participant_id, amount, paid) VALUES (?, ?, ?, ?, ?)",
			e.ID, i, s.ParticipantID, s.Amount, boolInt(s.Paid),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (t *sqliteTx) GetExpense(id string) (*models.Expense, error) {
	expenses, err := t.queryExpenses(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	return &expenses[0], nil
}

// DeleteExpense removes an expense; its splits go with it.
func (t *sqliteTx) DeleteExpense(id string) error {
	res, err := t.q.ExecContext(t.ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res, "expense", id)
}

func (t *sqliteTx) ListUngroupedExpensesByPayer(payerID string) ([]models.Expense, error) {
	return t.queryExpenses(
		`SELECT `+expenseColumns+` FROM expenses WHERE payer_id = ? AND group_id IS NULL`,
		payerID,
	)
}

func (t *sqliteTx) ListUngroupedExpensesInvolving(userID string) ([]models.Expense, error) {
	return t.queryExpenses(
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE group_id IS NULL
		   AND (payer_id = ? OR id IN (SELECT expense_id FROM expense_splits WHERE participant_id = ?))`,
		userID, userID,
	)
}

func (t *sqliteTx) ListExpensesByGroup(groupID string) ([]models.Expense, error) {
	return t.queryExpenses(
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ?`,
		groupID,
	)
}

func (t *sqliteTx) ListRecentExpenses(limit int) ([]models.Expense, error) {
	return t.queryExpenses(
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC LIMIT ?`,
		limit,
	)
}

func (t *sqliteTx) ListExpensesBetween(from, to int64) ([]models.Expense, error) {
	return t.queryExpenses(
		`SELECT `+expenseColumns+` FROM expenses WHERE date >= ? AND date < ? ORDER BY date, id`,
		from, to,
	)
}

// queryExpenses runs query, then loads the splits of every returned expense.
// Row order is preserved.
func (t *sqliteTx) queryExpenses(query string, args ...any) ([]models.Expense, error) {
	rows, err := t.q.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var splitType string
		var groupID sql.NullString
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date,
			&e.PayerID, &splitType, &groupID, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitType = models.SplitType(splitType)
		e.GroupID = groupID.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := t.attachSplits(expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (t *sqliteTx) attachSplits(expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	index := make(map[string]int, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		index[e.ID] = i
		ids[i] = e.ID
	}

	for _, batch := range chunks(ids) {
		if err := t.attachSplitBatch(expenses, index, batch); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqliteTx) attachSplitBatch(expenses []models.Expense, index map[string]int, ids []string) error {
	rows, err := t.q.QueryContext(t.ctx,
		`SELECT expense_id, participant_id, amount, paid FROM expense_splits
		 WHERE expense_id IN (`+placeholders(len(ids))+`)
		 ORDER BY expense_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var s models.Split
		if err := rows.Scan(&expenseID, &s.ParticipantID, &s.Amount, &s.Paid); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			return fmt.Errorf("split for unexpected expense %s", expenseID)
		}
		expenses[i].Splits = append(expenses[i].Splits, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
