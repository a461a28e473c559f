package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

const settlementColumns = `id, amount, note, date, payer_id, receiver_id, group_id, created_by`

// InsertSettlement persists a new settlement and its related-expense index rows.
func (t *sqliteTx) InsertSettlement(s *models.Settlement) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Amount, nullable(s.Note), s.Date, s.PayerID, s.ReceiverID,
		nullable(s.GroupID), s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return t.insertRelated(s.ID, s.RelatedExpenseIDs)
}

// DeleteSettlement removes a settlement by ID.
func (t *sqliteTx) DeleteSettlement(id string) error {
	res, err := t.q.ExecContext(t.ctx, "DELETE FROM settlements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return requireAffected(res, "settlement", id)
}

// SetSettlementRelatedExpenses replaces the settlement's index rows.
func (t *sqliteTx) SetSettlementRelatedExpenses(settlementID string, expenseIDs []string) error {
	_, err := t.q.ExecContext(t.ctx,
		"DELETE FROM settlement_expenses WHERE settlement_id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to clear related expenses: %w", err)
	}
	return t.insertRelated(settlementID, expenseIDs)
}

func (t *sqliteTx) insertRelated(settlementID string, expenseIDs []string) error {
	for i, expenseID := range expenseIDs {
		_, err := t.q.ExecContext(t.ctx,
			"INSERT OR IGNORE INTO settlement_expenses (settlement_id, expense_id, position) VALUES (?, ?, ?)",
			settlementID, expenseID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert related expense: %w", err)
		}
	}
	return nil
}

func (t *sqliteTx) ListUngroupedSettlementsBetween(a, b string) ([]models.Settlement, error) {
	return t.querySettlements(
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE group_id IS NULL
		   AND ((payer_id = ? AND receiver_id = ?) OR (payer_id = ? AND receiver_id = ?))`,
		a, b, b, a,
	)
}

func (t *sqliteTx) ListUngroupedSettlementsInvolving(userID string) ([]models.Settlement, error) {
	return t.querySettlements(
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE group_id IS NULL AND (payer_id = ? OR receiver_id = ?)`,
		userID, userID,
	)
}

// ListSettlementsByGroup retrieves all settlements for a group.
func (t *sqliteTx) ListSettlementsByGroup(groupID string) ([]models.Settlement, error) {
	return t.querySettlements(
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ?`,
		groupID,
	)
}

func (t *sqliteTx) ListSettlementsByRelatedExpense(expenseID string) ([]models.Settlement, error) {
	return t.querySettlements(
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE id IN (SELECT settlement_id FROM settlement_expenses WHERE expense_id = ?)
		 ORDER BY date, id`,
		expenseID,
	)
}

func (t *sqliteTx) querySettlements(query string, args ...any) ([]models.Settlement, error) {
	rows, err := t.q.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var s models.Settlement
		var note, groupID sql.NullString
		if err := rows.Scan(&s.ID, &s.Amount, &note, &s.Date, &s.PayerID, &s.ReceiverID,
			&groupID, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.Note = note.String
		s.GroupID = groupID.String
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	rows.Close()

	if err := t.attachRelated(settlements); err != nil {
		return nil, err
	}
	return settlements, nil
}

func (t *sqliteTx) attachRelated(settlements []models.Settlement) error {
	if len(settlements) == 0 {
		return nil
	}

	index := make(map[string]int, len(settlements))
	ids := make([]string, len(settlements))
	for i, s := range settlements {
		index[s.ID] = i
		ids[i] = s.ID
	}

	for _, batch := range chunks(ids) {
		if err := t.attachRelatedBatch(settlements, index, batch); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqliteTx) attachRelatedBatch(settlements []models.Settlement, index map[string]int, ids []string) error {
	rows, err := t.q.QueryContext(t.ctx,
		`SELECT settlement_id, expense_id FROM settlement_expenses
		 WHERE settlement_id IN (`+placeholders(len(ids))+`)
		 ORDER BY settlement_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get related expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var settlementID, expenseID string
		if err := rows.Scan(&settlementID, &expenseID); err != nil {
			return fmt.Errorf("failed to scan related expense: %w", err)
		}
		if i, ok := index[settlementID]; ok {
			settlements[i].RelatedExpenseIDs = append(settlements[i].RelatedExpenseIDs, expenseID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate related expenses: %w", err)
	}
	return nil
}
