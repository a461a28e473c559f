// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the transactional contract the ledger runs on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine.
type Store interface {
	// ReadTx runs fn against one consistent snapshot. fn must not write.
	ReadTx(ctx context.Context, fn func(Tx) error) error

	// WriteTx runs fn as one serializable unit. If fn returns an error
	// nothing it wrote is kept.
	WriteTx(ctx context.Context, fn func(Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the query surface available inside a transaction. List methods
// return records in no particular order unless stated.
type Tx interface {
	// GetExpense returns ErrNotFound when the expense does not exist.
	GetExpense(id string) (*models.Expense, error)
	InsertExpense(e *models.Expense) error
	// DeleteExpense returns ErrNotFound when the expense does not exist.
	DeleteExpense(id string) error

	// ListUngroupedExpensesByPayer reads the (payer, group) index.
	ListUngroupedExpensesByPayer(payerID string) ([]models.Expense, error)
	// ListUngroupedExpensesInvolving returns ungrouped expenses where
	// userID is the payer or holds a split.
	ListUngroupedExpensesInvolving(userID string) ([]models.Expense, error)
	ListExpensesByGroup(groupID string) ([]models.Expense, error)
	// ListRecentExpenses returns up to limit expenses, newest first.
	ListRecentExpenses(limit int) ([]models.Expense, error)
	// ListExpensesBetween returns expenses dated within [from, to).
	ListExpensesBetween(from, to int64) ([]models.Expense, error)

	InsertSettlement(s *models.Settlement) error
	DeleteSettlement(id string) error
	// SetSettlementRelatedExpenses replaces the settlement's related
	// expense references.
	SetSettlementRelatedExpenses(settlementID string, expenseIDs []string) error
	// ListUngroupedSettlementsBetween returns ungrouped settlements between
	// a and b in either direction.
	ListUngroupedSettlementsBetween(a, b string) ([]models.Settlement, error)
	ListUngroupedSettlementsInvolving(userID string) ([]models.Settlement, error)
	ListSettlementsByGroup(groupID string) ([]models.Settlement, error)
	// ListSettlementsByRelatedExpense reads the related-expense index.
	ListSettlementsByRelatedExpense(expenseID string) ([]models.Settlement, error)

	// GetGroup returns ErrNotFound when the group does not exist.
	GetGroup(id string) (*models.Group, error)
	CreateGroup(g *models.Group) error
	ListGroupsForMember(userID string) ([]models.Group, error)

	// GetUser returns ErrNotFound when the user does not exist.
	GetUser(id string) (*models.User, error)
	// GetUsers returns the users that exist among ids, keyed by ID.
	GetUsers(ids []string) (map[string]*models.User, error)
}
