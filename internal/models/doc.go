// Package models defines the records kept by the ledger.
//
// # Records
//
//   - Expense: an outlay with a payer and a per-participant breakdown (Split)
//   - Settlement: a direct payment between two participants
//   - Group: a named scope with a member list
//   - User: a participant known to the identity service
//
// Expenses and settlements are immutable once stored. An expense can be
// deleted by its creator or its payer; a settlement disappears only when the
// last expense it references is deleted.
//
// # Design Principles
//
// 1. **IDs, not pointers**: records reference each other by ID strings
// 2. **No cached balances**: nothing here stores a derived amount; balances
//    are always recomputed from raw records
// 3. **Optional group**: an empty GroupID means the record is ungrouped
//    (one-to-one)
package models
