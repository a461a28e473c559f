// Package id generates and checks the prefixed identifiers used for every
// ledger record.
//
// Identifiers are TypeIDs ("exp_01h2xcejqtf2nbrexx3vqjhp41"): the prefix names
// the record kind and the suffix is a UUIDv7, so identifiers sort by creation
// time.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record kind encoded in an identifier.
type Prefix string

const (
	PrefixUser       Prefix = "usr"
	PrefixGroup      Prefix = "grp"
	PrefixExpense    Prefix = "exp"
	PrefixSettlement Prefix = "stl"
)

// New generates a new identifier with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// NewUser generates a new user identifier.
func NewUser() string { return New(PrefixUser) }

// NewGroup generates a new group identifier.
func NewGroup() string { return New(PrefixGroup) }

// NewExpense generates a new expense identifier.
func NewExpense() string { return New(PrefixExpense) }

// NewSettlement generates a new settlement identifier.
func NewSettlement() string { return New(PrefixSettlement) }

// Check reports an error if s is not a well-formed identifier carrying the
// expected prefix.
func Check(s string, expected Prefix) error {
	if s == "" {
		return fmt.Errorf("id: empty %s id", expected)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return fmt.Errorf("id: parse %q: %w", s, err)
	}
	if Prefix(tid.Prefix()) != expected {
		return fmt.Errorf("id: expected prefix %q, got %q", expected, tid.Prefix())
	}
	return nil
}
