package models

import (
	"time"

	"github.com/mmynk/splitledger/internal/id"
)

// UnknownName is shown in place of a participant that cannot be resolved.
const UnknownName = "Unknown"

// User represents a registered participant.
// The ledger only ever reads users; it never mutates them.
type User struct {
	// ID is the unique identifier for the user ("usr_" TypeID).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown next to balances and activity.
	DisplayName string

	// ImageURL is an optional avatar URL.
	ImageURL string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           id.NewUser(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Participant is the public view of a user used to enrich balances.
type Participant struct {
	ID       string
	Name     string
	ImageURL string
}

// ParticipantOf returns the public view of u, or a placeholder carrying
// only userID when u is nil.
func ParticipantOf(userID string, u *User) Participant {
	if u == nil {
		return Participant{ID: userID, Name: UnknownName}
	}
	return Participant{ID: u.ID, Name: u.DisplayName, ImageURL: u.ImageURL}
}
