// Package auth resolves the caller of an RPC. Identity is a collaborator of
// the ledger: it only ever hands the engine a user ID.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers and verifies users. Implementations differ in the
// credential they accept (password, passkey, OAuth token).
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup returns the user with the given ID.
	Lookup(ctx context.Context, userID string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
