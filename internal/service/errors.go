package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
)

func unauthenticated() error {
	return connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
}

// toConnectError maps a ledger failure onto the Connect code clients see.
// Unclassified errors become Internal and keep their detail out of the
// response.
func toConnectError(err error) error {
	var lerr *ledger.Error
	if !errors.As(err, &lerr) {
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, ledger.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrAuthorization):
		code = connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrConflict):
		code = connect.CodeFailedPrecondition
	}
	return connect.NewError(code, errors.New(lerr.Message))
}
