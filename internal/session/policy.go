package session

import (
	"errors"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
)

var (
	ErrForbidden    = errors.New("operation not permitted")
	ErrInvalidInput = errors.New("invalid input")
)

// Policy resolves the permissions of an operator.
type Policy func(actor string) lifecycle.Permissions

// AdminPolicy grants everything to admin and the operator set to everyone else.
func AdminPolicy(admin string) Policy {
	return func(actor string) lifecycle.Permissions {
		if actor != "" && actor == admin {
			return lifecycle.Full()
		}
		return lifecycle.Operator()
	}
}
