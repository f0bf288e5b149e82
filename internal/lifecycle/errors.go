package lifecycle

import (
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

var ErrIllegalTransition = errors.New("illegal transition")

type IllegalTransitionError struct {
	From   entity.Status
	To     entity.Status
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
	}
	return fmt.Sprintf("illegal transition %s -> %s: %s", e.From, e.To, e.Reason)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
