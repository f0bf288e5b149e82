package mapper

import (
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

var ErrMapping = errors.New("mapping error")

// MappingError reports a row that breaks the backend contract: a missing
// identifier or a field whose value has the wrong type.
type MappingError struct {
	Kind   entity.Kind
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s row: field %q: %s", e.Kind, e.Field, e.Reason)
}

func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}
