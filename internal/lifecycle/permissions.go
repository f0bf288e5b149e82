package lifecycle

import "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"

// Permissions are the flags an operator holds. The machine itself ignores
// them; command handlers check them before calling it.
type Permissions struct {
	Advance         map[entity.Status]bool
	Revert          bool
	Cancel          bool
	Payments        bool
	CorrectPayments bool
	Flags           bool
}

func Full() Permissions {
	adv := make(map[entity.Status]bool)
	for _, s := range []entity.Status{
		entity.StatusOrdered, entity.StatusShippedFromStore, entity.StatusArrivedAtOffice,
		entity.StatusStored, entity.StatusCompleted, entity.StatusOutForDelivery,
	} {
		adv[s] = true
	}
	return Permissions{
		Advance:         adv,
		Revert:          true,
		Cancel:          true,
		Payments:        true,
		CorrectPayments: true,
		Flags:           true,
	}
}

// Operator may move orders forward, take payments and set flags.
func Operator() Permissions {
	p := Full()
	p.Revert = false
	p.Cancel = false
	p.CorrectPayments = false
	return p
}

func (p Permissions) CanAdvance(to entity.Status) bool {
	return p.Advance[to]
}
