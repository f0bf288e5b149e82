package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newMachine() *Machine {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestAdvance_FullChain(t *testing.T) {
	m := newMachine()
	o := &entity.Order{ID: "o1", Status: entity.StatusNew}

	for _, next := range []entity.Status{
		entity.StatusOrdered,
		entity.StatusShippedFromStore,
		entity.StatusArrivedAtOffice,
		entity.StatusStored,
		entity.StatusCompleted,
	} {
		adv, err := m.Advance(o, next, Payload{Actor: "admin"})
		require.NoError(t, err, "advance to %s", next)
		assert.Equal(t, next, adv.Status)
		assert.Equal(t, o.History.Len()+1, adv.History.Len())
		o = adv
	}

	require.NotNil(t, o.OrderDate)
	require.NotNil(t, o.ArrivedAt)
	require.NotNil(t, o.StoredAt)
	require.NotNil(t, o.WithdrawnAt)
	assert.Equal(t, fixedNow, *o.WithdrawnAt)
	assert.Nil(t, o.ExpectedArrival)
}

func TestAdvance_NoSkip(t *testing.T) {
	m := newMachine()
	o := &entity.Order{ID: "o1", Status: entity.StatusNew}

	_, err := m.Advance(o, entity.StatusStored, Payload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	var ite *IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, entity.StatusNew, ite.From)
	assert.Equal(t, entity.StatusStored, ite.To)

	_, err = m.Advance(&entity.Order{Status: entity.StatusCompleted}, entity.StatusCompleted, Payload{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	m := newMachine()
	o := &entity.Order{ID: "o1", Status: entity.StatusNew}

	_, err := m.Advance(o, entity.StatusOrdered, Payload{Actor: "admin"})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusNew, o.Status)
	assert.Nil(t, o.OrderDate)
	assert.Equal(t, 0, o.History.Len())
}

func TestAdvance_Payload(t *testing.T) {
	m := newMachine()
	eta := fixedNow.Add(14 * 24 * time.Hour)
	o := &entity.Order{ID: "o1", Status: entity.StatusNew}

	adv, err := m.Advance(o, entity.StatusOrdered, Payload{
		Actor:           "admin",
		Note:            "paid by card",
		ExpectedArrival: &eta,
		TrackingNumber:  "RB123",
	})
	require.NoError(t, err)

	require.NotNil(t, adv.ExpectedArrival)
	assert.Equal(t, eta, *adv.ExpectedArrival)
	assert.Equal(t, "RB123", adv.TrackingNumber)

	last, ok := adv.History.Last()
	require.True(t, ok)
	assert.Equal(t, "admin", last.Actor)
	assert.Equal(t, "status NEW -> ORDERED: paid by card", last.Activity)
}

func TestOutForDeliveryBranch(t *testing.T) {
	m := newMachine()
	stored := &entity.Order{ID: "o1", Status: entity.StatusStored}

	out, err := m.Advance(stored, entity.StatusOutForDelivery, Payload{})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOutForDelivery, out.Status)

	back, err := m.Revert(out, Payload{})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusStored, back.Status)

	done, err := m.Advance(out, entity.StatusCompleted, Payload{})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, done.Status)

	_, err = m.Advance(&entity.Order{Status: entity.StatusArrivedAtOffice}, entity.StatusOutForDelivery, Payload{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestRevert_UndoesCompletion(t *testing.T) {
	m := newMachine()
	o := &entity.Order{
		ID:            "o1",
		Status:        entity.StatusStored,
		DeclaredPrice: 6000,
		Commission:    1000,
		ShippingCost:  1000,
		AmountPaid:    5000,
	}
	require.EqualValues(t, 8000, o.Total())

	done, err := m.Advance(o, entity.StatusCompleted, Payload{Actor: "admin"})
	require.NoError(t, err)
	require.Equal(t, entity.StatusCompleted, done.Status)

	back, err := m.Revert(done, Payload{Actor: "admin"})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusStored, back.Status)
	assert.Equal(t, done.History.Len()+1, back.History.Len())
	assert.EqualValues(t, 5000, back.AmountPaid)
	assert.NotNil(t, back.WithdrawnAt)
	assert.EqualValues(t, 3000, Debt(back))
}

func TestRevert_InverseOfAdvance(t *testing.T) {
	m := newMachine()
	for _, from := range []entity.Status{
		entity.StatusNew,
		entity.StatusOrdered,
		entity.StatusShippedFromStore,
		entity.StatusArrivedAtOffice,
		entity.StatusStored,
	} {
		o := &entity.Order{ID: "o1", Status: from}
		for _, to := range Successors(from) {
			adv, err := m.Advance(o, to, Payload{})
			require.NoError(t, err)

			back, err := m.Revert(adv, Payload{})
			require.NoError(t, err)
			assert.Equal(t, from, back.Status, "%s -> %s -> back", from, to)
		}
	}
}

func TestRevert_Edges(t *testing.T) {
	m := newMachine()

	t.Run("new is a no-op", func(t *testing.T) {
		o := &entity.Order{ID: "o1", Status: entity.StatusNew}
		got, err := m.Revert(o, Payload{})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusNew, got.Status)
		assert.Equal(t, 0, got.History.Len())
	})

	t.Run("cancelled is final", func(t *testing.T) {
		_, err := m.Revert(&entity.Order{Status: entity.StatusCancelled}, Payload{})
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestCancel(t *testing.T) {
	m := newMachine()

	got, err := m.Cancel(&entity.Order{ID: "o1", Status: entity.StatusShippedFromStore}, Payload{Actor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	assert.Equal(t, 1, got.History.Len())

	for _, s := range []entity.Status{entity.StatusCompleted, entity.StatusCancelled} {
		_, err := m.Cancel(&entity.Order{Status: s}, Payload{})
		assert.ErrorIs(t, err, ErrIllegalTransition, s)
	}
}
