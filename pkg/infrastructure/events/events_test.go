package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore()
	run := entities.NewPlanningRun(5, entities.ExplodeReleases, time.Now())

	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningStartedEvent(run)))
	require.NoError(t, store.AppendEvent(PartStream(1), NewPartPlannedEvent(run, entities.Part{ID: 1}, nil)))
	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningCompletedEvent(run)))

	runEvents, err := store.ReadEvents(run.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, runEvents, 2)
	assert.Equal(t, PlanningStartedEvent, runEvents[0].Type())
	assert.Equal(t, 1, runEvents[0].Version())
	assert.Equal(t, 2, runEvents[1].Version())

	later, err := store.ReadEvents(run.ID.String(), 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, store.Len())

	missing, err := store.ReadEvents("part-99", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestNewPartPlannedEvent_Summarizes(t *testing.T) {
	run := entities.NewPlanningRun(3, entities.ExplodeReleases, time.Now())
	part := entities.Part{ID: 4, LowLevelCode: 2}
	records := []entities.RequirementRecord{
		{PartID: 4, PeriodID: 1, GrossRequirements: 40, EndingInventory: 70, PlannedOrderRelease: 100},
		{PartID: 4, PeriodID: 2, GrossRequirements: 40, EndingInventory: 30},
		{PartID: 4, PeriodID: 3, GrossRequirements: 40, EndingInventory: 90},
	}

	event := NewPartPlannedEvent(run, part, records)

	assert.Equal(t, "part-4", event.StreamID())
	data, ok := event.Data().(PartPlanned)
	require.True(t, ok)
	assert.Equal(t, entities.Quantity(120), data.TotalGross)
	assert.Equal(t, 1, data.OrdersReleased)
	assert.Equal(t, entities.Quantity(90), data.FinalInventory)
	assert.Equal(t, 2, data.LowLevelCode)
}

func TestInMemoryEventStore_NotifiesMatchingSubscribers(t *testing.T) {
	store := NewInMemoryEventStore()
	run := entities.NewPlanningRun(1, entities.ExplodeGross, time.Now())

	var completed, all []string
	store.Subscribe(HandlerFunc(func(e Event) error {
		completed = append(completed, e.Type())
		return errors.New("handler failed")
	}), PlanningCompletedEvent, PlanningFailedEvent)
	store.Subscribe(HandlerFunc(func(e Event) error {
		all = append(all, e.Type())
		return nil
	}))

	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningStartedEvent(run)))
	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningCompletedEvent(run)))

	assert.Equal(t, []string{PlanningCompletedEvent}, completed)
	assert.Equal(t, []string{PlanningStartedEvent, PlanningCompletedEvent}, all)
	assert.Equal(t, 2, store.Len())
}

func TestInMemoryEventStore_Unsubscribe(t *testing.T) {
	store := NewInMemoryEventStore()
	run := entities.NewPlanningRun(1, entities.ExplodeReleases, time.Now())

	calls := map[string]int{}
	first := store.Subscribe(HandlerFunc(func(Event) error { calls["first"]++; return nil }))
	store.Subscribe(HandlerFunc(func(Event) error { calls["second"]++; return nil }))

	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningStartedEvent(run)))
	assert.True(t, store.Unsubscribe(first))
	assert.False(t, store.Unsubscribe(first))
	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningCompletedEvent(run)))

	assert.Equal(t, map[string]int{"first": 1, "second": 2}, calls)
}

func TestInMemoryEventStore_ReadReturnsCopies(t *testing.T) {
	store := NewInMemoryEventStore()
	run := entities.NewPlanningRun(1, entities.ExplodeReleases, time.Now())
	require.NoError(t, store.AppendEvent(run.ID.String(), NewPlanningStartedEvent(run)))

	read, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	read[0] = nil

	again, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.NotNil(t, again[0])
}
