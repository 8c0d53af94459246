package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
)

func TestPlannerMetrics_ObserveRun(t *testing.T) {
	m := NewPlannerMetrics(prometheus.NewRegistry())

	m.ObserveRun(20*time.Millisecond, nil)
	m.ObserveRun(5*time.Millisecond, nil)
	m.ObserveRun(time.Millisecond, errors.New("sink unavailable"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("error")))
}

func TestPlannerMetrics_ObservePart(t *testing.T) {
	m := NewPlannerMetrics(prometheus.NewRegistry())

	m.ObservePart(entities.Part{ID: 5, LowLevelCode: 3, MakeOrBuy: entities.Buy}, 2)
	m.ObservePart(entities.Part{ID: 6, LowLevelCode: 3, MakeOrBuy: entities.Buy}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.partsPlanned.WithLabelValues("3")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersReleased.WithLabelValues("Buy")))
}

func TestPlannerMetrics_ObserveRequest(t *testing.T) {
	m := NewPlannerMetrics(prometheus.NewRegistry())

	m.ObserveRequest("POST", "/api/plans", 201, 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("POST", "/api/plans", "201")))
}

func TestPlannerMetrics_CountsSubscribedEvents(t *testing.T) {
	m := NewPlannerMetrics(prometheus.NewRegistry())
	store := events.NewInMemoryEventStore()
	id := store.Subscribe(m)

	run := entities.NewPlanningRun(2, entities.ExplodeReleases, time.Now())
	assert.NoError(t, store.AppendEvent(run.ID.String(), events.NewPlanningStartedEvent(run)))
	assert.NoError(t, store.AppendEvent(events.PartStream(1), events.NewPartPlannedEvent(run, entities.Part{ID: 1}, nil)))
	assert.NoError(t, store.AppendEvent(events.PartStream(2), events.NewPartPlannedEvent(run, entities.Part{ID: 2}, nil)))

	assert.True(t, store.Unsubscribe(id))
	assert.NoError(t, store.AppendEvent(run.ID.String(), events.NewPlanningCompletedEvent(run)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues(events.PlanningStartedEvent)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues(events.PartPlannedEvent)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues(events.PlanningCompletedEvent)))
}
