package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
)

// PlannerMetrics exposes planning run and HTTP counters to Prometheus
type PlannerMetrics struct {
	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	partsPlanned   *prometheus.CounterVec
	ordersReleased *prometheus.CounterVec
	eventsTotal    *prometheus.CounterVec
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPlannerMetrics creates the collectors and registers them on reg
func NewPlannerMetrics(reg prometheus.Registerer) *PlannerMetrics {
	m := &PlannerMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrp_planning_runs_total",
				Help: "Total number of planning runs by outcome",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mrp_planning_run_duration_seconds",
				Help:    "Duration of planning runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		partsPlanned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrp_parts_planned_total",
				Help: "Total number of parts netted, by low-level code",
			},
			[]string{"level"},
		),
		ordersReleased: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrp_planned_orders_total",
				Help: "Total number of planned order releases, by make/buy",
			},
			[]string{"make_or_buy"},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrp_planning_events_total",
				Help: "Total number of planning events published, by type",
			},
			[]string{"type"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrp_http_requests_total",
				Help: "Total number of HTTP requests to the planning API",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mrp_http_request_duration_seconds",
				Help:    "Duration of planning API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	reg.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.partsPlanned,
		m.ordersReleased,
		m.eventsTotal,
		m.requestCounter,
		m.requestLatency,
	)

	return m
}

// ObserveRun records the outcome and wall time of one planning run
func (m *PlannerMetrics) ObserveRun(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// ObservePart records one netted part and the orders it released
func (m *PlannerMetrics) ObservePart(part entities.Part, ordersReleased int) {
	m.partsPlanned.WithLabelValues(strconv.Itoa(part.LowLevelCode)).Inc()
	if ordersReleased > 0 {
		m.ordersReleased.WithLabelValues(part.MakeOrBuy.String()).Add(float64(ordersReleased))
	}
}

// Handle counts one published planning event. It lets the metrics subscribe
// to an events.EventBus.
func (m *PlannerMetrics) Handle(event events.Event) error {
	m.eventsTotal.WithLabelValues(event.Type()).Inc()
	return nil
}

// ObserveRequest records one HTTP request
func (m *PlannerMetrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	m.requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.requestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}
