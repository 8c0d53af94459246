package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/application/services/criticalpath"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
	"github.com/vsinha/mrpplan/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/memory"
)

type testServer struct {
	server   *Server
	results  *memory.ResultRepository
	events   *events.InMemoryEventStore
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, structure *entities.Structure) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	plannerMetrics := metrics.NewPlannerMetrics(registry)
	store := events.NewInMemoryEventStore()
	store.Subscribe(plannerMetrics)
	results := memory.NewResultRepository()

	planner := mrp.NewPlanner(mrp.DefaultEngineConfig(), mrp.WithEventStore(store), mrp.WithMetrics(plannerMetrics))
	orchestrator := orchestration.NewPlanningOrchestrator(
		planner,
		criticalpath.NewCriticalPathService(),
		memory.NewStructureRepositoryFrom(structure),
		demand.NewUniformDemandSource([]entities.Quantity{40, 40, 40, 40, 40}),
		results,
	)

	return &testServer{
		server: NewServer(Dependencies{
			Runner:   orchestrator,
			Results:  results,
			Events:   store,
			Metrics:  plannerMetrics,
			Gatherer: registry,
		}),
		results:  results,
		events:   store,
		registry: registry,
	}
}

func doRequest(t *testing.T, s *Server, method, target string) (int, []byte) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())

	status, body := doRequest(t, ts.server, "GET", "/health")

	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestServer_CreatePlan(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())

	status, body := doRequest(t, ts.server, "POST", "/api/plans?top_paths=2")
	require.Equal(t, 201, status, string(body))

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, entities.Horizon(5), resp.Run.Horizon)
	assert.Equal(t, entities.ExplodeReleases, resp.Run.ExplosionBasis)
	assert.Equal(t, 10, resp.Run.RecordCount)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 1, resp.Summary.OrdersReleased)
	require.Len(t, resp.CriticalPaths, 1)
	assert.Equal(t, []entities.PartID{1, 2}, resp.CriticalPaths[0].Path)

	assert.Len(t, ts.results.AllRecords(), 10)
	assert.Positive(t, ts.events.Len())
}

func TestServer_CreatePlanRejectsNegativeTopPaths(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())

	status, body := doRequest(t, ts.server, "POST", "/api/plans?top_paths=-1")

	assert.Equal(t, 400, status)
	assert.JSONEq(t, `{"error":"top_paths must not be negative"}`, string(body))
}

func TestServer_CreatePlanCyclicBOM(t *testing.T) {
	ts := newTestServer(t, &entities.Structure{
		Parts: []entities.Part{{ID: 1, LotSize: 10}, {ID: 2, LotSize: 10}},
		Edges: []entities.BOMEdge{
			{ParentID: 1, ComponentID: 2, QtyPer: 1},
			{ParentID: 2, ComponentID: 1, QtyPer: 1},
		},
		Horizon: 5,
	})

	status, body := doRequest(t, ts.server, "POST", "/api/plans")

	assert.Equal(t, 422, status)
	assert.Contains(t, string(body), "cyclic bill of materials")
	assert.Empty(t, ts.results.AllRecords())
}

type failingRunner struct{}

func (failingRunner) RunCompletePlanning(context.Context, int) (*orchestration.PlanningResult, error) {
	return nil, errors.New("database unavailable")
}

func TestServer_CreatePlanInternalError(t *testing.T) {
	s := NewServer(Dependencies{Runner: failingRunner{}, Results: memory.NewResultRepository()})

	status, body := doRequest(t, s, "POST", "/api/plans")

	assert.Equal(t, 500, status)
	assert.JSONEq(t, `{"error":"internal server error"}`, string(body))
}

func TestServer_LatestRunAndPartRecords(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())

	status, _ := doRequest(t, ts.server, "GET", "/api/plans/latest")
	assert.Equal(t, 404, status)

	status, _ = doRequest(t, ts.server, "POST", "/api/plans")
	require.Equal(t, 201, status)

	status, body := doRequest(t, ts.server, "GET", "/api/plans/latest")
	require.Equal(t, 200, status)
	var run entities.PlanningRun
	require.NoError(t, json.Unmarshal(body, &run))
	assert.Equal(t, 2, run.PartCount)

	status, body = doRequest(t, ts.server, "GET", "/api/plans/parts/1")
	require.Equal(t, 200, status)
	var partResp struct {
		PartID  int                          `json:"part_id"`
		Records []entities.RequirementRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(body, &partResp))
	require.Len(t, partResp.Records, 5)
	assert.Equal(t, entities.Quantity(100), partResp.Records[0].PlannedOrderRelease)
	assert.Equal(t, entities.Quantity(70), partResp.Records[0].EndingInventory)

	status, _ = doRequest(t, ts.server, "GET", "/api/plans/parts/42")
	assert.Equal(t, 404, status)

	status, _ = doRequest(t, ts.server, "GET", "/api/plans/parts/abc")
	assert.Equal(t, 400, status)
}

func TestServer_Events(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())
	status, _ := doRequest(t, ts.server, "POST", "/api/plans")
	require.Equal(t, 201, status)

	status, body := doRequest(t, ts.server, "GET", "/api/plans/events")
	require.Equal(t, 200, status)

	var resp struct {
		Count  int `json:"count"`
		Events []struct {
			Type string `json:"type"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	// started, one per part, completed
	require.Equal(t, 4, resp.Count)
	assert.Equal(t, events.PlanningStartedEvent, resp.Events[0].Type)
	assert.Equal(t, events.PlanningCompletedEvent, resp.Events[3].Type)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, fixtures.SingleComponentStructure())
	status, _ := doRequest(t, ts.server, "POST", "/api/plans")
	require.Equal(t, 201, status)

	status, body := doRequest(t, ts.server, "GET", "/metrics")

	require.Equal(t, 200, status)
	assert.Contains(t, string(body), "mrp_planning_runs_total")
	assert.Contains(t, string(body), `mrp_http_requests_total{endpoint="/api/plans",method="POST",status="201"} 1`)
	assert.Contains(t, string(body), `mrp_planning_events_total{type="planning.part.planned"} 2`)
	assert.Contains(t, string(body), `mrp_planning_events_total{type="planning.completed"} 1`)
}
