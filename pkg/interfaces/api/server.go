package api

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/application/services/report"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

const defaultTopPaths = 3

// PlanRunner executes one complete planning run
type PlanRunner interface {
	RunCompletePlanning(ctx context.Context, topPaths int) (*orchestration.PlanningResult, error)
}

// Dependencies wires the server to the planning services
type Dependencies struct {
	Runner   PlanRunner
	Results  repositories.ResultReader
	Events   events.EventStore
	Metrics  RequestObserver
	Gatherer prometheus.Gatherer
}

// Server exposes planning runs over HTTP
type Server struct {
	deps Dependencies
	// running serializes planning runs; results are replaced wholesale.
	running sync.Mutex
}

// PlanResponse is the body returned by POST /api/plans
type PlanResponse struct {
	Run                 entities.PlanningRun    `json:"run"`
	Summary             *report.PlanSummary     `json:"summary"`
	CriticalPaths       []criticalPathResponse  `json:"critical_paths"`
	CumulativeLeadTimes map[entities.PartID]int `json:"cumulative_lead_times"`
	TotalLeadTime       int                     `json:"total_lead_time"`
}

type criticalPathResponse struct {
	RootPart       entities.PartID   `json:"root_part"`
	TotalLeadTime  int               `json:"total_lead_time"`
	Path           []entities.PartID `json:"path"`
	BottleneckPart entities.PartID   `json:"bottleneck_part"`
	TotalPaths     int               `json:"total_paths"`
}

// NewServer creates a server over deps
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// App builds the fiber application with every route registered
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(TracingMiddleware())
	app.Use(LoggingMiddleware(s.deps.Metrics))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if s.deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	plans := app.Group("/api/plans")
	plans.Post("", s.createPlanHandler())
	plans.Get("/latest", s.latestRunHandler())
	plans.Get("/parts/:id", s.partRecordsHandler())
	plans.Get("/events", s.eventsHandler())

	return app
}

// POST /api/plans?top_paths=3
func (s *Server) createPlanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		topPaths := c.QueryInt("top_paths", defaultTopPaths)
		if topPaths < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "top_paths must not be negative")
		}

		if !s.running.TryLock() {
			return fiber.NewError(fiber.StatusConflict, "a planning run is already in progress")
		}
		defer s.running.Unlock()

		result, err := s.deps.Runner.RunCompletePlanning(c.UserContext(), topPaths)
		if err != nil {
			if entities.IsConfigError(err) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(newPlanResponse(result))
	}
}

// GET /api/plans/latest
func (s *Server) latestRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		run, err := s.deps.Results.LatestRun(c.UserContext())
		if err != nil {
			return notFoundOr(err)
		}
		return c.JSON(run)
	}
}

// GET /api/plans/parts/:id
func (s *Server) partRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "part id must be a positive integer")
		}

		records, err := s.deps.Results.PartRecords(c.UserContext(), entities.PartID(id))
		if err != nil {
			return notFoundOr(err)
		}
		if len(records) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no records for part "+strconv.Itoa(id))
		}
		return c.JSON(fiber.Map{
			"part_id": id,
			"records": records,
		})
	}
}

// GET /api/plans/events?from=0
func (s *Server) eventsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.deps.Events == nil {
			return c.JSON(fiber.Map{"events": []events.Event{}})
		}
		from := c.QueryInt("from", 0)
		list, err := s.deps.Events.ReadAllEvents(from)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"from":   from,
			"count":  len(list),
			"events": list,
		})
	}
}

func newPlanResponse(result *orchestration.PlanningResult) PlanResponse {
	resp := PlanResponse{
		Run:                 result.Plan.Run,
		Summary:             result.Summary,
		CriticalPaths:       make([]criticalPathResponse, 0, len(result.CriticalPaths)),
		CumulativeLeadTimes: result.CumulativeLeadTimes,
		TotalLeadTime:       result.TotalLeadTime,
	}
	for _, analysis := range result.CriticalPaths {
		resp.CriticalPaths = append(resp.CriticalPaths, criticalPathResponse{
			RootPart:       analysis.RootPart,
			TotalLeadTime:  analysis.CriticalPath.TotalLeadTime,
			Path:           analysis.CriticalPath.Path,
			BottleneckPart: analysis.CriticalPath.BottleneckPart,
			TotalPaths:     analysis.TotalPaths,
		})
	}
	return resp
}

func notFoundOr(err error) error {
	if errors.Is(err, repositories.ErrNoResults) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg("Unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
