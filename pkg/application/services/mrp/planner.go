package mrp

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/domain/services"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

var tracer = otel.Tracer("mrp-planner")

// EngineConfig holds configuration for the planning engine
type EngineConfig struct {
	// Workers bounds how many parts of one level are planned concurrently.
	Workers int
	// Basis selects the parent row that drives dependent demand.
	Basis entities.ExplosionBasis
}

// DefaultEngineConfig plans sequentially from planned order releases
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers: 1,
		Basis:   entities.ExplodeReleases,
	}
}

// MetricsRecorder receives run and part observations
type MetricsRecorder interface {
	ObserveRun(duration time.Duration, err error)
	ObservePart(part entities.Part, ordersReleased int)
}

// Option customizes a Planner
type Option func(*Planner)

// WithEventStore publishes planning events to store
func WithEventStore(store events.EventStore) Option {
	return func(p *Planner) {
		p.eventStore = store
	}
}

// WithMetrics reports run and part metrics to recorder
func WithMetrics(recorder MetricsRecorder) Option {
	return func(p *Planner) {
		p.metrics = recorder
	}
}

// WithClock overrides the time source used to stamp runs
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// Planner runs leveling, demand explosion and netting over a product structure.
// Each call to Plan starts from an empty requirement table.
type Planner struct {
	config     EngineConfig
	eventStore events.EventStore
	metrics    MetricsRecorder
	now        func() time.Time
}

// NewPlanner creates a planner; a non-positive worker count plans sequentially
func NewPlanner(config EngineConfig, opts ...Option) *Planner {
	if config.Workers < 1 {
		config.Workers = 1
	}
	p := &Planner{
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the effective engine configuration
func (p *Planner) Config() EngineConfig {
	return p.config
}

// Plan computes the requirement records of every part over the structure's horizon.
// Configuration errors abort before any record is produced; demand source
// errors are returned wrapped and unchanged.
func (p *Planner) Plan(
	ctx context.Context,
	structure *entities.Structure,
	demand repositories.DemandSource,
) (result *dto.PlanResult, err error) {
	if structure == nil {
		return nil, &entities.ConfigError{
			Kind:   entities.ErrInvalidParameter,
			Detail: "product structure is nil",
		}
	}

	ctx, span := tracer.Start(ctx, "planner.Plan",
		trace.WithAttributes(
			attribute.Int("mrp.horizon", int(structure.Horizon)),
			attribute.Int("mrp.parts", len(structure.Parts)),
			attribute.String("mrp.explosion_basis", p.config.Basis.String()),
		),
	)
	defer span.End()

	run := entities.NewPlanningRun(structure.Horizon, p.config.Basis, p.now())
	run.PartCount = len(structure.Parts)

	defer func() {
		if p.metrics != nil {
			p.metrics.ObserveRun(p.now().Sub(run.StartedAt), err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.publish(ctx, run.ID.String(), events.NewPlanningFailedEvent(run, err))
			logger.Error(ctx).Err(err).Str("run_id", run.ID.String()).Msg("Planning run failed")
		}
	}()

	ps, err := services.NewProductStructure(structure)
	if err != nil {
		return nil, err
	}

	leveling, err := services.AssignLowLevelCodes(ps)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("mrp.run_id", run.ID.String()),
		attribute.Int("mrp.levels", len(leveling.Levels)),
	)
	logger.Info(ctx).
		Str("run_id", run.ID.String()).
		Int("parts", ps.Len()).
		Int("levels", len(leveling.Levels)).
		Int("horizon", int(ps.Horizon())).
		Str("basis", p.config.Basis.String()).
		Msg("Planning run started")
	p.publish(ctx, run.ID.String(), events.NewPlanningStartedEvent(run))

	table := NewRequirementTable(ps)

	for level, indices := range leveling.Levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.planLevel(ctx, run, ps, table, level, indices, demand); err != nil {
			return nil, err
		}
	}

	parts := make([]entities.Part, len(leveling.Order))
	for i, index := range leveling.Order {
		parts[i] = *ps.Part(index)
	}

	run.FinishedAt = p.now()
	result = &dto.PlanResult{
		Parts:   parts,
		Records: table.Records(leveling.Order),
	}
	run.RecordCount = len(result.Records)
	result.Run = run

	p.publish(ctx, run.ID.String(), events.NewPlanningCompletedEvent(run))
	logger.Info(ctx).
		Str("run_id", run.ID.String()).
		Int("records", run.RecordCount).
		Dur("duration", run.Duration()).
		Msg("Planning run completed")

	return result, nil
}

// planLevel plans every part of one low-level code. Root demand is pulled in
// processing order before the level fans out, so the demand source sees the
// same call sequence whatever the worker count.
func (p *Planner) planLevel(
	ctx context.Context,
	run entities.PlanningRun,
	ps *services.ProductStructure,
	table *RequirementTable,
	level int,
	indices []int,
	demand repositories.DemandSource,
) error {
	ctx, span := tracer.Start(ctx, "planner.level",
		trace.WithAttributes(
			attribute.Int("mrp.level", level),
			attribute.Int("mrp.parts", len(indices)),
		),
	)
	defer span.End()

	rows := make([][]entities.RequirementRecord, len(indices))
	for i, index := range indices {
		part := ps.Part(index)
		row, err := table.Open(index, part.ID)
		if err != nil {
			return err
		}
		rows[i] = row

		if part.LowLevelCode != 0 {
			continue
		}
		if demand == nil {
			return fmt.Errorf("no demand source for root part %d", part.ID)
		}
		quantities, err := demand.Demand(ctx, *part, ps.Horizon())
		if err != nil {
			return fmt.Errorf("failed to load demand for part %d: %w", part.ID, err)
		}
		if err := SeedIndependentDemand(*part, row, quantities); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)

	for i, index := range indices {
		row := rows[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.planPart(gctx, run, ps, table, index, row)
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (p *Planner) planPart(
	ctx context.Context,
	run entities.PlanningRun,
	ps *services.ProductStructure,
	table *RequirementTable,
	index int,
	row []entities.RequirementRecord,
) error {
	part := ps.Part(index)

	if part.LowLevelCode > 0 {
		if err := ExplodeDependentDemand(ps, table, index, row, p.config.Basis); err != nil {
			return err
		}
	}

	released := NetPart(*part, row)

	if err := table.MarkPlanned(index); err != nil {
		return err
	}

	if p.metrics != nil {
		p.metrics.ObservePart(*part, released)
	}
	p.publish(ctx, events.PartStream(part.ID), events.NewPartPlannedEvent(run, *part, row))

	logger.Debug(ctx).
		Int("part_id", int(part.ID)).
		Int("level", part.LowLevelCode).
		Int("orders_released", released).
		Int64("final_inventory", int64(row[len(row)-1].EndingInventory)).
		Msg("Part planned")

	return nil
}

func (p *Planner) publish(ctx context.Context, streamID string, event events.Event) {
	if p.eventStore == nil {
		return
	}
	if err := p.eventStore.AppendEvent(streamID, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", event.Type()).Msg("Failed to publish planning event")
	}
}
