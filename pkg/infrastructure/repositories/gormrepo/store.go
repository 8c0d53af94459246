package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

var tracer = otel.Tracer("mrp-repository")

const writeBatchSize = 200

// Store keeps the part master, BOM, horizon and requirement records in a
// relational database. It serves as both structure loader and result sink.
type Store struct {
	db *gorm.DB
}

// Ensure Store implements the repository interfaces
var (
	_ repositories.StructureLoader = (*Store)(nil)
	_ repositories.ResultSink      = (*Store)(nil)
	_ repositories.ResultReader    = (*Store)(nil)
	_ repositories.LevelRecorder   = (*Store)(nil)
)

// NewStore creates a store on an open connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the Part, BOM, Period, MRP and run tables
func (s *Store) Migrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "repository.Migrate")
	defer span.End()

	err := s.db.WithContext(ctx).AutoMigrate(
		&PartModel{},
		&BOMModel{},
		&PeriodModel{},
		&MRPModel{},
		&RunModel{},
	)
	if err != nil {
		return fail(span, fmt.Errorf("failed to migrate schema: %w", err))
	}
	return nil
}

// Seed replaces the stored structure with the given parts, edges and horizon.
// Previous requirement records are dropped with it.
func (s *Store) Seed(ctx context.Context, structure *entities.Structure) error {
	ctx, span := tracer.Start(ctx, "repository.Seed",
		trace.WithAttributes(
			attribute.Int("mrp.parts", len(structure.Parts)),
			attribute.Int("mrp.edges", len(structure.Edges)),
			attribute.Int("mrp.horizon", int(structure.Horizon)),
		),
	)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&MRPModel{}, &BOMModel{}, &PartModel{}, &PeriodModel{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}

		periods := make([]PeriodModel, 0, int(structure.Horizon))
		for _, p := range structure.Horizon.Periods() {
			periods = append(periods, PeriodModel{PeriodID: int(p)})
		}
		if len(periods) > 0 {
			if err := tx.CreateInBatches(periods, writeBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert periods: %w", err)
			}
		}

		parts := make([]PartModel, len(structure.Parts))
		for i, part := range structure.Parts {
			parts[i] = toPartModel(part)
		}
		if len(parts) > 0 {
			if err := tx.CreateInBatches(parts, writeBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert parts: %w", err)
			}
		}

		edges := make([]BOMModel, len(structure.Edges))
		for i, edge := range structure.Edges {
			edges[i] = toBOMModel(edge)
		}
		if len(edges) > 0 {
			if err := tx.CreateInBatches(edges, writeBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert BOM edges: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fail(span, err)
	}

	logger.Info(ctx).
		Int("parts", len(structure.Parts)).
		Int("edges", len(structure.Edges)).
		Int("horizon", int(structure.Horizon)).
		Msg("Product structure seeded")
	return nil
}

// LoadStructure reads parts by ID, edges by (parent, component) and the
// horizon as the number of stored periods
func (s *Store) LoadStructure(ctx context.Context) (*entities.Structure, error) {
	ctx, span := tracer.Start(ctx, "repository.LoadStructure")
	defer span.End()

	db := s.db.WithContext(ctx)

	var partRows []PartModel
	if err := db.Order("part_id").Find(&partRows).Error; err != nil {
		return nil, fail(span, fmt.Errorf("failed to load parts: %w", err))
	}
	var edgeRows []BOMModel
	if err := db.Order("parent_id, component_id").Find(&edgeRows).Error; err != nil {
		return nil, fail(span, fmt.Errorf("failed to load BOM: %w", err))
	}
	var periods int64
	if err := db.Model(&PeriodModel{}).Count(&periods).Error; err != nil {
		return nil, fail(span, fmt.Errorf("failed to count periods: %w", err))
	}

	structure := &entities.Structure{
		Parts:   make([]entities.Part, 0, len(partRows)),
		Edges:   make([]entities.BOMEdge, 0, len(edgeRows)),
		Horizon: entities.Horizon(periods),
	}
	for _, row := range partRows {
		part, err := row.toEntity()
		if err != nil {
			return nil, fail(span, err)
		}
		structure.Parts = append(structure.Parts, part)
	}
	for _, row := range edgeRows {
		structure.Edges = append(structure.Edges, row.toEntity())
	}

	span.SetAttributes(
		attribute.Int("mrp.parts", len(structure.Parts)),
		attribute.Int("mrp.edges", len(structure.Edges)),
		attribute.Int("mrp.horizon", int(structure.Horizon)),
	)
	return structure, nil
}

// Reset deletes every stored requirement record. The run log is kept.
func (s *Store) Reset(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "repository.Reset")
	defer span.End()

	deleted, err := deleteRecords(s.db.WithContext(ctx))
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.Int64("mrp.deleted", deleted))
	return nil
}

// WriteResults logs the run and inserts its records in one transaction
func (s *Store) WriteResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error {
	ctx, span := tracer.Start(ctx, "repository.WriteResults",
		trace.WithAttributes(
			attribute.String("mrp.run_id", run.ID.String()),
			attribute.Int("mrp.records", len(records)),
		),
	)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertRun(tx, run, records)
	})
	if err != nil {
		return fail(span, err)
	}
	return nil
}

// ReplaceResults deletes the stored records, logs the run and inserts its
// records in a single transaction
func (s *Store) ReplaceResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error {
	ctx, span := tracer.Start(ctx, "repository.ReplaceResults",
		trace.WithAttributes(
			attribute.String("mrp.run_id", run.ID.String()),
			attribute.Int("mrp.records", len(records)),
		),
	)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := deleteRecords(tx)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64("mrp.deleted", deleted))
		return insertRun(tx, run, records)
	})
	if err != nil {
		return fail(span, err)
	}
	return nil
}

func deleteRecords(db *gorm.DB) (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MRPModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset requirement records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func insertRun(tx *gorm.DB, run entities.PlanningRun, records []entities.RequirementRecord) error {
	runModel := toRunModel(run)
	if err := tx.Create(&runModel).Error; err != nil {
		return fmt.Errorf("failed to log run: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([]MRPModel, len(records))
	for i, rec := range records {
		rows[i] = toMRPModel(runModel.ID, rec)
	}
	if err := tx.CreateInBatches(rows, writeBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert requirement records: %w", err)
	}
	return nil
}

// RecordLevels stores each part's low-level code in the part master
func (s *Store) RecordLevels(ctx context.Context, parts []entities.Part) error {
	ctx, span := tracer.Start(ctx, "repository.RecordLevels",
		trace.WithAttributes(attribute.Int("mrp.parts", len(parts))),
	)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, part := range parts {
			err := tx.Model(&PartModel{}).
				Where("part_id = ?", int(part.ID)).
				Update("bom_level", part.LowLevelCode).Error
			if err != nil {
				return fmt.Errorf("failed to update level of part %d: %w", part.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fail(span, err)
	}
	return nil
}

// LatestRun returns the most recently started run
func (s *Store) LatestRun(ctx context.Context) (*entities.PlanningRun, error) {
	ctx, span := tracer.Start(ctx, "repository.LatestRun")
	defer span.End()

	var row RunModel
	if err := s.db.WithContext(ctx).Order("started_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNoResults
		}
		return nil, fail(span, fmt.Errorf("failed to load latest run: %w", err))
	}

	run, err := row.toEntity()
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("mrp.run_id", row.ID))
	return run, nil
}

// PartRecords returns one part's stored records in period order
func (s *Store) PartRecords(ctx context.Context, partID entities.PartID) ([]entities.RequirementRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.PartRecords",
		trace.WithAttributes(attribute.Int("mrp.part_id", int(partID))),
	)
	defer span.End()

	var rows []MRPModel
	err := s.db.WithContext(ctx).
		Where("part_id = ?", int(partID)).
		Order("period_id").
		Find(&rows).Error
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to load records of part %d: %w", partID, err))
	}
	if len(rows) == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&MRPModel{}).Count(&count).Error; err != nil {
			return nil, fail(span, fmt.Errorf("failed to count records: %w", err))
		}
		if count == 0 {
			return nil, repositories.ErrNoResults
		}
	}

	records := make([]entities.RequirementRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toEntity()
	}
	return records, nil
}

func (m RunModel) toEntity() (*entities.PlanningRun, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", m.ID, err)
	}
	basis, err := entities.ParseExplosionBasis(m.ExplosionBasis)
	if err != nil {
		return nil, err
	}
	return &entities.PlanningRun{
		ID:             id,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
		Horizon:        entities.Horizon(m.Horizon),
		ExplosionBasis: basis,
		PartCount:      m.PartCount,
		RecordCount:    m.RecordCount,
	}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
