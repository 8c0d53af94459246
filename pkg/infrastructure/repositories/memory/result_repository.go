package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// ResultRepository keeps the records of the latest planning run in memory
type ResultRepository struct {
	mu      sync.RWMutex
	run     *entities.PlanningRun
	records []entities.RequirementRecord
	byPart  map[entities.PartID][]int
}

// NewResultRepository creates an empty result store
func NewResultRepository() *ResultRepository {
	return &ResultRepository{
		byPart: make(map[entities.PartID][]int),
	}
}

// Verify interface compliance
var _ repositories.ResultSink = (*ResultRepository)(nil)
var _ repositories.ResultReader = (*ResultRepository)(nil)

// Reset drops every stored record
func (r *ResultRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	return nil
}

// WriteResults appends the records of a run
func (r *ResultRepository) WriteResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store(run, records)
	return nil
}

// ReplaceResults swaps the stored run for run under one lock
func (r *ResultRepository) ReplaceResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	r.store(run, records)
	return nil
}

func (r *ResultRepository) clear() {
	r.run = nil
	r.records = nil
	r.byPart = make(map[entities.PartID][]int)
}

func (r *ResultRepository) store(run entities.PlanningRun, records []entities.RequirementRecord) {
	stored := run
	r.run = &stored
	for _, record := range records {
		r.byPart[record.PartID] = append(r.byPart[record.PartID], len(r.records))
		r.records = append(r.records, record)
	}
}

// LatestRun returns the last written run
func (r *ResultRepository) LatestRun(ctx context.Context) (*entities.PlanningRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.run == nil {
		return nil, repositories.ErrNoResults
	}
	run := *r.run
	return &run, nil
}

// PartRecords returns the stored rows of one part in period order
func (r *ResultRepository) PartRecords(ctx context.Context, partID entities.PartID) ([]entities.RequirementRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.run == nil {
		return nil, repositories.ErrNoResults
	}
	indexes := r.byPart[partID]
	records := make([]entities.RequirementRecord, 0, len(indexes))
	for _, index := range indexes {
		records = append(records, r.records[index])
	}
	return records, nil
}

// AllRecords returns every stored row in write order
func (r *ResultRepository) AllRecords() []entities.RequirementRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.RequirementRecord(nil), r.records...)
}
