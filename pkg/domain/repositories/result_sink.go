package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// ErrNoResults is returned by a ResultReader before any run was written
var ErrNoResults = errors.New("no planning results stored")

// ResultSink receives the final requirement records of a run
type ResultSink interface {
	// Reset drops every previously written record.
	Reset(ctx context.Context) error
	// WriteResults stores one row per (part, period) for the given run.
	WriteResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error
	// ReplaceResults resets and writes as one unit. On error the previously
	// stored results are left in place.
	ReplaceResults(ctx context.Context, run entities.PlanningRun, records []entities.RequirementRecord) error
}

// ResultReader exposes stored results for inspection
type ResultReader interface {
	LatestRun(ctx context.Context) (*entities.PlanningRun, error)
	PartRecords(ctx context.Context, partID entities.PartID) ([]entities.RequirementRecord, error)
}

// LevelRecorder is implemented by sinks that keep the low-level code of
// each part next to the part master
type LevelRecorder interface {
	RecordLevels(ctx context.Context, parts []entities.Part) error
}
