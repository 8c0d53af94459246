package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlanningRun describes one execution of the planner
type PlanningRun struct {
	ID             uuid.UUID      `json:"id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	Horizon        Horizon        `json:"horizon"`
	ExplosionBasis ExplosionBasis `json:"explosion_basis"`
	PartCount      int            `json:"part_count"`
	RecordCount    int            `json:"record_count"`
}

// NewPlanningRun stamps a fresh run identifier
func NewPlanningRun(horizon Horizon, basis ExplosionBasis, startedAt time.Time) PlanningRun {
	return PlanningRun{
		ID:             uuid.New(),
		StartedAt:      startedAt,
		Horizon:        horizon,
		ExplosionBasis: basis,
	}
}

// Duration is the wall time of the run, zero until it finishes
func (r PlanningRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
