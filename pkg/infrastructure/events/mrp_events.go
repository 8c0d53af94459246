package events

import (
	"strconv"
	"time"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Event types published by the planner
const (
	PlanningStartedEvent   = "planning.started"
	PartPlannedEvent       = "planning.part.planned"
	PlanningCompletedEvent = "planning.completed"
	PlanningFailedEvent    = "planning.failed"
)

// PlanningStarted is published once the structure is levelled
type PlanningStarted struct {
	RunID          string           `json:"run_id"`
	Horizon        entities.Horizon `json:"horizon"`
	ExplosionBasis string           `json:"explosion_basis"`
	PartCount      int              `json:"part_count"`
}

// PartPlanned summarizes one netted part
type PartPlanned struct {
	RunID          string            `json:"run_id"`
	PartID         entities.PartID   `json:"part_id"`
	LowLevelCode   int               `json:"low_level_code"`
	TotalGross     entities.Quantity `json:"total_gross"`
	OrdersReleased int               `json:"orders_released"`
	FinalInventory entities.Quantity `json:"final_inventory"`
}

// PlanningCompleted closes a successful run
type PlanningCompleted struct {
	RunID       string        `json:"run_id"`
	PartCount   int           `json:"part_count"`
	RecordCount int           `json:"record_count"`
	Duration    time.Duration `json:"duration"`
}

// PlanningFailed closes a run that returned an error
type PlanningFailed struct {
	RunID string `json:"run_id"`
	Error string `json:"error"`
}

// NewPlanningStartedEvent is appended to the run stream
func NewPlanningStartedEvent(run entities.PlanningRun) Event {
	return NewEvent(PlanningStartedEvent, run.ID.String(), PlanningStarted{
		RunID:          run.ID.String(),
		Horizon:        run.Horizon,
		ExplosionBasis: run.ExplosionBasis.String(),
		PartCount:      run.PartCount,
	})
}

// NewPartPlannedEvent summarizes a part's netted rows; records must be in period order
func NewPartPlannedEvent(run entities.PlanningRun, part entities.Part, records []entities.RequirementRecord) Event {
	data := PartPlanned{
		RunID:        run.ID.String(),
		PartID:       part.ID,
		LowLevelCode: part.LowLevelCode,
	}
	for _, record := range records {
		data.TotalGross += record.GrossRequirements
		if record.PlannedOrderRelease > 0 {
			data.OrdersReleased++
		}
	}
	if len(records) > 0 {
		data.FinalInventory = records[len(records)-1].EndingInventory
	}
	return NewEvent(PartPlannedEvent, PartStream(part.ID), data)
}

func NewPlanningCompletedEvent(run entities.PlanningRun) Event {
	return NewEvent(PlanningCompletedEvent, run.ID.String(), PlanningCompleted{
		RunID:       run.ID.String(),
		PartCount:   run.PartCount,
		RecordCount: run.RecordCount,
		Duration:    run.Duration(),
	})
}

// NewPlanningFailedEvent carries the error text of an aborted run
func NewPlanningFailedEvent(run entities.PlanningRun, err error) Event {
	return NewEvent(PlanningFailedEvent, run.ID.String(), PlanningFailed{
		RunID: run.ID.String(),
		Error: err.Error(),
	})
}

// PartStream is the stream ID under which a part's events are kept
func PartStream(id entities.PartID) string {
	return "part-" + strconv.Itoa(int(id))
}
