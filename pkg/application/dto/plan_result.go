package dto

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// PlanResult contains the complete output of a planning run
type PlanResult struct {
	Run entities.PlanningRun
	// Parts carries computed low-level codes, in processing order.
	Parts []entities.Part
	// Records holds H rows per part, grouped by part in processing order.
	Records []entities.RequirementRecord
}

// PartRecords returns the period rows of one part, or nil when the part was not planned
func (r *PlanResult) PartRecords(id entities.PartID) []entities.RequirementRecord {
	horizon := int(r.Run.Horizon)
	for i, part := range r.Parts {
		if part.ID == id {
			return r.Records[i*horizon : (i+1)*horizon]
		}
	}
	return nil
}

// Part looks up a planned part by ID
func (r *PlanResult) Part(id entities.PartID) (entities.Part, bool) {
	for _, part := range r.Parts {
		if part.ID == id {
			return part, true
		}
	}
	return entities.Part{}, false
}
