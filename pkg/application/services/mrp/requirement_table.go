package mrp

import (
	"fmt"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services"
)

type rowState uint8

const (
	rowEmpty rowState = iota
	rowOpen
	rowPlanned
)

// RequirementTable holds the RequirementRecord rows of one run, one row of
// H periods per part, indexed by the product structure's arena index.
// Distinct rows may be written concurrently; a single row has one writer.
type RequirementTable struct {
	horizon entities.Horizon
	rows    [][]entities.RequirementRecord
	states  []rowState
}

// NewRequirementTable creates an empty table sized for the structure
func NewRequirementTable(ps *services.ProductStructure) *RequirementTable {
	return &RequirementTable{
		horizon: ps.Horizon(),
		rows:    make([][]entities.RequirementRecord, ps.Len()),
		states:  make([]rowState, ps.Len()),
	}
}

// Open zero-creates the row of a part entering planning
func (t *RequirementTable) Open(index int, partID entities.PartID) ([]entities.RequirementRecord, error) {
	if t.states[index] != rowEmpty {
		return nil, fmt.Errorf("%w: part %d entered planning twice", entities.ErrInvariantViolation, partID)
	}

	row := make([]entities.RequirementRecord, int(t.horizon))
	for i := range row {
		row[i] = entities.RequirementRecord{
			PartID:   partID,
			PeriodID: entities.PeriodID(i + 1),
		}
	}
	t.rows[index] = row
	t.states[index] = rowOpen
	return row, nil
}

// MarkPlanned freezes a netted row so components can explode from it
func (t *RequirementTable) MarkPlanned(index int) error {
	if t.states[index] != rowOpen {
		return fmt.Errorf("%w: row %d marked planned from state %d", entities.ErrInvariantViolation, index, t.states[index])
	}
	t.states[index] = rowPlanned
	return nil
}

// Planned returns a finished row, or false if the part has not been netted yet
func (t *RequirementTable) Planned(index int) ([]entities.RequirementRecord, bool) {
	if t.states[index] != rowPlanned {
		return nil, false
	}
	return t.rows[index], true
}

// Records flattens the rows in the given part order
func (t *RequirementTable) Records(order []int) []entities.RequirementRecord {
	records := make([]entities.RequirementRecord, 0, len(order)*int(t.horizon))
	for _, index := range order {
		records = append(records, t.rows[index]...)
	}
	return records
}

// SeedIndependentDemand copies an independent demand sequence into a root part's row
func SeedIndependentDemand(part entities.Part, row []entities.RequirementRecord, demand []entities.Quantity) error {
	if len(demand) != len(row) {
		return &entities.ConfigError{
			Kind:   entities.ErrInvalidDemand,
			PartID: part.ID,
			Detail: fmt.Sprintf("expected %d periods of demand, got %d", len(row), len(demand)),
		}
	}
	for i, qty := range demand {
		if qty < 0 {
			return &entities.ConfigError{
				Kind:   entities.ErrInvalidDemand,
				PartID: part.ID,
				Detail: fmt.Sprintf("negative demand %d in period %d", qty, i+1),
			}
		}
		row[i].GrossRequirements = qty
	}
	return nil
}
