package mrp

import (
	"fmt"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services"
)

// ExplodeDependentDemand accumulates a component's gross requirements from
// every parent that uses it:
//
//	gross[t] += qtyPer * basis(parent)[t + leadTime(component)]
//
// Offsets past the horizon contribute nothing. Every parent must already be planned.
func ExplodeDependentDemand(
	ps *services.ProductStructure,
	table *RequirementTable,
	index int,
	row []entities.RequirementRecord,
	basis entities.ExplosionBasis,
) error {
	component := ps.Part(index)
	horizon := len(row)

	for _, usage := range ps.EdgesByComponent(component.ID) {
		parentRow, ok := table.Planned(usage.Index)
		if !ok {
			return fmt.Errorf("%w: part %d exploded before parent %d was planned",
				entities.ErrInvariantViolation, component.ID, usage.PartID)
		}

		for t := 1; t <= horizon; t++ {
			source := t + component.LeadTime
			if source > horizon {
				break
			}
			row[t-1].GrossRequirements += usage.QtyPer * basisValue(parentRow[source-1], basis)
		}
	}

	return nil
}

func basisValue(record entities.RequirementRecord, basis entities.ExplosionBasis) entities.Quantity {
	if basis == entities.ExplodeGross {
		return record.GrossRequirements
	}
	return record.PlannedOrderRelease
}
