package mrp

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// NetPart runs the fixed-lot netting recurrence over one part's row.
// row[i] is period i+1 and must carry gross requirements for every period.
// The recurrence writes every other field and returns the number of
// planned order releases it scheduled.
func NetPart(part entities.Part, row []entities.RequirementRecord) int {
	lot := part.LotSize

	for i := range row {
		row[i].PlannedOrderRelease = 0
	}

	var released int
	var endingPrev entities.Quantity

	for i := range row {
		rec := &row[i]
		period := i + 1

		if period == 1 {
			rec.NetRequirements = 0
			rec.ScheduledReceipts = 0
			if rec.GrossRequirements > part.InitialInventory {
				rec.ScheduledReceipts = lot
			}
			rec.PlannedOrderReceipts = 0
			rec.EndingInventory = part.InitialInventory - rec.GrossRequirements + rec.ScheduledReceipts
			endingPrev = rec.EndingInventory
			continue
		}

		rec.ScheduledReceipts = 0
		rec.NetRequirements = max(0, rec.GrossRequirements-endingPrev)

		rec.PlannedOrderReceipts = 0
		if endingPrev-rec.GrossRequirements < 0 {
			rec.PlannedOrderReceipts = lot
		}

		// One lot per trigger; a shortfall larger than the lot leaves EI negative.
		if rec.GrossRequirements > endingPrev {
			rec.EndingInventory = lot - rec.NetRequirements
		} else {
			rec.EndingInventory = endingPrev - rec.GrossRequirements
		}

		if rec.PlannedOrderReceipts > 0 {
			if release := period - part.LeadTime; release > 0 {
				row[release-1].PlannedOrderRelease = lot
				released++
			}
		}

		endingPrev = rec.EndingInventory
	}

	return released
}
