package report

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// ratioPlaces is the precision of averages and ratios in summaries
const ratioPlaces = 2

// PartSummary aggregates one part's requirement rows
type PartSummary struct {
	PartID             entities.PartID   `json:"part_id"`
	Name               string            `json:"name"`
	LowLevelCode       int               `json:"low_level_code"`
	MakeOrBuy          string            `json:"make_or_buy"`
	CumulativeLeadTime int               `json:"cumulative_lead_time"`
	TotalGross         entities.Quantity `json:"total_gross"`
	TotalNet           entities.Quantity `json:"total_net"`
	OrdersReleased     int               `json:"orders_released"`
	QuantityReleased   entities.Quantity `json:"quantity_released"`
	ShortagePeriods    int               `json:"shortage_periods"`
	AverageInventory   decimal.Decimal   `json:"average_ending_inventory"`
	CoverageRatio      decimal.Decimal   `json:"coverage_ratio"`
}

// PlanSummary aggregates a whole planning run
type PlanSummary struct {
	RunID          string        `json:"run_id"`
	Horizon        int           `json:"horizon"`
	Parts          []PartSummary `json:"parts"`
	OrdersReleased int           `json:"orders_released"`
	ShortageParts  int           `json:"shortage_parts"`
}

// Summarize builds per-part totals in the result's processing order.
// cumulativeLeadTimes may be nil.
func Summarize(result *dto.PlanResult, cumulativeLeadTimes map[entities.PartID]int) *PlanSummary {
	summary := &PlanSummary{
		RunID:   result.Run.ID.String(),
		Horizon: int(result.Run.Horizon),
		Parts:   make([]PartSummary, 0, len(result.Parts)),
	}

	for _, part := range result.Parts {
		partSummary := SummarizePart(part, result.PartRecords(part.ID))
		partSummary.CumulativeLeadTime = cumulativeLeadTimes[part.ID]

		summary.OrdersReleased += partSummary.OrdersReleased
		if partSummary.ShortagePeriods > 0 {
			summary.ShortageParts++
		}
		summary.Parts = append(summary.Parts, partSummary)
	}

	return summary
}

// SummarizePart aggregates the rows of a single part.
// Coverage is available supply (initial inventory, scheduled and planned
// receipts) over total gross requirements; a part without demand is fully covered.
func SummarizePart(part entities.Part, records []entities.RequirementRecord) PartSummary {
	summary := PartSummary{
		PartID:       part.ID,
		Name:         part.Name,
		LowLevelCode: part.LowLevelCode,
		MakeOrBuy:    part.MakeOrBuy.String(),
	}

	supply := part.InitialInventory
	var endingTotal entities.Quantity

	for _, rec := range records {
		summary.TotalGross += rec.GrossRequirements
		summary.TotalNet += rec.NetRequirements
		if rec.PlannedOrderRelease > 0 {
			summary.OrdersReleased++
			summary.QuantityReleased += rec.PlannedOrderRelease
		}
		if rec.EndingInventory < 0 {
			summary.ShortagePeriods++
		}
		supply += rec.ScheduledReceipts + rec.PlannedOrderReceipts
		endingTotal += rec.EndingInventory
	}

	summary.AverageInventory = decimal.Zero
	if len(records) > 0 {
		summary.AverageInventory = decimal.NewFromInt(int64(endingTotal)).
			DivRound(decimal.NewFromInt(int64(len(records))), ratioPlaces)
	}

	summary.CoverageRatio = decimal.NewFromInt(1).Round(ratioPlaces)
	if summary.TotalGross > 0 {
		summary.CoverageRatio = decimal.NewFromInt(int64(supply)).
			DivRound(decimal.NewFromInt(int64(summary.TotalGross)), ratioPlaces)
	}

	return summary
}
