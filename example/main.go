package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
)

func main() {
	ctx := context.Background()

	// Set up a small engine assembly: one engine built from a turbopump and two valves
	structure := &entities.Structure{
		Horizon: 8,
		Parts: []entities.Part{
			{ID: 1, Name: "ENGINE", LeadTime: 2, InitialInventory: 5, LotSize: 20, MakeOrBuy: entities.Make},
			{ID: 2, Name: "TURBOPUMP", LeadTime: 3, InitialInventory: 10, LotSize: 40, MakeOrBuy: entities.Make},
			{ID: 3, Name: "VALVE", LeadTime: 1, InitialInventory: 30, LotSize: 100, MakeOrBuy: entities.Buy},
		},
		Edges: []entities.BOMEdge{
			{ParentID: 1, ComponentID: 2, QtyPer: 1, Level: 0},
			{ParentID: 1, ComponentID: 3, QtyPer: 2, Level: 0},
			{ParentID: 2, ComponentID: 3, QtyPer: 4, Level: 1},
		},
	}

	source := demand.NewUniformDemandSource([]entities.Quantity{4, 6, 6, 8, 8, 10, 10, 12})
	store := events.NewInMemoryEventStore()
	planner := mrp.NewPlanner(mrp.DefaultEngineConfig(), mrp.WithEventStore(store))

	fmt.Println("🚀 Planning engine assembly over 8 periods...")
	result, err := planner.Plan(ctx, structure, source)
	if err != nil {
		fmt.Printf("❌ MRP failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📊 Run %s: %d records, %d events\n\n", result.Run.ID, len(result.Records), store.Len())

	for _, part := range result.Parts {
		fmt.Printf("Part %d %s (level %d)\n", part.ID, part.Name, part.LowLevelCode)
		for _, rec := range result.PartRecords(part.ID) {
			if rec.PlannedOrderRelease > 0 {
				fmt.Printf("  release %d units in period %d\n", rec.PlannedOrderRelease, rec.PeriodID)
			}
			if rec.EndingInventory < 0 {
				fmt.Printf("  ⚠️  short %d units in period %d\n", -rec.EndingInventory, rec.PeriodID)
			}
		}
	}
}
