package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

var recordColumns = []string{"Period", "Gross", "Scheduled", "Ending", "Net", "Release", "Receipts"}

// writeText prints the run header, one requirement table per part and the
// critical path of each root part
func writeText(w io.Writer, result *orchestration.PlanningResult, parts []entities.Part, config Config) error {
	run := result.Plan.Run

	fmt.Fprintf(w, "📊 MRP Results\n")
	fmt.Fprintf(w, "==============\n\n")
	fmt.Fprintf(w, "Run:             %s\n", run.ID)
	fmt.Fprintf(w, "Horizon:         %d periods\n", run.Horizon)
	fmt.Fprintf(w, "Explosion basis: %s\n", run.ExplosionBasis)
	fmt.Fprintf(w, "Parts:           %d\n", run.PartCount)
	if result.Summary != nil {
		fmt.Fprintf(w, "Planned orders:  %d\n", result.Summary.OrdersReleased)
		fmt.Fprintf(w, "Parts short:     %d\n", result.Summary.ShortageParts)
	}
	if config.PlanTime > 0 {
		fmt.Fprintf(w, "Planning time:   %v\n", config.PlanTime)
	}
	fmt.Fprintln(w)

	for _, part := range parts {
		writePartTable(w, part, result)
	}

	if len(result.CriticalPaths) > 0 && config.PartID == 0 {
		fmt.Fprintf(w, "🔍 Critical Paths:\n")
		for _, analysis := range result.CriticalPaths {
			fmt.Fprintf(w, "  Part %d: %s (%d paths)\n",
				analysis.RootPart, analysis.GetCriticalPathSummary(), analysis.TotalPaths)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writePartTable(w io.Writer, part entities.Part, result *orchestration.PlanningResult) {
	summary := partSummary(result, part)

	fmt.Fprintf(w, "Part %d (%s) | level %d | %s | lead time %d | lot size %d | initial inventory %d | cumulative lead time %d\n",
		part.ID, part.Label(), part.LowLevelCode, part.MakeOrBuy,
		part.LeadTime, part.LotSize, part.InitialInventory, summary.CumulativeLeadTime)

	header := make([]string, len(recordColumns))
	rule := make([]string, len(recordColumns))
	for i, col := range recordColumns {
		header[i] = fmt.Sprintf("%10s", col)
		rule[i] = strings.Repeat("-", 10)
	}
	fmt.Fprintln(w, strings.Join(header, " "))
	fmt.Fprintln(w, strings.Join(rule, " "))

	for _, rec := range result.Plan.PartRecords(part.ID) {
		fmt.Fprintf(w, "%10d %10d %10d %10d %10d %10d %10d\n",
			rec.PeriodID,
			rec.GrossRequirements,
			rec.ScheduledReceipts,
			rec.EndingInventory,
			rec.NetRequirements,
			rec.PlannedOrderRelease,
			rec.PlannedOrderReceipts)
	}

	fmt.Fprintf(w, "Orders released: %d | average ending inventory: %s | coverage: %s\n\n",
		summary.OrdersReleased, summary.AverageInventory.StringFixed(2), summary.CoverageRatio.StringFixed(2))
}
