package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/application/services/criticalpath"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/application/services/report"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/domain/services"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

// PlanningOrchestrator coordinates loading, planning, result storage and
// critical path analysis for one planning run
type PlanningOrchestrator struct {
	planner             *mrp.Planner
	criticalPathService *criticalpath.CriticalPathService
	loader              repositories.StructureLoader
	demand              repositories.DemandSource
	sink                repositories.ResultSink
}

// NewPlanningOrchestrator creates a new planning orchestrator.
// A nil sink runs without storing results.
func NewPlanningOrchestrator(
	planner *mrp.Planner,
	criticalPathService *criticalpath.CriticalPathService,
	loader repositories.StructureLoader,
	demand repositories.DemandSource,
	sink repositories.ResultSink,
) *PlanningOrchestrator {
	return &PlanningOrchestrator{
		planner:             planner,
		criticalPathService: criticalPathService,
		loader:              loader,
		demand:              demand,
		sink:                sink,
	}
}

// PlanningResult contains the combined results of planning and critical path analysis
type PlanningResult struct {
	Plan                *dto.PlanResult
	CriticalPaths       []*entities.CriticalPathAnalysis
	CumulativeLeadTimes map[entities.PartID]int
	Summary             *report.PlanSummary
	PlanningDate        time.Time
	TotalParts          int
	TotalLeadTime       int
}

// RunCompletePlanning loads the structure, plans it, replaces the stored
// results and analyzes the critical path below every root part
func (po *PlanningOrchestrator) RunCompletePlanning(ctx context.Context, topPaths int) (*PlanningResult, error) {
	structure, err := po.loader.LoadStructure(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product structure: %w", err)
	}

	plan, err := po.planner.Plan(ctx, structure, po.demand)
	if err != nil {
		return nil, fmt.Errorf("failed to run MRP planning: %w", err)
	}

	if po.sink != nil {
		if err := po.sink.ReplaceResults(ctx, plan.Run, plan.Records); err != nil {
			return nil, fmt.Errorf("failed to write results: %w", err)
		}
		if recorder, ok := po.sink.(repositories.LevelRecorder); ok {
			if err := recorder.RecordLevels(ctx, plan.Parts); err != nil {
				return nil, fmt.Errorf("failed to record low-level codes: %w", err)
			}
		}
		logger.Info(ctx).
			Str("run_id", plan.Run.ID.String()).
			Int("records", len(plan.Records)).
			Msg("Planning results stored")
	}

	ps, err := services.NewProductStructure(structure)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild product structure: %w", err)
	}

	result := &PlanningResult{
		Plan:                plan,
		CumulativeLeadTimes: po.criticalPathService.CumulativeLeadTimes(ps),
		PlanningDate:        plan.Run.StartedAt,
		TotalParts:          len(plan.Parts),
	}

	for _, part := range plan.Parts {
		if part.LowLevelCode != 0 {
			break
		}
		analysis, err := po.criticalPathService.AnalyzeCriticalPath(ctx, ps, part.ID, topPaths)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze critical path: %w", err)
		}
		result.CriticalPaths = append(result.CriticalPaths, analysis)
		if analysis.CriticalPath.TotalLeadTime > result.TotalLeadTime {
			result.TotalLeadTime = analysis.CriticalPath.TotalLeadTime
		}
	}

	result.Summary = report.Summarize(plan, result.CumulativeLeadTimes)

	return result, nil
}

// GetSummary returns a formatted summary of the planning results
func (result *PlanningResult) GetSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Planning Summary (run %s, %d parts, %d periods):\n",
		result.Plan.Run.ID, result.TotalParts, result.Plan.Run.Horizon)
	fmt.Fprintf(&b, "  MRP: %d records, %d planned order releases, %d parts short\n",
		len(result.Plan.Records), result.Summary.OrdersReleased, result.Summary.ShortageParts)
	for _, analysis := range result.CriticalPaths {
		fmt.Fprintf(&b, "  Part %d %s\n", analysis.RootPart, analysis.GetCriticalPathSummary())
	}
	return strings.TrimRight(b.String(), "\n")
}
