package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/application/services/criticalpath"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/memory"
)

func planSteadyScenario(t *testing.T) *orchestration.PlanningResult {
	t.Helper()
	orchestrator := orchestration.NewPlanningOrchestrator(
		mrp.NewPlanner(mrp.DefaultEngineConfig()),
		criticalpath.NewCriticalPathService(),
		memory.NewStructureRepositoryFrom(fixtures.SingleComponentStructure()),
		demand.NewUniformDemandSource([]entities.Quantity{40, 40, 40, 40, 40}),
		nil,
	)
	result, err := orchestrator.RunCompletePlanning(context.Background(), 3)
	require.NoError(t, err)
	return result
}

func TestGenerate_Text(t *testing.T) {
	result := planSteadyScenario(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "text"}, &buf))

	out := buf.String()
	assert.Contains(t, out, "Explosion basis: release")
	assert.Contains(t, out, "Part 1 (R) | level 0 | Make | lead time 2 | lot size 100 | initial inventory 10 | cumulative lead time 5")
	assert.Contains(t, out, "Part 2 (C) | level 1 | Buy")
	// period 1 of R: gross 40, scheduled 100, ending 70, release 100
	assert.Contains(t, out, "         1         40        100         70          0        100          0")
	assert.Contains(t, out, "Critical Path: 5 periods")
}

func TestGenerate_TextSinglePart(t *testing.T) {
	result := planSteadyScenario(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "text", PartID: 2}, &buf))

	out := buf.String()
	assert.Contains(t, out, "Part 2 (C)")
	assert.NotContains(t, out, "Part 1 (R)")
	assert.NotContains(t, out, "Critical Paths")
}

func TestGenerate_UnknownPartAndFormat(t *testing.T) {
	result := planSteadyScenario(t)

	err := Generate(result, Config{Format: "text", PartID: 9}, &bytes.Buffer{})
	assert.EqualError(t, err, "part 9 is not part of the plan")

	err = Generate(result, Config{Format: "yaml"}, &bytes.Buffer{})
	assert.EqualError(t, err, "unsupported output format: yaml")

	err = Generate(result, Config{Format: "xlsx"}, &bytes.Buffer{})
	assert.EqualError(t, err, "output directory required for xlsx format")
}

func TestGenerate_CSV(t *testing.T) {
	result := planSteadyScenario(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "csv"}, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, recordHeader, rows[0])
	assert.Equal(t, []string{"1", "1", "40", "100", "70", "0", "100", "0"}, rows[1])
	assert.Equal(t, []string{"2", "5", "0", "0", "30", "0", "0", "0"}, rows[10])
}

func TestGenerate_JSONToDirectory(t *testing.T) {
	result := planSteadyScenario(t)
	dir := t.TempDir()
	var buf bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "json", OutputDir: dir, Verbose: true}, &buf))
	assert.Contains(t, buf.String(), "mrp_results.json")

	data, err := os.ReadFile(filepath.Join(dir, "mrp_results.json"))
	require.NoError(t, err)

	var doc struct {
		Run struct {
			ExplosionBasis string `json:"explosion_basis"`
		} `json:"run"`
		Summary []struct {
			PartID         int    `json:"part_id"`
			OrdersReleased int    `json:"orders_released"`
			CoverageRatio  string `json:"coverage_ratio"`
		} `json:"summary"`
		Records []entities.RequirementRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "release", doc.Run.ExplosionBasis)
	require.Len(t, doc.Summary, 2)
	assert.Equal(t, 1, doc.Summary[0].OrdersReleased)
	assert.Len(t, doc.Records, 10)
}

func TestGenerate_Workbook(t *testing.T) {
	result := planSteadyScenario(t)
	dir := t.TempDir()

	require.NoError(t, Generate(result, Config{Format: "xlsx", OutputDir: dir}, &bytes.Buffer{}))

	f, err := excelize.OpenFile(filepath.Join(dir, "mrp_results.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Part 1", "Part 2"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, summaryHeader, summary[0])
	assert.Equal(t, "R", summary[1][1])

	rows, err := f.GetRows("Part 1")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"1", "3", "40", "0", "90", "10", "0", "100"}, rows[3])
}

func TestGenerate_SVG(t *testing.T) {
	result := planSteadyScenario(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(result, Config{Format: "svg"}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "Part 1: 100 units, release period 1, receipt period 3")
}

func TestOrderTimeline_LateReceipt(t *testing.T) {
	part := entities.Part{ID: 4, Name: "D", LeadTime: 3, LotSize: 50}
	plan := &dto.PlanResult{
		Run:   entities.PlanningRun{Horizon: 4},
		Parts: []entities.Part{part},
		Records: []entities.RequirementRecord{
			{PartID: 4, PeriodID: 1},
			{PartID: 4, PeriodID: 2, PlannedOrderReceipts: 50},
			{PartID: 4, PeriodID: 3},
			{PartID: 4, PeriodID: 4, PlannedOrderReceipts: 50},
		},
	}

	bars := NewOrderTimeline(plan, plan.Parts).Bars()

	require.Len(t, bars, 2)
	assert.True(t, bars[0].Late)
	assert.Equal(t, entities.PeriodID(1), bars[0].Release)
	assert.False(t, bars[1].Late)
	assert.Equal(t, entities.PeriodID(1), bars[1].Release)
	assert.Equal(t, entities.PeriodID(4), bars[1].Receipt)
	assert.Greater(t, bars[1].Width, bars[0].Width)
}
