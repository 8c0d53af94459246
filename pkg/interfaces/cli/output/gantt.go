package output

import (
	"fmt"
	"strings"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// OrderTimeline is a Gantt chart of planned orders over the planning horizon
type OrderTimeline struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	Horizon      int

	rows []timelineRow
}

type timelineRow struct {
	Part entities.Part
	Bars []TimelineBar
}

// TimelineBar spans one planned order from release to receipt.
// Late bars mark receipts whose release would fall before period 1.
type TimelineBar struct {
	PartID   entities.PartID
	Quantity entities.Quantity
	Release  entities.PeriodID
	Receipt  entities.PeriodID
	Late     bool
	X        int
	Width    int
}

// NewOrderTimeline lays out the planned orders of parts
func NewOrderTimeline(plan *dto.PlanResult, parts []entities.Part) *OrderTimeline {
	rowHeight := 30
	gt := &OrderTimeline{
		Width:        1200,
		Height:       len(parts)*rowHeight + 140,
		MarginLeft:   200,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		Horizon:      int(plan.Run.Horizon),
	}

	for _, part := range parts {
		gt.rows = append(gt.rows, timelineRow{
			Part: part,
			Bars: gt.createBars(part, plan.PartRecords(part.ID)),
		})
	}
	return gt
}

// Bars returns every bar of the chart in part order
func (gt *OrderTimeline) Bars() []TimelineBar {
	var bars []TimelineBar
	for _, row := range gt.rows {
		bars = append(bars, row.Bars...)
	}
	return bars
}

// createBars pairs each receipt with the release lead time periods earlier
func (gt *OrderTimeline) createBars(part entities.Part, records []entities.RequirementRecord) []TimelineBar {
	var bars []TimelineBar
	for _, rec := range records {
		if rec.PlannedOrderReceipts <= 0 {
			continue
		}
		release := int(rec.PeriodID) - part.LeadTime
		bar := TimelineBar{
			PartID:   part.ID,
			Quantity: rec.PlannedOrderReceipts,
			Release:  entities.PeriodID(release),
			Receipt:  rec.PeriodID,
		}
		if release < 1 {
			bar.Late = true
			bar.Release = 1
		}
		bar.X = gt.periodX(int(bar.Release))
		bar.Width = gt.periodX(int(bar.Receipt)+1) - bar.X
		if bar.Width < 2 {
			bar.Width = 2
		}
		bars = append(bars, bar)
	}
	return bars
}

// periodX is the left edge of period p; p = Horizon+1 is the right edge of the chart
func (gt *OrderTimeline) periodX(p int) int {
	chartWidth := gt.Width - gt.MarginLeft - gt.MarginRight
	if gt.Horizon == 0 {
		return gt.MarginLeft
	}
	return gt.MarginLeft + (p-1)*chartWidth/gt.Horizon
}

// GenerateSVG creates an SVG representation of the chart
func (gt *OrderTimeline) GenerateSVG() string {
	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gt.Width, gt.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.part-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.order-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.order-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style></defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gt.Width, gt.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Planned Orders by Period</text>`, gt.Width/2))

	gt.drawPeriodAxis(&svg)
	gt.drawPartRows(&svg)
	gt.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (gt *OrderTimeline) drawPeriodAxis(svg *strings.Builder) {
	bottom := gt.MarginTop + len(gt.rows)*gt.RowHeight
	for p := 1; p <= gt.Horizon+1; p++ {
		x := gt.periodX(p)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, gt.MarginTop, x, bottom))
		if p <= gt.Horizon {
			mid := (x + gt.periodX(p+1)) / 2
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%d</text>`,
				mid, gt.MarginTop-8, p))
		}
	}
}

func (gt *OrderTimeline) drawPartRows(svg *strings.Builder) {
	for i, row := range gt.rows {
		y := gt.MarginTop + i*gt.RowHeight

		if i%2 == 0 {
			svg.WriteString(fmt.Sprintf(`<rect x="0" y="%d" width="%d" height="%d" fill="#f9f9f9"/>`,
				y, gt.Width, gt.RowHeight))
		}
		svg.WriteString(fmt.Sprintf(`<text x="10" y="%d" class="part-label">%d %s (LLC %d)</text>`,
			y+gt.RowHeight/2+4, row.Part.ID, row.Part.Label(), row.Part.LowLevelCode))

		for _, bar := range row.Bars {
			gt.drawBar(svg, bar, y)
		}
	}
}

func (gt *OrderTimeline) drawBar(svg *strings.Builder, bar TimelineBar, rowY int) {
	barHeight := gt.RowHeight - 10
	y := rowY + 5

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="order-bar">`,
		bar.X, y, bar.Width, barHeight, barColor(bar)))
	svg.WriteString(fmt.Sprintf(`<title>Part %d: %d units, release period %d, receipt period %d</title>`,
		bar.PartID, bar.Quantity, bar.Release, bar.Receipt))
	svg.WriteString(`</rect>`)

	if bar.Width > 30 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="order-text" text-anchor="middle">%d</text>`,
			bar.X+bar.Width/2, y+barHeight/2+3, bar.Quantity))
	}
}

func (gt *OrderTimeline) drawLegend(svg *strings.Builder) {
	y := gt.Height - gt.MarginBottom + 30
	entries := []struct {
		label string
		color string
	}{
		{"Planned order", "#4CAF50"},
		{"Receipt without release in horizon", "#F44336"},
	}

	x := gt.MarginLeft
	for _, entry := range entries {
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="15" height="15" fill="%s" class="order-bar"/>`,
			x, y, entry.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="part-label">%s</text>`, x+20, y+12, entry.label))
		x += 260
	}
}

func barColor(bar TimelineBar) string {
	if bar.Late {
		return "#F44336"
	}
	return "#4CAF50"
}
