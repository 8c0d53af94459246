package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// recordHeader follows the MRP table column order
var recordHeader = []string{
	"PartID",
	"PeriodID",
	"GrossRequirements",
	"ScheduledReceipts",
	"EndingInventory",
	"NetRequirements",
	"PlannedOrderRelease",
	"PlannedOrderReceipts",
}

var summaryHeader = []string{
	"PartID",
	"Name",
	"LowLevelCode",
	"MakeOrBuy",
	"CumulativeLeadTime",
	"TotalGross",
	"OrdersReleased",
	"QuantityReleased",
	"ShortagePeriods",
	"AverageEndingInventory",
	"CoverageRatio",
}

func recordRow(rec entities.RequirementRecord) []int64 {
	return []int64{
		int64(rec.PartID),
		int64(rec.PeriodID),
		int64(rec.GrossRequirements),
		int64(rec.ScheduledReceipts),
		int64(rec.EndingInventory),
		int64(rec.NetRequirements),
		int64(rec.PlannedOrderRelease),
		int64(rec.PlannedOrderReceipts),
	}
}

func writeCSV(w io.Writer, result *orchestration.PlanningResult, parts []entities.Part) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, part := range parts {
		for _, rec := range result.Plan.PartRecords(part.ID) {
			values := recordRow(rec)
			row := make([]string, len(values))
			for i, v := range values {
				row[i] = strconv.FormatInt(v, 10)
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeWorkbook saves a Summary sheet plus one sheet per part
func writeWorkbook(filename string, result *orchestration.PlanningResult, parts []entities.Part) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := setRow(f, summarySheet, 1, toCells(summaryHeader)); err != nil {
		return err
	}

	for i, part := range parts {
		s := partSummary(result, part)
		row := []interface{}{
			int(s.PartID),
			s.Name,
			s.LowLevelCode,
			s.MakeOrBuy,
			s.CumulativeLeadTime,
			int64(s.TotalGross),
			s.OrdersReleased,
			int64(s.QuantityReleased),
			s.ShortagePeriods,
			s.AverageInventory.InexactFloat64(),
			s.CoverageRatio.InexactFloat64(),
		}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}

		sheet := fmt.Sprintf("Part %d", part.ID)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}
		if err := setRow(f, sheet, 1, toCells(recordHeader)); err != nil {
			return err
		}
		for j, rec := range result.Plan.PartRecords(part.ID) {
			values := recordRow(rec)
			cells := make([]interface{}, len(values))
			for k, v := range values {
				cells[k] = v
			}
			if err := setRow(f, sheet, j+2, cells); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", filename, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
