package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/application/services/report"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "xlsx", "svg"}

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	// PartID restricts per-part output to one part; zero prints every part.
	PartID   entities.PartID
	Verbose  bool
	PlanTime time.Duration
}

// Generate renders result in the configured format. Output goes to
// OutputDir when set and to w otherwise; xlsx always needs a directory.
func Generate(result *orchestration.PlanningResult, config Config, w io.Writer) error {
	parts, err := selectParts(result, config.PartID)
	if err != nil {
		return err
	}

	switch config.Format {
	case "text":
		return emit(config, w, "mrp_results.txt", func(out io.Writer) error {
			return writeText(out, result, parts, config)
		})
	case "json":
		return emit(config, w, "mrp_results.json", func(out io.Writer) error {
			return writeJSON(out, result, parts)
		})
	case "csv":
		return emit(config, w, "mrp_results.csv", func(out io.Writer) error {
			return writeCSV(out, result, parts)
		})
	case "xlsx":
		if config.OutputDir == "" {
			return fmt.Errorf("output directory required for xlsx format")
		}
		filename, err := prepareFile(config.OutputDir, "mrp_results.xlsx")
		if err != nil {
			return err
		}
		if err := writeWorkbook(filename, result, parts); err != nil {
			return err
		}
		reportSaved(config, w, filename)
		return nil
	case "svg":
		return emit(config, w, "mrp_schedule.svg", func(out io.Writer) error {
			_, err := io.WriteString(out, NewOrderTimeline(result.Plan, parts).GenerateSVG())
			return err
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// emit runs render against w, or against a file in the output directory
func emit(config Config, w io.Writer, name string, render func(io.Writer) error) error {
	if config.OutputDir == "" {
		return render(w)
	}

	filename, err := prepareFile(config.OutputDir, name)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	reportSaved(config, w, filename)
	return nil
}

func prepareFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}

func reportSaved(config Config, w io.Writer, filename string) {
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
	}
}

// selectParts returns the planned parts to print, in processing order
func selectParts(result *orchestration.PlanningResult, id entities.PartID) ([]entities.Part, error) {
	if id == 0 {
		return result.Plan.Parts, nil
	}
	part, ok := result.Plan.Part(id)
	if !ok {
		return nil, fmt.Errorf("part %d is not part of the plan", id)
	}
	return []entities.Part{part}, nil
}

type jsonReport struct {
	Run                 entities.PlanningRun             `json:"run"`
	Summary             []report.PartSummary             `json:"summary"`
	Records             []entities.RequirementRecord     `json:"records"`
	CriticalPaths       []*entities.CriticalPathAnalysis `json:"critical_paths,omitempty"`
	CumulativeLeadTimes map[entities.PartID]int          `json:"cumulative_lead_times"`
}

func writeJSON(w io.Writer, result *orchestration.PlanningResult, parts []entities.Part) error {
	doc := jsonReport{
		Run:                 result.Plan.Run,
		Summary:             make([]report.PartSummary, 0, len(parts)),
		Records:             make([]entities.RequirementRecord, 0, len(parts)*int(result.Plan.Run.Horizon)),
		CriticalPaths:       result.CriticalPaths,
		CumulativeLeadTimes: result.CumulativeLeadTimes,
	}
	for _, part := range parts {
		doc.Summary = append(doc.Summary, partSummary(result, part))
		doc.Records = append(doc.Records, result.Plan.PartRecords(part.ID)...)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// partSummary finds the precomputed summary of part, computing it if absent
func partSummary(result *orchestration.PlanningResult, part entities.Part) report.PartSummary {
	if result.Summary != nil {
		for _, s := range result.Summary.Parts {
			if s.PartID == part.ID {
				return s
			}
		}
	}
	s := report.SummarizePart(part, result.Plan.PartRecords(part.ID))
	s.CumulativeLeadTime = result.CumulativeLeadTimes[part.ID]
	return s
}
