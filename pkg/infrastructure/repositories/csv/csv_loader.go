package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
)

// File names read by DirectoryLoader
const (
	PartsFile  = "parts.csv"
	BOMFile    = "bom.csv"
	DemandFile = "demand.csv"
)

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadParts loads parts from a CSV file
func (l *Loader) LoadParts(filename string) ([]entities.Part, error) {
	records, err := readRecords(filename, "parts",
		[]string{"part_id", "name", "lead_time", "initial_inventory", "lot_size", "make_or_buy"})
	if err != nil {
		return nil, err
	}

	parts := make([]entities.Part, 0, len(records))
	for i, record := range records {
		part, err := parsePart(record)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		parts = append(parts, part)
	}

	return parts, nil
}

// LoadBOM loads BOM edges from a CSV file
func (l *Loader) LoadBOM(filename string) ([]entities.BOMEdge, error) {
	records, err := readRecords(filename, "BOM",
		[]string{"parent_id", "component_id", "qty_per", "level"})
	if err != nil {
		return nil, err
	}

	edges := make([]entities.BOMEdge, 0, len(records))
	for i, record := range records {
		edge, err := parseBOMEdge(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

// LoadDemand loads per-part independent demand from a CSV file with one row
// per (part, period). Periods must run 1..N without gaps for every part.
func (l *Loader) LoadDemand(filename string) (map[entities.PartID][]entities.Quantity, error) {
	records, err := readRecords(filename, "demand",
		[]string{"part_id", "period", "quantity"})
	if err != nil {
		return nil, err
	}

	cells := make(map[entities.PartID]map[int]entities.Quantity)
	for i, record := range records {
		partID, err := parsePartID(record[0], "part_id")
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		period, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || period < 1 {
			return nil, fmt.Errorf("demand CSV row %d: invalid period: %s", i+2, record[1])
		}
		quantity, err := parseQuantity(record[2], "quantity")
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}

		if cells[partID] == nil {
			cells[partID] = make(map[int]entities.Quantity)
		}
		if _, dup := cells[partID][period]; dup {
			return nil, fmt.Errorf("demand CSV row %d: duplicate period %d for part %d", i+2, period, partID)
		}
		cells[partID][period] = quantity
	}

	sequences := make(map[entities.PartID][]entities.Quantity, len(cells))
	for partID, periods := range cells {
		seq := make([]entities.Quantity, len(periods))
		for period, quantity := range periods {
			if period > len(periods) {
				return nil, fmt.Errorf("demand CSV: part %d has a gap before period %d", partID, period)
			}
			seq[period-1] = quantity
		}
		sequences[partID] = seq
	}

	return sequences, nil
}

// DirectoryLoader reads parts.csv, bom.csv and an optional demand.csv from one directory
type DirectoryLoader struct {
	dir     string
	horizon entities.Horizon
	loader  *Loader
}

// NewDirectoryLoader creates a structure loader over a data directory
func NewDirectoryLoader(dir string, horizon entities.Horizon) *DirectoryLoader {
	return &DirectoryLoader{
		dir:     dir,
		horizon: horizon,
		loader:  NewLoader(),
	}
}

// Verify interface compliance
var _ repositories.StructureLoader = (*DirectoryLoader)(nil)

// LoadStructure reads parts and BOM edges
func (d *DirectoryLoader) LoadStructure(ctx context.Context) (*entities.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := d.loader.LoadParts(filepath.Join(d.dir, PartsFile))
	if err != nil {
		return nil, err
	}

	edges, err := d.loader.LoadBOM(filepath.Join(d.dir, BOMFile))
	if err != nil {
		return nil, err
	}

	return &entities.Structure{
		Parts:   parts,
		Edges:   edges,
		Horizon: d.horizon,
	}, nil
}

// DemandSource returns a fixed source from demand.csv, or nil when the file is absent
func (d *DirectoryLoader) DemandSource() (*demand.FixedDemandSource, error) {
	path := filepath.Join(d.dir, DemandFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	sequences, err := d.loader.LoadDemand(path)
	if err != nil {
		return nil, err
	}
	return demand.NewFixedDemandSource(sequences), nil
}

// Helper functions for parsing CSV records

// readRecords returns the data rows of a CSV file after checking its header
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parsePart(record []string) (entities.Part, error) {
	id, err := parsePartID(record[0], "part_id")
	if err != nil {
		return entities.Part{}, err
	}

	leadTime, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return entities.Part{}, fmt.Errorf("invalid lead_time: %s", record[2])
	}

	initialInventory, err := parseQuantity(record[3], "initial_inventory")
	if err != nil {
		return entities.Part{}, err
	}

	lotSize, err := parseQuantity(record[4], "lot_size")
	if err != nil {
		return entities.Part{}, err
	}

	makeOrBuy, err := entities.ParseMakeOrBuy(strings.TrimSpace(record[5]))
	if err != nil {
		return entities.Part{}, err
	}

	return entities.Part{
		ID:               id,
		Name:             strings.TrimSpace(record[1]),
		LeadTime:         leadTime,
		InitialInventory: initialInventory,
		LotSize:          lotSize,
		MakeOrBuy:        makeOrBuy,
	}, nil
}

func parseBOMEdge(record []string) (entities.BOMEdge, error) {
	parentID, err := parsePartID(record[0], "parent_id")
	if err != nil {
		return entities.BOMEdge{}, err
	}

	componentID, err := parsePartID(record[1], "component_id")
	if err != nil {
		return entities.BOMEdge{}, err
	}

	qtyPer, err := parseQuantity(record[2], "qty_per")
	if err != nil {
		return entities.BOMEdge{}, err
	}

	level, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return entities.BOMEdge{}, fmt.Errorf("invalid level: %s", record[3])
	}

	return entities.BOMEdge{
		ParentID:    parentID,
		ComponentID: componentID,
		QtyPer:      qtyPer,
		Level:       level,
	}, nil
}

func parsePartID(s, column string) (entities.PartID, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return entities.PartID(id), nil
}

func parseQuantity(s, column string) (entities.Quantity, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return entities.Quantity(qty), nil
}
