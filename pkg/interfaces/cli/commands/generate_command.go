package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	repocsv "github.com/vsinha/mrpplan/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Parts     int              // total number of parts to generate
	MaxDepth  int              // maximum depth of the BOM
	Horizon   entities.Horizon // periods of root demand to write
	DemandMax entities.Quantity
	OutputDir string
	Seed      uint64 // random seed for reproducible generation
	Help      bool
	Verbose   bool
}

// GenerateCommand writes a random layered scenario as parts.csv, bom.csv
// and demand.csv
type GenerateCommand struct {
	config GenerateConfig
	out    io.Writer
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, out io.Writer) *GenerateCommand {
	return &GenerateCommand{
		config: config,
		out:    out,
		rand:   rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
	}
}

// BOMNode is one generated part with its component lines
type BOMNode struct {
	ID       entities.PartID
	Level    int
	Children []BOMLink
	Parents  int
}

// BOMLink points from a parent to one component
type BOMLink struct {
	Child  *BOMNode
	QtyPer entities.Quantity
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "🔧 Generating scenario with %d parts, max depth %d, %d periods\n",
			cmd.config.Parts, cmd.config.MaxDepth, cmd.config.Horizon)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	nodes := cmd.generateBOMTree()
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := cmd.writeFile(repocsv.PartsFile, cmd.partRows(nodes)); err != nil {
		return fmt.Errorf("failed to generate parts: %w", err)
	}
	if err := cmd.writeFile(repocsv.BOMFile, cmd.bomRows(nodes)); err != nil {
		return fmt.Errorf("failed to generate BOM: %w", err)
	}
	if err := cmd.writeFile(repocsv.DemandFile, cmd.demandRows(nodes)); err != nil {
		return fmt.Errorf("failed to generate demand: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cmd.config.Parts < 1 {
		return fmt.Errorf("parts must be at least 1, got %d", cmd.config.Parts)
	}
	if cmd.config.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", cmd.config.MaxDepth)
	}
	if cmd.config.DemandMax < 0 {
		return fmt.Errorf("demand maximum must not be negative, got %d", cmd.config.DemandMax)
	}
	return cmd.config.Horizon.Validate()
}

// generateBOMTree builds the structure level by level. Parts are numbered in
// creation order and every edge points to a higher ID, so the result is acyclic.
func (cmd *GenerateCommand) generateBOMTree() []*BOMNode {
	nodes := make([]*BOMNode, 0, cmd.config.Parts)
	newNode := func(level int) *BOMNode {
		node := &BOMNode{ID: entities.PartID(len(nodes) + 1), Level: level}
		nodes = append(nodes, node)
		return node
	}

	numRoots := max(1, cmd.config.Parts/50+cmd.rand.IntN(3))
	numRoots = min(numRoots, cmd.config.Parts)
	current := make([]*BOMNode, 0, numRoots)
	for i := 0; i < numRoots; i++ {
		current = append(current, newNode(0))
	}

	for level := 1; level <= cmd.config.MaxDepth && len(nodes) < cmd.config.Parts; level++ {
		var next []*BOMNode

		for _, parent := range current {
			numChildren := 1 + cmd.rand.IntN(4)
			for c := 0; c < numChildren && len(nodes) < cmd.config.Parts; c++ {
				child := cmd.shareablePart(nodes, parent)
				if child == nil {
					child = newNode(level)
					next = append(next, child)
				}
				cmd.link(parent, child)
			}
		}

		if len(next) == 0 {
			break
		}
		current = next
	}

	// attach any remaining parts as purchased leaves of the deepest level
	for len(nodes) < cmd.config.Parts {
		parent := current[cmd.rand.IntN(len(current))]
		cmd.link(parent, newNode(parent.Level+1))
	}

	return nodes
}

// shareablePart occasionally reuses an existing part below parent
func (cmd *GenerateCommand) shareablePart(nodes []*BOMNode, parent *BOMNode) *BOMNode {
	if parent.Level == 0 || cmd.rand.Float64() >= 0.2 {
		return nil
	}

	var candidates []*BOMNode
	for _, node := range nodes {
		if node.ID <= parent.ID || node.Parents >= 3 || hasChild(parent, node) {
			continue
		}
		candidates = append(candidates, node)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[cmd.rand.IntN(len(candidates))]
}

func (cmd *GenerateCommand) link(parent, child *BOMNode) {
	qty := 1 + cmd.rand.IntN(3)
	if child.Level > 2 {
		qty += cmd.rand.IntN(3)
	}
	parent.Children = append(parent.Children, BOMLink{Child: child, QtyPer: entities.Quantity(qty)})
	child.Parents++
}

func hasChild(parent, node *BOMNode) bool {
	for _, link := range parent.Children {
		if link.Child == node {
			return true
		}
	}
	return false
}

func (cmd *GenerateCommand) partRows(nodes []*BOMNode) [][]string {
	rows := [][]string{{"part_id", "name", "lead_time", "initial_inventory", "lot_size", "make_or_buy"}}
	for _, node := range nodes {
		makeOrBuy := entities.Make
		if len(node.Children) == 0 {
			makeOrBuy = entities.Buy
		}
		lotSize := 50 * (1 + cmd.rand.IntN(10))
		rows = append(rows, []string{
			itoa(int(node.ID)),
			fmt.Sprintf("P%04d", node.ID),
			itoa(cmd.rand.IntN(5)),
			itoa(10 * cmd.rand.IntN(lotSize/10+1)),
			itoa(lotSize),
			makeOrBuy.String(),
		})
	}
	return rows
}

func (cmd *GenerateCommand) bomRows(nodes []*BOMNode) [][]string {
	rows := [][]string{{"parent_id", "component_id", "qty_per", "level"}}
	for _, node := range nodes {
		for _, link := range node.Children {
			rows = append(rows, []string{
				itoa(int(node.ID)),
				itoa(int(link.Child.ID)),
				itoa(int(link.QtyPer)),
				itoa(node.Level),
			})
		}
	}
	return rows
}

func (cmd *GenerateCommand) demandRows(nodes []*BOMNode) [][]string {
	rows := [][]string{{"part_id", "period", "quantity"}}
	for _, node := range nodes {
		if node.Parents > 0 {
			continue
		}
		for _, period := range cmd.config.Horizon.Periods() {
			qty := cmd.rand.IntN(int(cmd.config.DemandMax) + 1)
			rows = append(rows, []string{itoa(int(node.ID)), itoa(int(period)), itoa(qty)})
		}
	}
	return rows
}

func (cmd *GenerateCommand) writeFile(name string, rows [][]string) error {
	file, err := os.Create(filepath.Join(cmd.config.OutputDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "📦 %s: %d rows\n", name, len(rows)-1)
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Fprint(cmd.out, `MRP Scenario Generator - random layered product structures

USAGE:
    mrp generate -output <directory> [options]

OPTIONS:
    -output <dir>       Output directory for parts.csv, bom.csv and demand.csv
    -parts <n>          Total number of parts (default: 100)
    -depth <n>          Maximum BOM depth (default: 5)
    -horizon <n>        Periods of root demand (default: 19)
    -demand-max <n>     Maximum root demand per period (default: 60)
    -seed <n>           Random seed (default: 38)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLE:
    mrp generate -output scenarios/large -parts 500 -depth 8
    mrp -data scenarios/large -format csv
`)
}
