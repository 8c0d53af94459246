package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vsinha/mrpplan/pkg/application/services/criticalpath"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
	"github.com/vsinha/mrpplan/pkg/infrastructure/database"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/gormrepo"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrpplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command.
// The structure comes from DataDir when set, from the database when a DSN
// is set, and from the built-in reference data otherwise.
type Config struct {
	DataDir     string
	DatabaseDSN string
	// SeedReference replaces the database structure with the reference data.
	SeedReference bool
	// StoreResults writes results to the database even when reading CSV.
	StoreResults bool

	Horizon    entities.Horizon
	Engine     mrp.EngineConfig
	DemandSeed int64
	DemandMin  entities.Quantity
	DemandMax  entities.Quantity

	Format    string
	OutputDir string
	PartID    entities.PartID
	TopPaths  int
	Verbose   bool
	Help      bool
}

// PlanCommand runs one planning pass and prints the results
type PlanCommand struct {
	config Config
	out    io.Writer
}

// NewPlanCommand creates a plan command writing to out
func NewPlanCommand(config Config, out io.Writer) *PlanCommand {
	return &PlanCommand{
		config: config,
		out:    out,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var (
		loader repositories.StructureLoader
		sink   repositories.ResultSink
		source repositories.DemandSource
	)

	if c.config.DataDir != "" || c.config.DatabaseDSN != "" {
		if c.config.DatabaseDSN != "" && (c.config.DataDir == "" || c.config.StoreResults) {
			store, closeDB, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			loader, sink = store, store
		}

		if c.config.DataDir != "" {
			dirLoader := csv.NewDirectoryLoader(c.config.DataDir, c.config.Horizon)
			loader = dirLoader

			fixed, err := dirLoader.DemandSource()
			if err != nil {
				return fmt.Errorf("error loading demand: %w", err)
			}
			if fixed != nil {
				source = fixed
			}
		}
	} else {
		structure := fixtures.ReferenceStructure()
		structure.Horizon = c.config.Horizon
		loader = memory.NewStructureRepositoryFrom(structure)
	}

	if source == nil {
		random, err := demand.NewRandomDemandSource(c.config.DemandSeed, c.config.DemandMin, c.config.DemandMax)
		if err != nil {
			return err
		}
		source = random
	}

	orchestrator := orchestration.NewPlanningOrchestrator(
		mrp.NewPlanner(c.config.Engine),
		criticalpath.NewCriticalPathService(),
		loader,
		source,
		sink,
	)

	if c.config.Verbose {
		fmt.Fprintf(c.out, "🔄 Running MRP (%s basis, %d workers)...\n",
			c.config.Engine.Basis, c.config.Engine.Workers)
	}

	start := time.Now()
	result, err := orchestrator.RunCompletePlanning(ctx, c.config.TopPaths)
	if err != nil {
		return err
	}
	planTime := time.Since(start)

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Planning completed in %v\n\n", planTime)
	}

	return output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		PartID:    c.config.PartID,
		Verbose:   c.config.Verbose,
		PlanTime:  planTime,
	}, c.out)
}

// openStore connects, migrates and optionally seeds the database
func (c *PlanCommand) openStore(ctx context.Context) (*gormrepo.Store, func(), error) {
	db, err := database.Open(c.config.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to close database")
		}
	}

	store := gormrepo.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	if c.config.SeedReference {
		structure := fixtures.ReferenceStructure()
		structure.Horizon = c.config.Horizon
		if err := store.Seed(ctx, structure); err != nil {
			closeDB()
			return nil, nil, err
		}
		if c.config.Verbose {
			fmt.Fprintf(c.out, "🌱 Reference data seeded (%d parts, %d periods)\n",
				len(structure.Parts), structure.Horizon)
		}
	}

	return store, closeDB, nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.SeedReference && c.config.DatabaseDSN == "" {
		return fmt.Errorf("-seed requires a database DSN")
	}
	if c.config.StoreResults && c.config.DatabaseDSN == "" {
		return fmt.Errorf("-store requires a database DSN")
	}
	if c.config.TopPaths < 0 {
		return fmt.Errorf("top paths must not be negative, got %d", c.config.TopPaths)
	}
	for _, format := range output.Formats {
		if c.config.Format == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s", c.config.Format)
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprint(c.out, `MRP Planner CLI - time-phased material requirements planning

USAGE:
    mrp [options]                     # plan the built-in reference data
    mrp -data <directory> [options]   # plan CSV data
    mrp -db <dsn> [-seed] [options]   # plan data stored in a database

OPTIONS:
    -data <dir>         Directory with parts.csv, bom.csv and optional demand.csv
    -db <dsn>           Database DSN (sqlite://path or a PostgreSQL DSN)
    -seed               Replace the database structure with the reference data
    -store              Store results in the database when planning CSV data
    -horizon <n>        Number of planning periods (default: 19)
    -basis <b>          Dependent demand basis: release or gross (default: release)
    -workers <n>        Parts of one level planned concurrently (default: 1)
    -demand-seed <n>    Seed of the random root demand (default: 38)
    -demand-min <n>     Minimum random demand per period (default: 30)
    -demand-max <n>     Maximum random demand per period (default: 60)
    -part <id>          Print a single part
    -format <fmt>       Output format: text, json, csv, xlsx, svg (default: text)
    -output <dir>       Output directory for results (required for xlsx)
    -top-paths <n>      Number of critical paths kept per root part (default: 3)
    -verbose            Enable verbose output
    -help               Show this help message

CSV FILE FORMATS:

parts.csv:
    part_id,name,lead_time,initial_inventory,lot_size,make_or_buy
    1,A,2,10,100,Make

bom.csv:
    parent_id,component_id,qty_per,level
    1,2,1,0

demand.csv:
    part_id,period,quantity
    1,1,40

EXAMPLES:
    mrp -verbose
    mrp -data examples/steady -basis gross
    mrp -db sqlite://mrp.db -seed -part 4
    mrp -data examples/reference -format xlsx -output results/
`)
}
