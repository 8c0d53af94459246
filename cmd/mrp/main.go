package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/config"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
	"github.com/vsinha/mrpplan/pkg/interfaces/cli/commands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "generate" {
		err = runGenerate(ctx, cfg, os.Args[2:])
	} else {
		err = runPlan(ctx, cfg, os.Args[1:])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runPlan parses the plan flags. Flags override the environment configuration.
func runPlan(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mrp", flag.ExitOnError)
	var (
		dataDir      = fs.String("data", "", "Directory with parts.csv, bom.csv and optional demand.csv")
		dsn          = fs.String("db", "", "Database DSN (sqlite://path or a PostgreSQL DSN)")
		seedDB       = fs.Bool("seed", false, "Replace the database structure with the reference data")
		storeResults = fs.Bool("store", false, "Store results in the database when planning CSV data")
		horizon      = fs.Int("horizon", int(cfg.Horizon), "Number of planning periods")
		basis        = fs.String("basis", cfg.ExplosionBasis.String(), "Dependent demand basis: release or gross")
		workers      = fs.Int("workers", cfg.Workers, "Parts of one level planned concurrently")
		demandSeed   = fs.Int64("demand-seed", cfg.DemandSeed, "Seed of the random root demand")
		demandMin    = fs.Int64("demand-min", int64(cfg.DemandMin), "Minimum random demand per period")
		demandMax    = fs.Int64("demand-max", int64(cfg.DemandMax), "Maximum random demand per period")
		partID       = fs.Int("part", 0, "Print a single part")
		format       = fs.String("format", "text", "Output format: text, json, csv, xlsx, svg")
		outputDir    = fs.String("output", "", "Output directory for results (required for xlsx)")
		topPaths     = fs.Int("top-paths", 3, "Number of critical paths kept per root part")
		verbose      = fs.Bool("verbose", false, "Enable verbose output")
		help         = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	explosionBasis, err := entities.ParseExplosionBasis(*basis)
	if err != nil {
		return err
	}

	cmd := commands.NewPlanCommand(commands.Config{
		DataDir:       *dataDir,
		DatabaseDSN:   *dsn,
		SeedReference: *seedDB,
		StoreResults:  *storeResults,
		Horizon:       entities.Horizon(*horizon),
		Engine: mrp.EngineConfig{
			Workers: *workers,
			Basis:   explosionBasis,
		},
		DemandSeed: *demandSeed,
		DemandMin:  entities.Quantity(*demandMin),
		DemandMax:  entities.Quantity(*demandMax),
		Format:     *format,
		OutputDir:  *outputDir,
		PartID:     entities.PartID(*partID),
		TopPaths:   *topPaths,
		Verbose:    *verbose,
		Help:       *help,
	}, os.Stdout)

	return cmd.Execute(ctx)
}

func runGenerate(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mrp generate", flag.ExitOnError)
	var (
		outputDir = fs.String("output", "", "Output directory for parts.csv, bom.csv and demand.csv")
		parts     = fs.Int("parts", 100, "Total number of parts")
		depth     = fs.Int("depth", 5, "Maximum BOM depth")
		horizon   = fs.Int("horizon", int(cfg.Horizon), "Periods of root demand")
		demandMax = fs.Int64("demand-max", int64(cfg.DemandMax), "Maximum root demand per period")
		seed      = fs.Uint64("seed", uint64(cfg.DemandSeed), "Random seed")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Parts:     *parts,
		MaxDepth:  *depth,
		Horizon:   entities.Horizon(*horizon),
		DemandMax: entities.Quantity(*demandMax),
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	}, os.Stdout)

	return cmd.Execute(ctx)
}
