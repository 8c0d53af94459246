package commands

import (
	"bytes"
	"context"
	encodingcsv "encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/database"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/gormrepo"
)

func referenceConfig() Config {
	return Config{
		Horizon:    entities.DefaultHorizon,
		Engine:     mrp.DefaultEngineConfig(),
		DemandSeed: 38,
		DemandMin:  30,
		DemandMax:  60,
		Format:     "text",
		TopPaths:   3,
	}
}

func TestPlanCommand_ReferenceData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewPlanCommand(referenceConfig(), &buf).Execute(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "Horizon:         19 periods")
	assert.Contains(t, out, "Part 1 (A) | level 0 | Make")
	assert.Contains(t, out, "Part 7 (G) | level 3")
	assert.Contains(t, out, "Critical Path: 11 periods")
}

func TestPlanCommand_DataDirectory(t *testing.T) {
	config := referenceConfig()
	config.DataDir = filepath.Join("..", "..", "..", "..", "examples", "steady")
	config.Horizon = 5
	config.Format = "csv"
	var buf bytes.Buffer

	require.NoError(t, NewPlanCommand(config, &buf).Execute(context.Background()))

	rows, err := encodingcsv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"1", "1", "40", "100", "70", "0", "100", "0"}, rows[1])
	assert.Equal(t, []string{"1", "3", "40", "0", "90", "10", "0", "100"}, rows[3])
}

func TestPlanCommand_SeededDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mrp.db")
	config := referenceConfig()
	config.DatabaseDSN = "sqlite://" + dbPath
	config.SeedReference = true
	config.PartID = 4

	var buf bytes.Buffer
	require.NoError(t, NewPlanCommand(config, &buf).Execute(context.Background()))
	assert.Contains(t, buf.String(), "Part 4 (D) | level 2")

	db, err := database.Open(config.DatabaseDSN)
	require.NoError(t, err)
	defer database.Close(db)
	store := gormrepo.NewStore(db)

	run, err := store.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultHorizon, run.Horizon)
	assert.Equal(t, 7, run.PartCount)

	records, err := store.PartRecords(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, records, int(entities.DefaultHorizon))

	// a second run reads the stored structure and replaces the results
	config.SeedReference = false
	require.NoError(t, NewPlanCommand(config, &bytes.Buffer{}).Execute(context.Background()))
	records, err = store.PartRecords(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, records, int(entities.DefaultHorizon))
}

func TestPlanCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "seed without database",
			modify:  func(c *Config) { c.SeedReference = true },
			wantErr: "validation error: -seed requires a database DSN",
		},
		{
			name:    "store without database",
			modify:  func(c *Config) { c.StoreResults = true },
			wantErr: "validation error: -store requires a database DSN",
		},
		{
			name:    "negative top paths",
			modify:  func(c *Config) { c.TopPaths = -1 },
			wantErr: "validation error: top paths must not be negative, got -1",
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Format = "yaml" },
			wantErr: "validation error: unsupported output format: yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := referenceConfig()
			tt.modify(&config)
			err := NewPlanCommand(config, &bytes.Buffer{}).Execute(context.Background())
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPlanCommand_Help(t *testing.T) {
	config := referenceConfig()
	config.Help = true
	var buf bytes.Buffer

	require.NoError(t, NewPlanCommand(config, &buf).Execute(context.Background()))
	assert.Contains(t, buf.String(), "CSV FILE FORMATS:")
}
