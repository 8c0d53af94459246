package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
)

const examplesDir = "../../../../examples"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDirectoryLoader_ReferenceData(t *testing.T) {
	loader := NewDirectoryLoader(filepath.Join(examplesDir, "reference"), entities.DefaultHorizon)

	structure, err := loader.LoadStructure(context.Background())
	require.NoError(t, err)

	expected := fixtures.ReferenceStructure()
	assert.Equal(t, expected.Parts, structure.Parts)
	assert.Equal(t, expected.Edges, structure.Edges)
	assert.Equal(t, entities.DefaultHorizon, structure.Horizon)

	source, err := loader.DemandSource()
	require.NoError(t, err)
	assert.Nil(t, source)
}

func TestDirectoryLoader_SteadyDemand(t *testing.T) {
	loader := NewDirectoryLoader(filepath.Join(examplesDir, "steady"), 5)

	source, err := loader.DemandSource()
	require.NoError(t, err)
	require.NotNil(t, source)

	quantities, err := source.Demand(context.Background(), entities.Part{ID: 1}, 5)
	require.NoError(t, err)
	assert.Equal(t, []entities.Quantity{40, 40, 40, 40, 40}, quantities)
}

func TestLoader_LoadPartsErrors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "header mismatch",
			content: "id,name\n1,A\n",
			message: "parts CSV header mismatch",
		},
		{
			name:    "bad lead time",
			content: "part_id,name,lead_time,initial_inventory,lot_size,make_or_buy\n1,A,two,10,100,Make\n",
			message: "parts CSV row 2: invalid lead_time: two",
		},
		{
			name:    "bad make or buy",
			content: "part_id,name,lead_time,initial_inventory,lot_size,make_or_buy\n1,A,2,10,100,Lease\n",
			message: "parts CSV row 2: invalid make_or_buy: Lease (expected: Make or Buy)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "parts.csv", tt.content)

			_, err := loader.LoadParts(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoader_LoadBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.csv", "parent_id,component_id,qty_per,level\n# comment\n 1 , 2 , 3 , 0 \n")

	edges, err := NewLoader().LoadBOM(path)
	require.NoError(t, err)

	assert.Equal(t, []entities.BOMEdge{{ParentID: 1, ComponentID: 2, QtyPer: 3, Level: 0}}, edges)
}

func TestLoader_LoadDemand(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	path := writeFile(t, dir, "demand.csv", "part_id,period,quantity\n1,2,45\n1,1,40\n3,1,7\n")
	sequences, err := loader.LoadDemand(path)
	require.NoError(t, err)
	assert.Equal(t, map[entities.PartID][]entities.Quantity{
		1: {40, 45},
		3: {7},
	}, sequences)

	gap := writeFile(t, dir, "gap.csv", "part_id,period,quantity\n1,1,40\n1,3,40\n")
	_, err = loader.LoadDemand(gap)
	assert.ErrorContains(t, err, "gap before period 3")

	dup := writeFile(t, dir, "dup.csv", "part_id,period,quantity\n1,1,40\n1,1,41\n")
	_, err = loader.LoadDemand(dup)
	assert.ErrorContains(t, err, "duplicate period 1 for part 1")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader().LoadParts(filepath.Join(t.TempDir(), "missing.csv"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
