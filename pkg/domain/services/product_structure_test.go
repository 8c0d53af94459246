package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
)

func TestNewProductStructure_Adjacency(t *testing.T) {
	ps, err := NewProductStructure(fixtures.ReferenceStructure())
	require.NoError(t, err)

	assert.Equal(t, 7, ps.Len())
	assert.Equal(t, entities.Horizon(19), ps.Horizon())

	components := ps.EdgesByParent(1)
	require.Len(t, components, 2)
	assert.Equal(t, entities.PartID(2), components[0].PartID)
	assert.Equal(t, entities.PartID(3), components[1].PartID)
	assert.Equal(t, entities.Quantity(3), components[1].QtyPer)

	parents := ps.EdgesByComponent(5)
	require.Len(t, parents, 2)
	assert.Equal(t, entities.PartID(3), parents[0].PartID)
	assert.Equal(t, entities.PartID(4), parents[1].PartID)

	assert.Empty(t, ps.EdgesByParent(7))
	assert.Empty(t, ps.EdgesByComponent(1))
	assert.Nil(t, ps.EdgesByParent(99))

	index, ok := ps.IndexOf(4)
	require.True(t, ok)
	assert.Equal(t, "D", ps.Part(index).Name)
	_, ok = ps.PartByID(42)
	assert.False(t, ok)
}

func TestNewProductStructure_DoesNotAliasInput(t *testing.T) {
	structure := fixtures.ReferenceStructure()
	ps, err := NewProductStructure(structure)
	require.NoError(t, err)

	_, err = AssignLowLevelCodes(ps)
	require.NoError(t, err)

	assert.Equal(t, 0, structure.Parts[4].LowLevelCode)
	part, _ := ps.PartByID(5)
	assert.Equal(t, 3, part.LowLevelCode)
}

func TestNewProductStructure_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name      string
		structure *entities.Structure
		kind      error
		message   string
	}{
		{
			name:      "zero horizon",
			structure: &entities.Structure{Parts: partsFor(1), Horizon: 0},
			kind:      entities.ErrInvalidParameter,
			message:   "invalid planning parameter: horizon must be at least 1 period, got 0",
		},
		{
			name: "negative lead time",
			structure: &entities.Structure{
				Parts:   []entities.Part{{ID: 1, LeadTime: -1, LotSize: 10, MakeOrBuy: entities.Make}},
				Horizon: 3,
			},
			kind:    entities.ErrInvalidParameter,
			message: "invalid planning parameter: part 1: lead time cannot be negative, got -1",
		},
		{
			name: "unknown component",
			structure: &entities.Structure{
				Parts:   partsFor(1),
				Edges:   []entities.BOMEdge{edge(1, 2, 1)},
				Horizon: 3,
			},
			kind:    entities.ErrUnknownPart,
			message: "unknown part reference: edge 1 -> 2 (x1)",
		},
		{
			name: "duplicate edge",
			structure: &entities.Structure{
				Parts:   partsFor(1, 2),
				Edges:   []entities.BOMEdge{edge(1, 2, 1), edge(1, 2, 1)},
				Horizon: 3,
			},
			kind: entities.ErrDuplicateEdge,
		},
		{
			name: "non-positive quantity per",
			structure: &entities.Structure{
				Parts:   partsFor(1, 2),
				Edges:   []entities.BOMEdge{edge(1, 2, 0)},
				Horizon: 3,
			},
			kind: entities.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := NewProductStructure(tt.structure)
			require.Error(t, err)
			assert.Nil(t, ps)
			assert.ErrorIs(t, err, tt.kind)
			assert.True(t, entities.IsConfigError(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}
