package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// StructureRepository holds parts, BOM edges and the horizon in memory
type StructureRepository struct {
	mu      sync.RWMutex
	parts   []entities.Part
	edges   []entities.BOMEdge
	horizon entities.Horizon
}

// NewStructureRepository creates a repository for the given horizon
func NewStructureRepository(horizon entities.Horizon, expectedParts, expectedEdges int) *StructureRepository {
	return &StructureRepository{
		parts:   make([]entities.Part, 0, expectedParts),
		edges:   make([]entities.BOMEdge, 0, expectedEdges),
		horizon: horizon,
	}
}

// NewStructureRepositoryFrom copies an existing structure
func NewStructureRepositoryFrom(structure *entities.Structure) *StructureRepository {
	r := NewStructureRepository(structure.Horizon, len(structure.Parts), len(structure.Edges))
	r.parts = append(r.parts, structure.Parts...)
	r.edges = append(r.edges, structure.Edges...)
	return r
}

// Verify interface compliance
var _ repositories.StructureLoader = (*StructureRepository)(nil)

// AddPart adds a part to the repository
func (r *StructureRepository) AddPart(part entities.Part) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parts = append(r.parts, part)
}

// AddBOMEdge adds a BOM edge to the repository
func (r *StructureRepository) AddBOMEdge(edge entities.BOMEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, edge)
}

// SetHorizon changes the number of planning periods
func (r *StructureRepository) SetHorizon(horizon entities.Horizon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.horizon = horizon
}

// LoadStructure returns a snapshot; later additions do not affect it
func (r *StructureRepository) LoadStructure(ctx context.Context) (*entities.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &entities.Structure{
		Parts:   append([]entities.Part(nil), r.parts...),
		Edges:   append([]entities.BOMEdge(nil), r.edges...),
		Horizon: r.horizon,
	}, nil
}
