package services

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Usage is one side of a BOM edge seen from the other part:
// a component when listed under its parent, a parent when listed under its component.
type Usage struct {
	PartID entities.PartID
	Index  int
	QtyPer entities.Quantity
}

// ProductStructure is the read-only, arena-indexed view of parts and BOM edges.
// Parts are addressed by a dense index assigned in load order.
type ProductStructure struct {
	parts      []entities.Part
	index      map[entities.PartID]int
	components [][]Usage // by parent index
	parents    [][]Usage // by component index
	edges      []entities.BOMEdge
	horizon    entities.Horizon
}

// NewProductStructure validates the loaded structure and builds the adjacency tables.
// Cycles are not rejected here; leveling reports them.
func NewProductStructure(structure *entities.Structure) (*ProductStructure, error) {
	if err := structure.Horizon.Validate(); err != nil {
		return nil, err
	}
	for i := range structure.Parts {
		if err := structure.Parts[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i := range structure.Edges {
		if err := structure.Edges[i].Validate(); err != nil {
			return nil, err
		}
	}

	validation := NewBOMValidator().ValidateStructure(structure.Parts, structure.Edges)
	if len(validation.DuplicateParts) > 0 || len(validation.UnknownRefs) > 0 || len(validation.DuplicateEdges) > 0 {
		return nil, validation.FirstError()
	}

	n := len(structure.Parts)
	ps := &ProductStructure{
		parts:      make([]entities.Part, n),
		index:      make(map[entities.PartID]int, n),
		components: make([][]Usage, n),
		parents:    make([][]Usage, n),
		edges:      make([]entities.BOMEdge, len(structure.Edges)),
		horizon:    structure.Horizon,
	}
	copy(ps.parts, structure.Parts)
	copy(ps.edges, structure.Edges)

	for i := range ps.parts {
		ps.parts[i].LowLevelCode = 0
		ps.index[ps.parts[i].ID] = i
	}

	for _, edge := range ps.edges {
		parentIdx := ps.index[edge.ParentID]
		componentIdx := ps.index[edge.ComponentID]
		ps.components[parentIdx] = append(ps.components[parentIdx], Usage{
			PartID: edge.ComponentID,
			Index:  componentIdx,
			QtyPer: edge.QtyPer,
		})
		ps.parents[componentIdx] = append(ps.parents[componentIdx], Usage{
			PartID: edge.ParentID,
			Index:  parentIdx,
			QtyPer: edge.QtyPer,
		})
	}

	return ps, nil
}

// Horizon returns the number of planning periods
func (ps *ProductStructure) Horizon() entities.Horizon {
	return ps.horizon
}

// Len returns the number of parts
func (ps *ProductStructure) Len() int {
	return len(ps.parts)
}

// Part returns the part stored at an arena index
func (ps *ProductStructure) Part(index int) *entities.Part {
	return &ps.parts[index]
}

// IndexOf resolves a part ID to its arena index
func (ps *ProductStructure) IndexOf(id entities.PartID) (int, bool) {
	index, ok := ps.index[id]
	return index, ok
}

// PartByID returns the part with the given ID
func (ps *ProductStructure) PartByID(id entities.PartID) (*entities.Part, bool) {
	index, ok := ps.index[id]
	if !ok {
		return nil, false
	}
	return &ps.parts[index], true
}

// EdgesByParent lists the components used by a parent
func (ps *ProductStructure) EdgesByParent(id entities.PartID) []Usage {
	index, ok := ps.index[id]
	if !ok {
		return nil
	}
	return ps.components[index]
}

// EdgesByComponent lists the parents that use a component
func (ps *ProductStructure) EdgesByComponent(id entities.PartID) []Usage {
	index, ok := ps.index[id]
	if !ok {
		return nil
	}
	return ps.parents[index]
}

// Parts returns a copy of all parts in arena order
func (ps *ProductStructure) Parts() []entities.Part {
	parts := make([]entities.Part, len(ps.parts))
	copy(parts, ps.parts)
	return parts
}

// Edges returns a copy of all BOM edges in load order
func (ps *ProductStructure) Edges() []entities.BOMEdge {
	edges := make([]entities.BOMEdge, len(ps.edges))
	copy(edges, ps.edges)
	return edges
}

func (ps *ProductStructure) componentsAt(index int) []Usage {
	return ps.components[index]
}

func (ps *ProductStructure) parentsAt(index int) []Usage {
	return ps.parents[index]
}
