package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.PartID
	DuplicateEdges []entities.BOMEdge
	UnknownRefs    []entities.BOMEdge
	DuplicateParts []entities.PartID
	Errors         []string
}

// Valid reports whether no problem was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// FirstError converts the first problem found into a ConfigError.
// Reference problems take precedence over duplicate edges, then cycles.
func (r *ValidationResult) FirstError() error {
	switch {
	case len(r.DuplicateParts) > 0:
		return &entities.ConfigError{Kind: entities.ErrDuplicatePart, PartID: r.DuplicateParts[0]}
	case len(r.UnknownRefs) > 0:
		edge := r.UnknownRefs[0]
		return &entities.ConfigError{Kind: entities.ErrUnknownPart, Edge: &edge}
	case len(r.DuplicateEdges) > 0:
		edge := r.DuplicateEdges[0]
		return &entities.ConfigError{Kind: entities.ErrDuplicateEdge, Edge: &edge}
	case r.HasCycles:
		return &entities.ConfigError{Kind: entities.ErrCyclicBOM, Cycle: r.CyclePaths[0]}
	}
	return nil
}

// ValidateStructure performs comprehensive validation on parts and BOM edges
func (v *BOMValidator) ValidateStructure(parts []entities.Part, edges []entities.BOMEdge) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.PartID, 0),
		DuplicateEdges: make([]entities.BOMEdge, 0),
		UnknownRefs:    make([]entities.BOMEdge, 0),
		DuplicateParts: make([]entities.PartID, 0),
		Errors:         make([]string, 0),
	}

	known := make(map[entities.PartID]bool, len(parts))
	for _, part := range parts {
		if known[part.ID] {
			result.DuplicateParts = append(result.DuplicateParts, part.ID)
			continue
		}
		known[part.ID] = true
	}
	if len(result.DuplicateParts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate part IDs found: %v", result.DuplicateParts))
	}

	for _, edge := range edges {
		if !known[edge.ParentID] || !known[edge.ComponentID] {
			result.UnknownRefs = append(result.UnknownRefs, edge)
			result.Errors = append(result.Errors, fmt.Sprintf("BOM edge %s references an unknown part", edge))
		}
	}

	result.DuplicateEdges = v.detectDuplicateEdges(edges)
	if len(result.DuplicateEdges) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate BOM edges", len(result.DuplicateEdges)))
	}

	result.CyclePaths = v.DetectCycles(edges)
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	return result
}

// DetectCycles uses DFS to find cycles in the BOM structure.
// Parents are visited in ascending ID order so the reported paths are stable.
func (v *BOMValidator) DetectCycles(edges []entities.BOMEdge) [][]entities.PartID {
	adjacencyMap := v.buildAdjacencyMap(edges)

	parents := make([]entities.PartID, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })

	visited := make(map[entities.PartID]bool)
	recursionStack := make(map[entities.PartID]bool)
	cycles := make([][]entities.PartID, 0)

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// buildAdjacencyMap creates a map of parent -> sorted, de-duplicated components
func (v *BOMValidator) buildAdjacencyMap(edges []entities.BOMEdge) map[entities.PartID][]entities.PartID {
	adjacencyMap := make(map[entities.PartID][]entities.PartID)
	seen := make(map[[2]entities.PartID]bool)

	for _, edge := range edges {
		key := [2]entities.PartID{edge.ParentID, edge.ComponentID}
		if seen[key] {
			continue
		}
		seen[key] = true
		adjacencyMap[edge.ParentID] = append(adjacencyMap[edge.ParentID], edge.ComponentID)
	}

	for parent := range adjacencyMap {
		children := adjacencyMap[parent]
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	}

	return adjacencyMap
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.PartID,
	adjacencyMap map[entities.PartID][]entities.PartID,
	visited map[entities.PartID]bool,
	recursionStack map[entities.PartID]bool,
	path []entities.PartID,
	cycles *[][]entities.PartID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		// Found a cycle - extract the cycle path
		for i, part := range path {
			if part == child {
				cycle := make([]entities.PartID, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateEdges finds repeated (parent, component) pairs
func (v *BOMValidator) detectDuplicateEdges(edges []entities.BOMEdge) []entities.BOMEdge {
	seen := make(map[[2]entities.PartID]bool)
	duplicates := make([]entities.BOMEdge, 0)

	for _, edge := range edges {
		key := [2]entities.PartID{edge.ParentID, edge.ComponentID}
		if seen[key] {
			duplicates = append(duplicates, edge)
			continue
		}
		seen[key] = true
	}

	return duplicates
}
