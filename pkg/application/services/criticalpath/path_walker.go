package criticalpath

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services"
)

// pathWalker builds critical paths bottom-up: a leaf yields a single path,
// a parent prepends itself to every path of each component.
// The structure must be acyclic.
type pathWalker struct {
	ps *services.ProductStructure
}

func newPathWalker(ps *services.ProductStructure) *pathWalker {
	return &pathWalker{ps: ps}
}

func (w *pathWalker) pathsFrom(index, depth int) []entities.CriticalPath {
	part := w.ps.Part(index)
	node := entities.CriticalPathNode{
		PartID:    part.ID,
		Name:      part.Name,
		LeadTime:  part.LeadTime,
		Level:     depth,
		MakeOrBuy: part.MakeOrBuy,
	}

	components := w.ps.EdgesByParent(part.ID)
	if len(components) == 0 {
		node.CumulativeTime = part.LeadTime
		return []entities.CriticalPath{{
			TotalLeadTime:  part.LeadTime,
			PathLength:     1,
			Path:           []entities.PartID{part.ID},
			PathDetails:    []entities.CriticalPathNode{node},
			BottleneckPart: part.ID,
		}}
	}

	var resultPaths []entities.CriticalPath
	for _, usage := range components {
		for _, childPath := range w.pathsFrom(usage.Index, depth+1) {
			head := node
			head.CumulativeTime = part.LeadTime + childPath.TotalLeadTime

			// Bottleneck is the part with the longest individual lead time
			bottleneck := part.ID
			if part.LeadTime < leadTimeOf(childPath.BottleneckPart, childPath.PathDetails) {
				bottleneck = childPath.BottleneckPart
			}

			resultPaths = append(resultPaths, entities.CriticalPath{
				TotalLeadTime:  part.LeadTime + childPath.TotalLeadTime,
				PathLength:     1 + childPath.PathLength,
				Path:           append([]entities.PartID{part.ID}, childPath.Path...),
				PathDetails:    append([]entities.CriticalPathNode{head}, childPath.PathDetails...),
				BottleneckPart: bottleneck,
			})
		}
	}
	return resultPaths
}

func leadTimeOf(id entities.PartID, details []entities.CriticalPathNode) int {
	for _, node := range details {
		if node.PartID == id {
			return node.LeadTime
		}
	}
	return 0
}
