package criticalpath

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services"
)

// CriticalPathService performs lead-time path analysis on a product structure
type CriticalPathService struct{}

// NewCriticalPathService creates a new critical path service
func NewCriticalPathService() *CriticalPathService {
	return &CriticalPathService{}
}

// AnalyzeCriticalPath enumerates every root-to-leaf path below a part and
// returns the topN with the longest total lead time
func (cps *CriticalPathService) AnalyzeCriticalPath(
	ctx context.Context,
	ps *services.ProductStructure,
	rootPart entities.PartID,
	topN int,
) (*entities.CriticalPathAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rootIndex, ok := ps.IndexOf(rootPart)
	if !ok {
		return nil, fmt.Errorf("failed to find paths for %d: %w", rootPart, entities.ErrUnknownPart)
	}

	walker := newPathWalker(ps)
	allPaths := walker.pathsFrom(rootIndex, 0)

	sort.SliceStable(allPaths, func(i, j int) bool {
		// Primary sort: total lead time
		if allPaths[i].TotalLeadTime != allPaths[j].TotalLeadTime {
			return allPaths[i].TotalLeadTime > allPaths[j].TotalLeadTime
		}
		// Secondary sort: path length (longer paths first)
		return allPaths[i].PathLength > allPaths[j].PathLength
	})

	if topN < 1 || topN > len(allPaths) {
		topN = len(allPaths)
	}

	return &entities.CriticalPathAnalysis{
		RootPart:     rootPart,
		CriticalPath: allPaths[0],
		TopPaths:     allPaths[:topN],
		TotalPaths:   len(allPaths),
	}, nil
}

// CumulativeLeadTimes returns, per part, the longest summed lead time from
// the part down to any leaf, the part's own lead time included
func (cps *CriticalPathService) CumulativeLeadTimes(ps *services.ProductStructure) map[entities.PartID]int {
	memo := make([]int, ps.Len())
	done := make([]bool, ps.Len())

	var visit func(index int) int
	visit = func(index int) int {
		if done[index] {
			return memo[index]
		}
		part := ps.Part(index)
		longest := 0
		for _, usage := range ps.EdgesByParent(part.ID) {
			if below := visit(usage.Index); below > longest {
				longest = below
			}
		}
		memo[index] = part.LeadTime + longest
		done[index] = true
		return memo[index]
	}

	result := make(map[entities.PartID]int, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		result[ps.Part(i).ID] = visit(i)
	}
	return result
}
