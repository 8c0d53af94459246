package entities

import (
	"fmt"
	"strings"
)

// CriticalPathNode is one part on a root-to-leaf path with its cumulative lead time
type CriticalPathNode struct {
	PartID         PartID
	Name           string
	LeadTime       int
	CumulativeTime int
	Level          int
	MakeOrBuy      MakeOrBuy
}

// CriticalPath is a complete path through the BOM with timing information
type CriticalPath struct {
	TotalLeadTime  int
	PathLength     int
	Path           []PartID
	PathDetails    []CriticalPathNode
	BottleneckPart PartID // part with the longest individual lead time
}

// CriticalPathAnalysis holds the longest lead-time paths below one root part
type CriticalPathAnalysis struct {
	RootPart     PartID
	CriticalPath CriticalPath
	TopPaths     []CriticalPath
	TotalPaths   int
}

// GetCriticalPathSummary returns a formatted summary of the critical path
func (analysis *CriticalPathAnalysis) GetCriticalPathSummary() string {
	if len(analysis.TopPaths) == 0 {
		return "No critical path found"
	}

	cp := analysis.CriticalPath
	return fmt.Sprintf("Critical Path: %d periods | Bottleneck: %d | %s",
		cp.TotalLeadTime, cp.BottleneckPart, cp.Route())
}

// Route renders the path as "1 -> 2 -> 4"
func (path *CriticalPath) Route() string {
	parts := make([]string, len(path.Path))
	for i, id := range path.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " -> ")
}
