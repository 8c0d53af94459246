package services

import (
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Leveling is the outcome of a low-level code pass over a product structure
type Leveling struct {
	// Codes holds the low-level code by arena index.
	Codes []int
	// Order lists arena indices sorted by (code, part ID).
	Order []int
	// Levels groups Order by code; Levels[k] holds every part with code k.
	Levels [][]int
}

// MaxLevel returns the deepest low-level code, or -1 for an empty structure
func (l *Leveling) MaxLevel() int {
	return len(l.Levels) - 1
}

// AssignLowLevelCodes computes the longest-path depth of every part and
// stamps it on the structure's parts. Parts never used as a component get 0.
// A cyclic BOM is reported as a ConfigError carrying one cycle path.
func AssignLowLevelCodes(ps *ProductStructure) (*Leveling, error) {
	n := ps.Len()
	codes := make([]int, n)
	inDegree := make([]int, n)
	for i := 0; i < n; i++ {
		inDegree[i] = len(ps.parentsAt(i))
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	processed := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		processed++

		for _, usage := range ps.componentsAt(current) {
			if codes[current]+1 > codes[usage.Index] {
				codes[usage.Index] = codes[current] + 1
			}
			inDegree[usage.Index]--
			if inDegree[usage.Index] == 0 {
				queue = append(queue, usage.Index)
			}
		}
	}

	if processed < n {
		return nil, cycleError(ps)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if codes[ia] != codes[ib] {
			return codes[ia] < codes[ib]
		}
		return ps.Part(ia).ID < ps.Part(ib).ID
	})

	levels := make([][]int, 0)
	for _, index := range order {
		code := codes[index]
		for len(levels) <= code {
			levels = append(levels, nil)
		}
		levels[code] = append(levels[code], index)
		ps.Part(index).LowLevelCode = code
	}

	return &Leveling{
		Codes:  codes,
		Order:  order,
		Levels: levels,
	}, nil
}

func cycleError(ps *ProductStructure) error {
	cycles := NewBOMValidator().DetectCycles(ps.Edges())
	cfgErr := &entities.ConfigError{Kind: entities.ErrCyclicBOM}
	if len(cycles) > 0 {
		cfgErr.Cycle = cycles[0]
	}
	return cfgErr
}
