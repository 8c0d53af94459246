package demand

import (
	"context"
	"fmt"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// FixedDemandSource serves predetermined demand sequences per root part
type FixedDemandSource struct {
	sequences map[entities.PartID][]entities.Quantity
	fallback  []entities.Quantity
}

// NewFixedDemandSource creates a source from per-part sequences
func NewFixedDemandSource(sequences map[entities.PartID][]entities.Quantity) *FixedDemandSource {
	copied := make(map[entities.PartID][]entities.Quantity, len(sequences))
	for id, seq := range sequences {
		copied[id] = append([]entities.Quantity(nil), seq...)
	}
	return &FixedDemandSource{sequences: copied}
}

// NewUniformDemandSource serves the same sequence to every root part
func NewUniformDemandSource(sequence []entities.Quantity) *FixedDemandSource {
	return &FixedDemandSource{
		sequences: map[entities.PartID][]entities.Quantity{},
		fallback:  append([]entities.Quantity(nil), sequence...),
	}
}

// Demand returns a copy of the part's sequence. A sequence of the wrong
// length is returned as is; the planner rejects it.
func (s *FixedDemandSource) Demand(ctx context.Context, part entities.Part, horizon entities.Horizon) ([]entities.Quantity, error) {
	seq, ok := s.sequences[part.ID]
	if !ok {
		seq = s.fallback
	}
	if seq == nil {
		return nil, &entities.ConfigError{
			Kind:   entities.ErrInvalidDemand,
			PartID: part.ID,
			Detail: fmt.Sprintf("no demand sequence for %d periods", horizon),
		}
	}
	return append([]entities.Quantity(nil), seq...), nil
}
