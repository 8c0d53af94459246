package demand

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// RandomDemandSource draws each period's independent demand uniformly from
// [Min, Max]. The same seed yields the same sequence of calls.
type RandomDemandSource struct {
	min entities.Quantity
	max entities.Quantity

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDemandSource creates a seeded uniform demand generator
func NewRandomDemandSource(seed int64, minQty, maxQty entities.Quantity) (*RandomDemandSource, error) {
	if minQty < 0 || maxQty < minQty {
		return nil, &entities.ConfigError{
			Kind:   entities.ErrInvalidDemand,
			Detail: fmt.Sprintf("demand range [%d, %d] is empty or negative", minQty, maxQty),
		}
	}
	return &RandomDemandSource{
		min: minQty,
		max: maxQty,
		rng: rand.New(rand.NewPCG(uint64(seed), 0)),
	}, nil
}

// Demand returns horizon draws for the part
func (s *RandomDemandSource) Demand(ctx context.Context, part entities.Part, horizon entities.Horizon) ([]entities.Quantity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	span := int64(s.max-s.min) + 1
	quantities := make([]entities.Quantity, int(horizon))
	for i := range quantities {
		quantities[i] = s.min + entities.Quantity(s.rng.Int64N(span))
	}
	return quantities, nil
}
