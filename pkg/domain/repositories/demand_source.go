package repositories

import (
	"context"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// DemandSource produces independent demand for root parts.
// Demand returns exactly one non-negative quantity per period 1..horizon.
type DemandSource interface {
	Demand(ctx context.Context, part entities.Part, horizon entities.Horizon) ([]entities.Quantity, error)
}
