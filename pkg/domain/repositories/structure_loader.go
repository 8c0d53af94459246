package repositories

import (
	"context"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// StructureLoader provides the immutable part, BOM and horizon data of a run.
// Implementations must return a complete set: every referenced part is loaded.
type StructureLoader interface {
	LoadStructure(ctx context.Context) (*entities.Structure, error)
}
