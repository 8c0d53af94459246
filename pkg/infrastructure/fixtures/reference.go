package fixtures

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Reference demand parameters used with ReferenceStructure
const (
	ReferenceDemandSeed int64             = 38
	ReferenceDemandMin  entities.Quantity = 30
	ReferenceDemandMax  entities.Quantity = 60
)

// ReferenceStructure builds the seven-part A..G product structure (IDs 1..7)
// over a 19-period horizon.
func ReferenceStructure() *entities.Structure {
	parts := []entities.Part{
		mustPart(1, "A", 2, 10, 100, entities.Make),
		mustPart(2, "B", 3, 20, 250, entities.Make),
		mustPart(3, "C", 2, 10, 100, entities.Make),
		mustPart(4, "D", 2, 20, 200, entities.Make),
		mustPart(5, "E", 3, 30, 300, entities.Buy),
		mustPart(6, "F", 1, 20, 200, entities.Buy),
		mustPart(7, "G", 4, 10, 300, entities.Buy),
	}

	edges := []entities.BOMEdge{
		mustEdge(1, 2, 1, 0),
		mustEdge(1, 3, 3, 0),
		mustEdge(2, 4, 1, 1),
		mustEdge(2, 3, 2, 1),
		mustEdge(3, 5, 3, 1),
		mustEdge(4, 5, 1, 2),
		mustEdge(4, 6, 1, 2),
		mustEdge(4, 7, 2, 2),
	}

	return &entities.Structure{
		Parts:   parts,
		Edges:   edges,
		Horizon: entities.DefaultHorizon,
	}
}

// SingleComponentStructure builds a root R (ID 1) with one component C (ID 2)
// over a 5-period horizon.
func SingleComponentStructure() *entities.Structure {
	return &entities.Structure{
		Parts: []entities.Part{
			mustPart(1, "R", 2, 10, 100, entities.Make),
			mustPart(2, "C", 3, 30, 300, entities.Buy),
		},
		Edges: []entities.BOMEdge{
			mustEdge(1, 2, 1, 0),
		},
		Horizon: 5,
	}
}

// mustPart panics on validation error; fixture data is static
func mustPart(id entities.PartID, name string, leadTime int, initial, lot entities.Quantity, mob entities.MakeOrBuy) entities.Part {
	part, err := entities.NewPart(id, name, leadTime, initial, lot, mob)
	if err != nil {
		panic(err)
	}
	return *part
}

func mustEdge(parent, component entities.PartID, qtyPer entities.Quantity, level int) entities.BOMEdge {
	edge, err := entities.NewBOMEdge(parent, component, qtyPer, level)
	if err != nil {
		panic(err)
	}
	return *edge
}
