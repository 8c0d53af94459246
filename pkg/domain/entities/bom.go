package entities

import "fmt"

// BOMEdge is a single parent -> component line of the bill of materials
type BOMEdge struct {
	ParentID    PartID
	ComponentID PartID
	QtyPer      Quantity
	// Level is the depth at which the edge occurs. Kept for traceability only;
	// planning relies on computed low-level codes.
	Level int
}

// NewBOMEdge creates a validated BOMEdge
func NewBOMEdge(parentID, componentID PartID, qtyPer Quantity, level int) (*BOMEdge, error) {
	edge := &BOMEdge{
		ParentID:    parentID,
		ComponentID: componentID,
		QtyPer:      qtyPer,
		Level:       level,
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	return edge, nil
}

// Validate checks the edge quantities
func (e *BOMEdge) Validate() error {
	if e.QtyPer <= 0 {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			PartID: e.ComponentID,
			Edge:   e,
			Detail: fmt.Sprintf("quantity per must be positive, got %d", e.QtyPer),
		}
	}
	if e.Level < 0 {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			PartID: e.ComponentID,
			Edge:   e,
			Detail: fmt.Sprintf("level cannot be negative, got %d", e.Level),
		}
	}
	return nil
}

// String renders the edge as "parent -> component (xN)"
func (e BOMEdge) String() string {
	return fmt.Sprintf("%d -> %d (x%d)", e.ParentID, e.ComponentID, e.QtyPer)
}

// Structure is the immutable input of a planning run as produced by a loader
type Structure struct {
	Parts   []Part
	Edges   []BOMEdge
	Horizon Horizon
}
