package entities

import "fmt"

// PartID is the stable integer identifier of a part
type PartID int

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// Part represents a buildable or purchasable item with its supply parameters
type Part struct {
	ID               PartID
	Name             string
	LeadTime         int // periods between release and receipt
	InitialInventory Quantity
	LotSize          Quantity
	MakeOrBuy        MakeOrBuy

	// LowLevelCode is assigned by leveling, never by the loader.
	LowLevelCode int
}

// NewPart creates a validated Part
func NewPart(
	id PartID,
	name string,
	leadTime int,
	initialInventory Quantity,
	lotSize Quantity,
	makeOrBuy MakeOrBuy,
) (*Part, error) {
	part := &Part{
		ID:               id,
		Name:             name,
		LeadTime:         leadTime,
		InitialInventory: initialInventory,
		LotSize:          lotSize,
		MakeOrBuy:        makeOrBuy,
	}
	if err := part.Validate(); err != nil {
		return nil, err
	}
	return part, nil
}

// Validate checks the supply parameters of the part
func (p *Part) Validate() error {
	if p.LeadTime < 0 {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			PartID: p.ID,
			Detail: fmt.Sprintf("lead time cannot be negative, got %d", p.LeadTime),
		}
	}
	if p.LotSize < 0 {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			PartID: p.ID,
			Detail: fmt.Sprintf("lot size cannot be negative, got %d", p.LotSize),
		}
	}
	if !p.MakeOrBuy.Valid() {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			PartID: p.ID,
			Detail: fmt.Sprintf("unknown make/buy code %d", p.MakeOrBuy),
		}
	}
	return nil
}

// Label returns the display name, falling back to the numeric ID
func (p *Part) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%d", p.ID)
}
