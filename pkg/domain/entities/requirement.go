package entities

import (
	"fmt"
	"strings"
)

// RequirementRecord is the planning state of one (part, period) pair.
// Field order matches the result sink contract.
type RequirementRecord struct {
	PartID               PartID   `json:"part_id"`
	PeriodID             PeriodID `json:"period_id"`
	GrossRequirements    Quantity `json:"gross_requirements"`
	ScheduledReceipts    Quantity `json:"scheduled_receipts"`
	EndingInventory      Quantity `json:"ending_inventory"`
	NetRequirements      Quantity `json:"net_requirements"`
	PlannedOrderRelease  Quantity `json:"planned_order_release"`
	PlannedOrderReceipts Quantity `json:"planned_order_receipts"`
}

// ExplosionBasis selects which parent row drives dependent demand
type ExplosionBasis int

const (
	// ExplodeReleases derives component demand from the parent's planned order releases.
	ExplodeReleases ExplosionBasis = iota
	// ExplodeGross derives component demand from the parent's gross requirements.
	ExplodeGross
)

// String method for ExplosionBasis enum
func (b ExplosionBasis) String() string {
	switch b {
	case ExplodeReleases:
		return "release"
	case ExplodeGross:
		return "gross"
	default:
		return "unknown"
	}
}

// ParseExplosionBasis parses "release" or "gross", case-insensitively
func ParseExplosionBasis(s string) (ExplosionBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "release", "releases":
		return ExplodeReleases, nil
	case "gross":
		return ExplodeGross, nil
	default:
		return ExplodeReleases, fmt.Errorf("invalid explosion basis: %s (expected: release or gross)", s)
	}
}

func (b ExplosionBasis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *ExplosionBasis) UnmarshalText(text []byte) error {
	parsed, err := ParseExplosionBasis(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
