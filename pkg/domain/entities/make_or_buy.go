package entities

import (
	"fmt"
	"strings"
)

// MakeOrBuy records whether a part is produced in-house or purchased.
// It is informational and does not change the netting recurrence.
type MakeOrBuy int

const (
	Make MakeOrBuy = iota
	Buy
)

// String method for MakeOrBuy enum
func (m MakeOrBuy) String() string {
	switch m {
	case Make:
		return "Make"
	case Buy:
		return "Buy"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the known codes
func (m MakeOrBuy) Valid() bool {
	return m == Make || m == Buy
}

// ParseMakeOrBuy parses "Make" or "Buy", case-insensitively
func ParseMakeOrBuy(s string) (MakeOrBuy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "make":
		return Make, nil
	case "buy":
		return Buy, nil
	default:
		return Make, fmt.Errorf("invalid make_or_buy: %s (expected: Make or Buy)", s)
	}
}
