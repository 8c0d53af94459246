package entities

import "fmt"

// PeriodID is a 1-indexed planning period
type PeriodID int

// DefaultHorizon is the number of periods in the reference data set
const DefaultHorizon Horizon = 19

// Horizon is the fixed, contiguous length 1..H of a planning run
type Horizon int

// Validate rejects empty or negative horizons
func (h Horizon) Validate() error {
	if h < 1 {
		return &ConfigError{
			Kind:   ErrInvalidParameter,
			Detail: fmt.Sprintf("horizon must be at least 1 period, got %d", h),
		}
	}
	return nil
}

// Contains reports whether p falls inside 1..H
func (h Horizon) Contains(p PeriodID) bool {
	return p >= 1 && int(p) <= int(h)
}

// Periods returns the ordered period sequence 1..H
func (h Horizon) Periods() []PeriodID {
	periods := make([]PeriodID, 0, int(h))
	for p := PeriodID(1); int(p) <= int(h); p++ {
		periods = append(periods, p)
	}
	return periods
}
