package entities

import (
	"errors"
	"fmt"
)

// Configuration errors abort a run before any record is produced.
var (
	ErrCyclicBOM        = errors.New("cyclic bill of materials")
	ErrUnknownPart      = errors.New("unknown part reference")
	ErrDuplicatePart    = errors.New("duplicate part")
	ErrDuplicateEdge    = errors.New("duplicate BOM edge")
	ErrInvalidParameter = errors.New("invalid planning parameter")
	ErrInvalidDemand    = errors.New("invalid independent demand")
)

// ErrInvariantViolation marks an internal data error, never a recoverable condition.
var ErrInvariantViolation = errors.New("planning invariant violated")

// ConfigError identifies the part, edge or cycle behind a configuration error
type ConfigError struct {
	Kind   error
	PartID PartID
	Edge   *BOMEdge
	Cycle  []PartID
	Detail string
}

func (e *ConfigError) Error() string {
	msg := e.Kind.Error()
	switch {
	case len(e.Cycle) > 0:
		msg = fmt.Sprintf("%s: %v", msg, formatCycle(e.Cycle))
	case e.Edge != nil:
		msg = fmt.Sprintf("%s: edge %s", msg, e.Edge)
	case e.PartID != 0:
		msg = fmt.Sprintf("%s: part %d", msg, e.PartID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// IsConfigError reports whether err is a fatal configuration error
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func formatCycle(cycle []PartID) string {
	out := ""
	for i, id := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += fmt.Sprintf("%d", id)
	}
	return out
}
