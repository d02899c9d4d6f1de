// Package rowcalc tracks stitch consumption while a row is being written.
package rowcalc

import (
	"fmt"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/notation"
)

// UnlimitedMultiplier is returned by MaxSafeMultiplier for groups that work
// no live stitches.
const UnlimitedMultiplier = 99

// Calculation is the running total for a row.
type Calculation struct {
	PreviousStitches int
	StitchesConsumed int
	StitchesProduced int
	// IsValid is false once the row works more stitches than are available.
	IsValid bool
	// Unknown lists names with no built-in or custom definition.
	Unknown []string
}

// Remaining is the number of live stitches not yet worked.
func (c Calculation) Remaining() int {
	return c.PreviousStitches - c.StitchesConsumed
}

// Status classifies how a row relates to the stitches available.
type Status int

const (
	// Complete rows work every available stitch.
	Complete Status = iota
	// Incomplete rows leave stitches unworked.
	Incomplete
	// Overconsumed rows work more stitches than exist.
	Overconsumed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Overconsumed:
		return "overconsumed"
	default:
		return "incomplete"
	}
}

// Completion reports whether a row is finished.
type Completion struct {
	IsComplete bool
	Status     Status
	Reason     string
}

// Calculate totals the stitches a row works and leaves, left to right.
// Text that does not parse cleanly is never an error; unknown names count as
// zero and are reported in Unknown.
func Calculate(text string, available int, table model.CustomActionTable) Calculation {
	return CalculateOps(notation.Parse(text, table), available)
}

// CalculateOps totals already parsed operations.
func CalculateOps(ops []notation.Operation, available int) Calculation {
	effect := notation.Effect(ops)
	return Calculation{
		PreviousStitches: available,
		StitchesConsumed: effect.Consumes,
		StitchesProduced: effect.Produces,
		IsValid:          effect.Consumes <= available,
		Unknown:          notation.Unknown(ops),
	}
}

// IsRowComplete reports whether text works exactly the available stitches.
func IsRowComplete(text string, available int, table model.CustomActionTable) Completion {
	return completionOf(Calculate(text, available, table))
}

func completionOf(calc Calculation) Completion {
	remaining := calc.Remaining()
	switch {
	case remaining == 0:
		return Completion{
			IsComplete: true,
			Status:     Complete,
			Reason:     fmt.Sprintf("row complete: %d stitches worked, %d on the needle", calc.StitchesConsumed, calc.StitchesProduced),
		}
	case remaining > 0:
		return Completion{
			Status: Incomplete,
			Reason: fmt.Sprintf("%d of %d stitches left to work", remaining, calc.PreviousStitches),
		}
	default:
		return Completion{
			Status: Overconsumed,
			Reason: fmt.Sprintf("row works %d stitches but only %d are available", calc.StitchesConsumed, calc.PreviousStitches),
		}
	}
}

// MaxSafeMultiplier returns the largest multiplier for a repeat of action
// that fits in remaining stitches. It never returns less than 1.
func MaxSafeMultiplier(action string, remaining int, table model.CustomActionTable) int {
	return maxSafe(notation.Effect(notation.Parse(action, table)).Consumes, remaining)
}

func maxSafe(consumesPerRepeat, remaining int) int {
	if remaining <= 0 {
		return 1
	}
	if consumesPerRepeat <= 0 {
		return UnlimitedMultiplier
	}
	n := remaining / consumesPerRepeat
	if n < 1 {
		return 1
	}
	return n
}

// SuggestMultiplier finds the innermost group still open in text and returns
// the largest multiplier it can take given what precedes it. ok is false
// when no group is open.
func SuggestMultiplier(text string, available int, table model.CustomActionTable) (int, bool) {
	prefix, body, ok := notation.OpenGroup(text)
	if !ok {
		return 0, false
	}
	before := Calculate(prefix, available, table)
	return MaxSafeMultiplier(body, before.Remaining(), table), true
}
