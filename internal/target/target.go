// Package target works out how many pattern repeats reach a stitch count.
package target

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxRepeats bounds ValidTargetStitches when no limit is given.
const DefaultMaxRepeats = 100

var (
	// ErrNoChange indicates a pattern that neither adds nor removes stitches.
	ErrNoChange = errors.New("target: pattern does not change the stitch count")
	// ErrWrongDirection indicates a target the pattern moves away from.
	ErrWrongDirection = errors.New("target: target is in the wrong direction for this pattern")
	// ErrNegativeStitches indicates a negative starting or target count.
	ErrNegativeStitches = errors.New("target: stitch counts must not be negative")
)

// RepeatResult is the outcome of RepeatsToTarget.
type RepeatResult struct {
	Repeats      int
	IsExact      bool
	ActualEnding int
	IsValid      bool
	Err          error
}

// RowsResult is the outcome of a row count calculation.
type RowsResult struct {
	TotalRows      int
	ActualRepeats  int
	EndingStitches int
	ReachedOnRow   int
	IsValid        bool
}

// RepeatsToTarget returns the largest number of whole repeats that moves
// starting toward target without passing it.
func RepeatsToTarget(starting, target, changePerRepeat int) RepeatResult {
	if err := checkDirection(starting, target, changePerRepeat); err != nil {
		return RepeatResult{Err: err}
	}
	repeats := abs(target-starting) / abs(changePerRepeat)
	actual := starting + repeats*changePerRepeat
	return RepeatResult{
		Repeats:      repeats,
		IsExact:      actual == target,
		ActualEnding: actual,
		IsValid:      true,
	}
}

func checkDirection(starting, target, change int) error {
	switch {
	case change == 0:
		return ErrNoChange
	case starting < 0 || target < 0:
		return fmt.Errorf("%w: start %d, target %d", ErrNegativeStitches, starting, target)
	case change > 0 && target <= starting:
		return fmt.Errorf("%w: pattern adds %d stitches per repeat, so the target must be more than %d", ErrWrongDirection, change, starting)
	case change < 0 && target >= starting:
		return fmt.Errorf("%w: pattern removes %d stitches per repeat, so the target must be less than %d", ErrWrongDirection, -change, starting)
	}
	return nil
}

// RepeatsNeeded returns the exact, possibly fractional, number of repeats
// between starting and target. It is zero for a pattern with no change.
func RepeatsNeeded(starting, target, changePerRepeat int) float64 {
	if changePerRepeat == 0 {
		return 0
	}
	return float64(abs(target-starting)) / float64(abs(changePerRepeat))
}

// TargetRows converts a repeat count into rows. A partial final repeat is
// either completed (completeSequence) or cut short on the row the target is
// reached. Without row-level data that row is approximated as the first row
// after the last whole repeat; SimulateRows gives the exact row.
func TargetRows(repeatsNeeded float64, rowsPerRepeat int, completeSequence bool, target, starting, changePerRepeat int) RowsResult {
	if repeatsNeeded < 0 || rowsPerRepeat <= 0 || math.IsNaN(repeatsNeeded) || math.IsInf(repeatsNeeded, 0) {
		return RowsResult{}
	}
	full := int(math.Floor(repeatsNeeded))
	whole := float64(full) == repeatsNeeded
	partialRow := full*rowsPerRepeat + 1

	if completeSequence || whole {
		actual := int(math.Ceil(repeatsNeeded))
		total := actual * rowsPerRepeat
		reached := total
		if !whole {
			reached = partialRow
		}
		return RowsResult{
			TotalRows:      total,
			ActualRepeats:  actual,
			EndingStitches: starting + actual*changePerRepeat,
			ReachedOnRow:   reached,
			IsValid:        true,
		}
	}
	return RowsResult{
		TotalRows:      partialRow,
		ActualRepeats:  full,
		EndingStitches: target,
		ReachedOnRow:   partialRow,
		IsValid:        true,
	}
}

// ValidTargetStitches lists the stitch counts reached after 1..maxRepeats
// repeats. A decreasing pattern stops before the count would drop to zero.
func ValidTargetStitches(starting, changePerRepeat, maxRepeats int) []int {
	if changePerRepeat == 0 {
		return nil
	}
	if maxRepeats <= 0 {
		maxRepeats = DefaultMaxRepeats
	}
	out := make([]int, 0, maxRepeats)
	for i := 1; i <= maxRepeats; i++ {
		next := starting + i*changePerRepeat
		if next <= 0 {
			break
		}
		out = append(out, next)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
