// Package distribute spreads increases or decreases evenly across a row.
package distribute

import (
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/notation"
)

// NoChanges is the instruction returned for a zero amount.
const NoChanges = "No changes needed"

var (
	// ErrInvalidAmount indicates a negative amount.
	ErrInvalidAmount = errors.New("distribute: amount must not be negative")
	// ErrTargetTooSmall indicates the resulting stitch count would be below one.
	ErrTargetTooSmall = errors.New("distribute: target must be at least 1 stitch")
	// ErrTooFewStitches indicates the row cannot host the requested sections.
	ErrTooFewStitches = errors.New("distribute: not enough stitches")
)

// Result is an evenly distributed shaping row.
type Result struct {
	// Instruction is the raw, uncompressed row.
	Instruction string
	Operations  []notation.Operation
	// Sections holds the plain-knit run lengths between changes.
	Sections         []int
	StartingStitches int
	EndingStitches   int
	ChangeCount      int
	Construction     model.Construction
}

// Evenly distributes amount increases or decreases over starting stitches.
// Flat rows get one more knit section than changes so both edges are
// knitted; rounds wrap, so sections and changes pair up.
func Evenly(starting int, action model.ShapingAction, amount int, construction model.Construction) (Result, error) {
	if amount < 0 {
		return Result{}, ErrInvalidAmount
	}
	if amount == 0 {
		return Result{
			Instruction:      NoChanges,
			Sections:         []int{},
			StartingStitches: starting,
			EndingStitches:   starting,
			Construction:     construction,
		}, nil
	}

	target := starting + amount
	if action == model.Decrease {
		target = starting - amount
	}
	if target <= 0 {
		return Result{}, fmt.Errorf("%w: %d stitches with %d %ss leaves %d", ErrTargetTooSmall, starting, amount, action, target)
	}

	numSections := amount
	if construction == model.Flat {
		numSections = amount + 1
	}
	if starting < numSections {
		return Result{}, fmt.Errorf("%w: %d %ss worked %s need at least %d stitches, have %d",
			ErrTooFewStitches, amount, action, construction, numSections, starting)
	}

	available := starting
	if action == model.Decrease {
		// Each K2tog works two stitches outside the knit sections.
		available = starting - 2*amount
	}
	if available < 0 {
		return Result{}, fmt.Errorf("%w: %d decreases need at least %d stitches, have %d",
			ErrTooFewStitches, amount, 2*amount, starting)
	}

	sections := layout(available, numSections, construction)
	ops := emit(sections, action, construction)
	return Result{
		Instruction:      notation.Render(ops),
		Operations:       ops,
		Sections:         sections,
		StartingStitches: starting,
		EndingStitches:   target,
		ChangeCount:      amount,
		Construction:     construction,
	}, nil
}

// layout splits total stitches into n sections whose sizes differ by at most
// one. The placement of the larger sections is deterministic.
func layout(total, n int, construction model.Construction) []int {
	base := total / n
	remainder := total % n
	sections := make([]int, n)
	for i := range sections {
		sections[i] = base
	}
	if remainder == 0 {
		return sections
	}
	if construction == model.Round {
		spreadAtInterval(sections, remainder)
	} else {
		spreadFromCenter(sections, remainder)
	}
	return sections
}

// spreadAtInterval grows every ceil(n/remainder)-th section, then fills any
// still owed left to right.
func spreadAtInterval(sections []int, remainder int) {
	n := len(sections)
	base := sections[0]
	interval := (n + remainder - 1) / remainder
	placed := 0
	for i := 0; i < n && placed < remainder; i += interval {
		sections[i]++
		placed++
	}
	for i := 0; i < n && placed < remainder; i++ {
		if sections[i] == base {
			sections[i]++
			placed++
		}
	}
}

// spreadFromCenter grows the sections nearest the middle of the row, so
// shaping on a flat piece stays symmetric. Ties go to the lower index.
func spreadFromCenter(sections []int, remainder int) {
	n := len(sections)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Distances are doubled to keep the centre of an even count integral.
	dist := func(i int) int {
		d := 2*i - (n - 1)
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := dist(order[a]), dist(order[b])
		if da == db {
			return order[a] < order[b]
		}
		return da < db
	})
	for _, idx := range order[:remainder] {
		sections[idx]++
	}
}

func emit(sections []int, action model.ShapingAction, construction model.Construction) []notation.Operation {
	change := "inc"
	if action == model.Decrease {
		change = "K2tog"
	}
	changeOp, _ := notation.Stitch(change, 0)

	ops := make([]notation.Operation, 0, 2*len(sections))
	for i, size := range sections {
		if size > 0 {
			knit, _ := notation.Stitch("K", size)
			ops = append(ops, knit)
		}
		if i < len(sections)-1 || construction == model.Round {
			ops = append(ops, changeOp)
		}
	}
	return ops
}
