// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Construction describes how a piece is worked.
type Construction int

const (
	// Flat pieces are worked back and forth in rows.
	Flat Construction = iota
	// Round pieces are worked in a continuous spiral.
	Round
)

// String implements fmt.Stringer.
func (c Construction) String() string {
	if c == Round {
		return "round"
	}
	return "flat"
}

// RowLabel returns the label for a row number: RS/WS alternation for flat
// pieces and a plain round number otherwise.
func (c Construction) RowLabel(row int) string {
	if c == Round {
		return fmt.Sprintf("Round %d", row)
	}
	side := "RS"
	if row%2 == 0 {
		side = "WS"
	}
	return fmt.Sprintf("Row %d (%s)", row, side)
}

// ParseConstruction parses "flat" or "round".
func ParseConstruction(s string) (Construction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "":
		return Flat, nil
	case "round", "rounds", "circular":
		return Round, nil
	default:
		return Flat, fmt.Errorf("unknown construction %q (want flat or round)", s)
	}
}

// ShapingAction is the direction of an even distribution.
type ShapingAction int

const (
	// Increase adds stitches.
	Increase ShapingAction = iota
	// Decrease removes stitches.
	Decrease
)

// String implements fmt.Stringer.
func (a ShapingAction) String() string {
	if a == Decrease {
		return "decrease"
	}
	return "increase"
}

// PatternType namespaces custom actions within a project.
type PatternType string

const (
	PatternGeneral PatternType = "general"
	PatternLace    PatternType = "lace"
	PatternCable   PatternType = "cable"
)

// ParsePatternType parses a pattern type, defaulting to general.
func ParsePatternType(s string) (PatternType, error) {
	switch PatternType(strings.ToLower(strings.TrimSpace(s))) {
	case "", PatternGeneral:
		return PatternGeneral, nil
	case PatternLace:
		return PatternLace, nil
	case PatternCable:
		return PatternCable, nil
	default:
		return PatternGeneral, fmt.Errorf("unknown pattern type %q (want general, lace or cable)", s)
	}
}

// MaxStitchCount bounds written counts and multipliers. Effect totals
// saturate at it.
const MaxStitchCount = 1 << 20

// StitchEffect is the number of live stitches an operation works and leaves.
type StitchEffect struct {
	Consumes int
	Produces int
}

// Net returns produced minus consumed.
func (e StitchEffect) Net() int {
	return e.Produces - e.Consumes
}

// Add returns the sum of two effects, saturating at MaxStitchCount.
func (e StitchEffect) Add(o StitchEffect) StitchEffect {
	return StitchEffect{
		Consumes: addCount(e.Consumes, o.Consumes),
		Produces: addCount(e.Produces, o.Produces),
	}
}

// Scale multiplies an effect by n, saturating at MaxStitchCount. A
// non-positive n gives the zero effect.
func (e StitchEffect) Scale(n int) StitchEffect {
	if n <= 0 {
		return StitchEffect{}
	}
	return StitchEffect{Consumes: scaleCount(e.Consumes, n), Produces: scaleCount(e.Produces, n)}
}

func addCount(a, b int) int {
	a, b = clampCount(a), clampCount(b)
	return clampCount(a + b)
}

func scaleCount(c, n int) int {
	c = clampCount(c)
	if c > 0 && c > MaxStitchCount/n {
		return MaxStitchCount
	}
	return c * n
}

func clampCount(c int) int {
	switch {
	case c < 0:
		return 0
	case c > MaxStitchCount:
		return MaxStitchCount
	default:
		return c
	}
}

// CustomAction is a user-named stitch operation.
type CustomAction struct {
	Name        string      `validate:"required,max=32,stitchname"`
	Consumes    int         `validate:"gte=0,lte=64"`
	Produces    int         `validate:"gte=0,lte=64"`
	PatternType PatternType `validate:"oneof=general lace cable"`
}

// Effect returns the stitch effect of one application of the action.
func (a CustomAction) Effect() StitchEffect {
	return StitchEffect{Consumes: a.Consumes, Produces: a.Produces}
}

// CustomActionTable maps action names to their stitch effect.
type CustomActionTable map[string]StitchEffect

// Lookup finds an action by exact name, then case-insensitively. When several
// names differ only in case, the one that sorts first wins.
func (t CustomActionTable) Lookup(name string) (StitchEffect, bool) {
	if len(t) == 0 {
		return StitchEffect{}, false
	}
	if e, ok := t[name]; ok {
		return e, true
	}
	match := ""
	found := false
	for k := range t {
		if strings.EqualFold(k, name) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return StitchEffect{}, false
	}
	return t[match], true
}

// Merge returns a new table with entries of o layered over t.
func (t CustomActionTable) Merge(o CustomActionTable) CustomActionTable {
	out := make(CustomActionTable, len(t)+len(o))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// TableOf builds a table from a list of actions.
func TableOf(actions []CustomAction) CustomActionTable {
	out := make(CustomActionTable, len(actions))
	for _, a := range actions {
		out[a.Name] = a.Effect()
	}
	return out
}

// Step is a finalized instruction saved for a project.
type Step struct {
	ID               int64
	Project          string
	Description      string
	Instruction      string
	Construction     Construction
	StartingStitches int
	EndingStitches   int
	TotalRows        int
	CreatedAt        time.Time
}
