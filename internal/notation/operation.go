// Package notation defines the structured form of knitting instructions.
//
// A row such as "K2, (K2tog, YO) × 3, K1" parses into a slice of Operation
// values. Stitch effects are resolved once, at parse time, against the
// built-in vocabulary and the caller's custom action table, so calculations
// never re-inspect names. Rendering back to text happens only at the edge.
package notation

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

// Kind tags the variant held by an Operation.
type Kind int

const (
	// KindStitch is a built-in stitch with an optional leading count (K4, YO).
	KindStitch Kind = iota
	// KindCustom is a named custom action. Unknown names are custom actions
	// with Known == false and a zero effect.
	KindCustom
	// KindRepeat is a group worked Times times.
	KindRepeat
)

// Operation is one instruction token.
type Operation struct {
	Kind Kind
	// Name is the abbreviation as written, without its count.
	Name string
	// Count is the written count (K4 -> 4). Zero means no count was written.
	Count int
	// Effect is the effect of a single unit, resolved at parse time.
	Effect model.StitchEffect
	Known  bool

	Times int
	Body  []Operation
}

// Stitch returns a built-in stitch operation. ok is false for names outside
// the built-in vocabulary.
func Stitch(name string, count int) (Operation, bool) {
	e, ok := lookupBuiltin(name)
	if !ok {
		return Operation{}, false
	}
	return Operation{Kind: KindStitch, Name: name, Count: count, Effect: e, Known: true}, true
}

// Repeat wraps body in a group worked times times.
func Repeat(times int, body ...Operation) Operation {
	return Operation{Kind: KindRepeat, Times: times, Body: body}
}

// Units is the number of times a stitch or custom action is worked.
func (o Operation) Units() int {
	if o.Count > 0 {
		return o.Count
	}
	return 1
}

// Total returns the whole effect of the operation, including counts and
// repeat multipliers.
func (o Operation) Total() model.StitchEffect {
	switch o.Kind {
	case KindRepeat:
		return Effect(o.Body).Scale(o.Times)
	default:
		return o.Effect.Scale(o.Units())
	}
}

// String renders the operation in shorthand.
func (o Operation) String() string {
	switch o.Kind {
	case KindRepeat:
		if len(o.Body) == 1 && o.Body[0].Kind != KindRepeat {
			return o.Body[0].String() + " " + strconv.Itoa(o.Times) + " times"
		}
		return "(" + Render(o.Body) + ") " + strconv.Itoa(o.Times) + " times"
	default:
		if o.Count > 0 {
			return o.Name + strconv.Itoa(o.Count)
		}
		return o.Name
	}
}

// Render joins operations with ", ".
func Render(ops []Operation) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

// Effect sums the total effect of a sequence.
func Effect(ops []Operation) model.StitchEffect {
	var total model.StitchEffect
	for _, op := range ops {
		total = total.Add(op.Total())
	}
	return total
}

// Flatten expands repeat groups into their leaf operations.
func Flatten(ops []Operation) []Operation {
	var out []Operation
	for _, op := range ops {
		if op.Kind != KindRepeat {
			out = append(out, op)
			continue
		}
		body := Flatten(op.Body)
		for i := 0; i < op.Times; i++ {
			out = append(out, body...)
		}
	}
	return out
}

// Unknown lists the names with no built-in or custom definition, in order of
// first appearance.
func Unknown(ops []Operation) []string {
	seen := map[string]struct{}{}
	var names []string
	var walk func([]Operation)
	walk = func(seq []Operation) {
		for _, op := range seq {
			if op.Kind == KindRepeat {
				walk(op.Body)
				continue
			}
			if op.Known {
				continue
			}
			if _, ok := seen[op.Name]; ok {
				continue
			}
			seen[op.Name] = struct{}{}
			names = append(names, op.Name)
		}
	}
	walk(ops)
	return names
}
