// Package target loads pattern descriptors and simulates them row by row.
package target

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/notation"
)

// Pattern describes a repeating stitch pattern, either row by row or by an
// explicitly stored net change.
type Pattern struct {
	Name          string          `yaml:"name"`
	PatternType   string          `yaml:"pattern-type" validate:"omitempty,oneof=general lace cable"`
	Rows          []PatternRow    `yaml:"rows" validate:"dive"`
	RowsInPattern int             `yaml:"rows-in-pattern" validate:"gte=0"`
	StitchChange  *int            `yaml:"stitch-change"`
	CustomActions []PatternAction `yaml:"custom-actions" validate:"dive"`
}

// PatternRow is one row of a pattern. A plain string in YAML is read as the
// instruction.
type PatternRow struct {
	Instruction  string `yaml:"instruction" validate:"required_without=StitchChange"`
	StitchChange *int   `yaml:"stitch-change"`
}

// UnmarshalYAML accepts either a scalar instruction or a mapping.
func (r *PatternRow) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&r.Instruction)
	}
	type plain PatternRow
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = PatternRow(p)
	return nil
}

// PatternAction declares a custom action local to a pattern file.
type PatternAction struct {
	Name     string `yaml:"name"`
	Consumes int    `yaml:"consumes"`
	Produces int    `yaml:"produces"`
}

// PatternRepeatInfo summarises one repeat of a pattern.
type PatternRepeatInfo struct {
	HasRepeat             bool
	RowsInPattern         int
	StitchChangePerRepeat int
}

// LoadPattern reads and validates a YAML pattern file.
func LoadPattern(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to read pattern: %w", err)
	}
	return ParsePattern(data)
}

// ParsePattern decodes and validates YAML pattern data.
func ParsePattern(data []byte) (Pattern, error) {
	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pattern{}, fmt.Errorf("failed to decode pattern: %w", err)
	}
	if err := model.Validate(p); err != nil {
		return Pattern{}, fmt.Errorf("invalid pattern: %w", err)
	}
	for _, a := range p.Actions() {
		if err := a.Validate(); err != nil {
			return Pattern{}, fmt.Errorf("invalid custom action %q: %w", a.Name, err)
		}
	}
	return p, nil
}

// Type returns the pattern's custom action namespace.
func (p Pattern) Type() model.PatternType {
	pt, err := model.ParsePatternType(p.PatternType)
	if err != nil {
		return model.PatternGeneral
	}
	return pt
}

// Actions returns the pattern's own custom actions.
func (p Pattern) Actions() []model.CustomAction {
	out := make([]model.CustomAction, 0, len(p.CustomActions))
	for _, a := range p.CustomActions {
		out = append(out, model.CustomAction{
			Name:        a.Name,
			Consumes:    a.Consumes,
			Produces:    a.Produces,
			PatternType: p.Type(),
		})
	}
	return out
}

// Table layers the pattern's own actions over base.
func (p Pattern) Table(base model.CustomActionTable) model.CustomActionTable {
	return base.Merge(model.TableOf(p.Actions()))
}

// RowChanges returns the net stitch change of every row.
func (p Pattern) RowChanges(table model.CustomActionTable) []int {
	table = p.Table(table)
	out := make([]int, len(p.Rows))
	for i, row := range p.Rows {
		if row.StitchChange != nil {
			out[i] = *row.StitchChange
			continue
		}
		out[i] = notation.Effect(notation.Parse(row.Instruction, table)).Net()
	}
	return out
}

// RepeatInfo derives repeat information from a pattern. Row-by-row patterns
// take precedence over a stored net change.
func RepeatInfo(p Pattern, table model.CustomActionTable) PatternRepeatInfo {
	var rows, change int
	if len(p.Rows) > 0 {
		rows = len(p.Rows)
		for _, c := range p.RowChanges(table) {
			change += c
		}
	} else {
		rows = p.RowsInPattern
		if p.StitchChange != nil {
			change = *p.StitchChange
		}
	}
	return PatternRepeatInfo{
		HasRepeat:             rows > 0 && change != 0,
		RowsInPattern:         rows,
		StitchChangePerRepeat: change,
	}
}

// SimulateRows works the pattern row by row from starting until target is
// reached, then either stops or finishes the repeat. Patterns without row
// data fall back to TargetRows.
func SimulateRows(p Pattern, starting, target int, completeSequence bool, table model.CustomActionTable) RowsResult {
	info := RepeatInfo(p, table)
	if !info.HasRepeat {
		return RowsResult{}
	}
	if err := checkDirection(starting, target, info.StitchChangePerRepeat); err != nil {
		return RowsResult{}
	}
	if len(p.Rows) == 0 {
		needed := RepeatsNeeded(starting, target, info.StitchChangePerRepeat)
		return TargetRows(needed, info.RowsInPattern, completeSequence, target, starting, info.StitchChangePerRepeat)
	}

	changes := p.RowChanges(table)
	increasing := info.StitchChangePerRepeat > 0
	reached := func(n int) bool {
		if increasing {
			return n >= target
		}
		return n <= target
	}

	stitches := starting
	row := 0
	reachedOn := 0
	maxRepeats := abs(target-starting) + 1
	for rep := 0; rep < maxRepeats; rep++ {
		for _, c := range changes {
			stitches += c
			row++
			if reachedOn == 0 && reached(stitches) {
				reachedOn = row
				if !completeSequence {
					return RowsResult{
						TotalRows:      row,
						ActualRepeats:  row / len(changes),
						EndingStitches: stitches,
						ReachedOnRow:   reachedOn,
						IsValid:        true,
					}
				}
			}
		}
		if reachedOn != 0 {
			return RowsResult{
				TotalRows:      row,
				ActualRepeats:  rep + 1,
				EndingStitches: stitches,
				ReachedOnRow:   reachedOn,
				IsValid:        true,
			}
		}
	}
	return RowsResult{}
}

// StitchCounts returns the stitch count after every row of repeats repeats.
func StitchCounts(p Pattern, starting, repeats int, table model.CustomActionTable) []int {
	changes := p.RowChanges(table)
	out := make([]int, 0, repeats*len(changes))
	n := starting
	for rep := 0; rep < repeats; rep++ {
		for _, c := range changes {
			n += c
			out = append(out, n)
		}
	}
	return out
}
