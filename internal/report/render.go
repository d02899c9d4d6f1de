// Package report renders calculation results for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/stitchcalc/internal/distribute"
	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/rowcalc"
	"github.com/verte-zerg/stitchcalc/internal/target"
)

const instructionLabel = "Instruction: "

// RenderDistribution prints an even distribution and its shorthand.
func RenderDistribution(w io.Writer, res distribute.Result, formatted string, width int) error {
	if _, err := fmt.Fprintf(w, "%s: %d -> %d stitches (%d changes)\n",
		capitalize(res.Construction.String()), res.StartingStitches, res.EndingStitches, res.ChangeCount); err != nil {
		return err
	}
	if res.ChangeCount > 0 {
		if _, err := fmt.Fprintf(w, "Sections: %v\n", res.Sections); err != nil {
			return err
		}
	}
	return writeInstruction(w, formatted, width)
}

// RenderRepeats prints how many repeats reach a target and, when rows is
// set, how many rows that takes.
func RenderRepeats(w io.Writer, starting, goal int, res target.RepeatResult, rows *target.RowsResult) error {
	if !res.IsValid {
		_, err := fmt.Fprintf(w, "Cannot reach %d from %d: %v\n", goal, starting, res.Err)
		return err
	}
	exact := "exactly"
	if !res.IsExact {
		exact = fmt.Sprintf("overshooting to %d", res.ActualEnding)
	}
	if _, err := fmt.Fprintf(w, "Repeats: %d (%s)\n", res.Repeats, exact); err != nil {
		return err
	}
	if rows == nil || !rows.IsValid {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Rows: %d (%d repeats, ending on %d stitches)\n",
		rows.TotalRows, rows.ActualRepeats, rows.EndingStitches); err != nil {
		return err
	}
	if rows.ReachedOnRow > 0 && rows.ReachedOnRow != rows.TotalRows {
		if _, err := fmt.Fprintf(w, "Target reached on row %d\n", rows.ReachedOnRow); err != nil {
			return err
		}
	}
	return nil
}

// RenderTargets lists the stitch counts reachable after whole repeats.
func RenderTargets(w io.Writer, starting, change int, targets []int) error {
	if len(targets) == 0 {
		_, err := fmt.Fprintln(w, "No reachable targets.")
		return err
	}
	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		repeats := (t - starting) / change
		rows = append(rows, []string{strconv.Itoa(repeats), strconv.Itoa(t)})
	}
	return writeLines(w, formatTable([]string{"Repeats", "Stitches"}, rows, map[int]bool{0: true, 1: true}))
}

// RenderRow prints the running totals for a row.
func RenderRow(w io.Writer, calc rowcalc.Calculation, done rowcalc.Completion) error {
	rows := [][]string{
		{"Available", strconv.Itoa(calc.PreviousStitches)},
		{"Worked", strconv.Itoa(calc.StitchesConsumed)},
		{"Produced", strconv.Itoa(calc.StitchesProduced)},
		{"Remaining", strconv.Itoa(calc.Remaining())},
	}
	if err := writeLines(w, formatTable(nil, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	for _, name := range calc.Unknown {
		if _, err := fmt.Fprintf(w, "Unknown action %q counted as 0 stitches\n", name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", capitalize(done.Status.String()), done.Reason)
	return err
}

// RenderStitchCounts prints the stitch count after each row with a chart.
func RenderStitchCounts(w io.Writer, construction model.Construction, counts []int, useColor bool) error {
	rows := make([][]string, 0, len(counts))
	for i, c := range counts {
		rows = append(rows, []string{construction.RowLabel(i + 1), strconv.Itoa(c)})
	}
	if err := writeLines(w, formatTable([]string{"Row", "Stitches"}, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	if len(counts) < 2 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nTrend: %s\n\n", Sparkline(counts)); err != nil {
		return err
	}
	return PlotStitchCounts(w, "Stitch count", counts, 0, 0, useColor)
}

// RenderSteps lists a project's saved steps.
func RenderSteps(w io.Writer, steps []model.Step, width int) error {
	if len(steps) == 0 {
		_, err := fmt.Fprintln(w, "No steps saved.")
		return err
	}
	for i, st := range steps {
		head := fmt.Sprintf("%d. %s (%s, %d -> %d", i+1, st.Description, st.Construction, st.StartingStitches, st.EndingStitches)
		if st.TotalRows > 1 {
			head += fmt.Sprintf(", %d rows", st.TotalRows)
		}
		if _, err := fmt.Fprintln(w, head+")"); err != nil {
			return err
		}
		for _, line := range WrapInstruction(st.Instruction, width-3) {
			if _, err := fmt.Fprintln(w, "   "+line); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderActions lists custom actions with their stitch effect.
func RenderActions(w io.Writer, pt model.PatternType, actions []model.CustomAction) error {
	if len(actions) == 0 {
		_, err := fmt.Fprintf(w, "No custom %s actions.\n", pt)
		return err
	}
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []string{
			a.Name,
			strconv.Itoa(a.Consumes),
			strconv.Itoa(a.Produces),
			fmt.Sprintf("%+d", a.Effect().Net()),
		})
	}
	headers := []string{"Name", "Consumes", "Produces", "Net"}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}))
}

func writeInstruction(w io.Writer, text string, width int) error {
	pad := strings.Repeat(" ", len(instructionLabel))
	lines := WrapInstruction(text, width-len(instructionLabel))
	for i := range lines {
		if i == 0 {
			lines[i] = instructionLabel + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return writeLines(w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
