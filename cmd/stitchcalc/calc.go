// Package main wires the calculation commands.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/stitchcalc/internal/distribute"
	"github.com/verte-zerg/stitchcalc/internal/format"
	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/report"
	"github.com/verte-zerg/stitchcalc/internal/rowcalc"
	"github.com/verte-zerg/stitchcalc/internal/rowfile"
	"github.com/verte-zerg/stitchcalc/internal/target"
)

var (
	distStart       int
	distIncrease    int
	distDecrease    int
	distSave        bool
	distDescription string

	repeatsStart    int
	repeatsTarget   int
	repeatsChange   int
	repeatsPattern  string
	repeatsRows     int
	repeatsComplete bool

	targetsStart   int
	targetsChange  int
	targetsPattern string
	targetsMax     int

	rowAvailable int

	formatFile string
)

func newDistributeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Spread increases or decreases evenly across a row",
		Args:  cobra.NoArgs,
		RunE:  runDistributeCmd,
	}
	cmd.Flags().IntVar(&distStart, "start", 0, "stitches on the needle")
	cmd.Flags().IntVar(&distIncrease, "increase", 0, "stitches to add")
	cmd.Flags().IntVar(&distDecrease, "decrease", 0, "stitches to remove")
	cmd.Flags().BoolVar(&distSave, "save", false, "save the instruction as a project step")
	cmd.Flags().StringVar(&distDescription, "description", "", "description for the saved step")
	cmd.MarkFlagsMutuallyExclusive("increase", "decrease")
	cmd.MarkFlagsOneRequired("increase", "decrease")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func runDistributeCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	action, amount := model.Increase, distIncrease
	if cmd.Flags().Changed("decrease") {
		action, amount = model.Decrease, distDecrease
	}
	res, err := distribute.Evenly(distStart, action, amount, s.construction)
	if err != nil {
		return err
	}
	instruction := res.Instruction
	if res.ChangeCount > 0 {
		instruction = format.Operations(res.Operations)
	}
	if err := report.RenderDistribution(cmd.OutOrStdout(), res, instruction, report.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !distSave || res.ChangeCount == 0 {
		return nil
	}

	description := distDescription
	if description == "" {
		description = fmt.Sprintf("%s %d", action, amount)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	step := model.Step{
		Project:          s.project,
		Description:      description,
		Instruction:      instruction,
		Construction:     s.construction,
		StartingStitches: res.StartingStitches,
		EndingStitches:   res.EndingStitches,
		TotalRows:        1,
	}
	if _, err := st.InsertStep(context.Background(), step); err != nil {
		return fmt.Errorf("failed to save step: %w", err)
	}
	logErrf("Saved to project %q\n", s.project)
	return nil
}

func newRepeatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repeats",
		Short: "Count pattern repeats and rows needed to reach a stitch count",
		Args:  cobra.NoArgs,
		RunE:  runRepeatsCmd,
	}
	cmd.Flags().IntVar(&repeatsStart, "start", 0, "stitches before the first repeat")
	cmd.Flags().IntVar(&repeatsTarget, "target", 0, "stitch count to reach")
	cmd.Flags().IntVar(&repeatsChange, "change", 0, "net stitch change per repeat")
	cmd.Flags().StringVar(&repeatsPattern, "pattern", "", "pattern descriptor (YAML)")
	cmd.Flags().IntVar(&repeatsRows, "rows-per-repeat", 0, "rows in one repeat (with --change)")
	cmd.Flags().BoolVar(&repeatsComplete, "complete", false, "finish the last repeat")
	cmd.MarkFlagsMutuallyExclusive("change", "pattern")
	cmd.MarkFlagsOneRequired("change", "pattern")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runRepeatsCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if repeatsPattern == "" {
		res := target.RepeatsToTarget(repeatsStart, repeatsTarget, repeatsChange)
		var rows *target.RowsResult
		if res.IsValid && repeatsRows > 0 {
			needed := target.RepeatsNeeded(repeatsStart, repeatsTarget, repeatsChange)
			r := target.TargetRows(needed, repeatsRows, repeatsComplete, repeatsTarget, repeatsStart, repeatsChange)
			rows = &r
		}
		if err := report.RenderRepeats(out, repeatsStart, repeatsTarget, res, rows); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	p, table, err := loadPattern(cmd.Context(), s, repeatsPattern)
	if err != nil {
		return err
	}
	info := target.RepeatInfo(p, table)
	if !info.HasRepeat {
		return fmt.Errorf("pattern %s does not change the stitch count", repeatsPattern)
	}
	res := target.RepeatsToTarget(repeatsStart, repeatsTarget, info.StitchChangePerRepeat)
	var rows *target.RowsResult
	if res.IsValid {
		r := target.SimulateRows(p, repeatsStart, repeatsTarget, repeatsComplete, table)
		rows = &r
	}
	if err := report.RenderRepeats(out, repeatsStart, repeatsTarget, res, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if rows == nil || !rows.IsValid || len(p.Rows) == 0 {
		return nil
	}
	counts := target.StitchCounts(p, repeatsStart, rows.ActualRepeats, table)
	if len(counts) > rows.TotalRows {
		counts = counts[:rows.TotalRows]
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderStitchCounts(out, s.construction, counts, report.ShouldUseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List stitch counts reachable with whole repeats",
		Args:  cobra.NoArgs,
		RunE:  runTargetsCmd,
	}
	cmd.Flags().IntVar(&targetsStart, "start", 0, "stitches before the first repeat")
	cmd.Flags().IntVar(&targetsChange, "change", 0, "net stitch change per repeat")
	cmd.Flags().StringVar(&targetsPattern, "pattern", "", "pattern descriptor (YAML)")
	cmd.Flags().IntVar(&targetsMax, "max", target.DefaultMaxRepeats, "maximum repeats to list")
	cmd.MarkFlagsMutuallyExclusive("change", "pattern")
	cmd.MarkFlagsOneRequired("change", "pattern")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func runTargetsCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "max", &targetsMax, s.file.Defaults.MaxRepeats)
	if targetsMax <= 0 {
		return fmt.Errorf("--max must be > 0")
	}
	if targetsStart < 0 {
		return fmt.Errorf("--start must be >= 0")
	}

	change := targetsChange
	if targetsPattern != "" {
		p, table, err := loadPattern(cmd.Context(), s, targetsPattern)
		if err != nil {
			return err
		}
		change = target.RepeatInfo(p, table).StitchChangePerRepeat
	}
	if change == 0 {
		return target.ErrNoChange
	}
	targets := target.ValidTargetStitches(targetsStart, change, targetsMax)
	if err := report.RenderTargets(cmd.OutOrStdout(), targetsStart, change, targets); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadPattern reads a pattern descriptor and returns it with the action table
// it should be calculated against.
func loadPattern(ctx context.Context, s settings, path string) (target.Pattern, model.CustomActionTable, error) {
	p, err := target.LoadPattern(path)
	if err != nil {
		return target.Pattern{}, nil, fmt.Errorf("failed to load pattern: %w", err)
	}
	if p.PatternType != "" {
		s.patternType = p.Type()
	}
	base, err := loadActionTable(contextOrBackground(ctx), s)
	if err != nil {
		return target.Pattern{}, nil, err
	}
	return p, p.Table(base), nil
}

func newRowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row TEXT",
		Short: "Count the stitches a row works and produces",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRowCmd,
	}
	cmd.Flags().IntVar(&rowAvailable, "available", 0, "stitches on the needle")
	_ = cmd.MarkFlagRequired("available")
	return cmd
}

func runRowCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if rowAvailable < 0 {
		return fmt.Errorf("--available must be >= 0")
	}
	table, err := loadActionTable(contextOrBackground(cmd.Context()), s)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	out := cmd.OutOrStdout()
	calc := rowcalc.Calculate(text, rowAvailable, table)
	if err := report.RenderRow(out, calc, rowcalc.IsRowComplete(text, rowAvailable, table)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if n, ok := rowcalc.SuggestMultiplier(text, rowAvailable, table); ok {
		if _, err := fmt.Fprintf(out, "Open group fits at most %d repeats\n", n); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [TEXT]",
		Short: "Compress expanded instructions into repeat shorthand",
		RunE:  runFormatCmd,
	}
	cmd.Flags().StringVar(&formatFile, "file", "", "file with one instruction per line")
	return cmd
}

func runFormatCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if formatFile == "" {
		if len(args) == 0 {
			return fmt.Errorf("provide an instruction or --file")
		}
		_, err := fmt.Fprintln(out, format.Instruction(strings.Join(args, " ")))
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("--file cannot be combined with an instruction argument")
	}
	lines, err := rowfile.Load(formatFile)
	if err != nil {
		return fmt.Errorf("failed to read instructions: %w", err)
	}
	unchanged := 0
	for _, line := range lines {
		formatted := format.Instruction(line.Text)
		if formatted == line.Text {
			unchanged++
		}
		if _, err := fmt.Fprintln(out, formatted); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if unchanged == len(lines) {
		logErrln("no repeats found")
	}
	return nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
