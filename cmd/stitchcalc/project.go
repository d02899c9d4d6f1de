// Package main wires the project commands.
package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/report"
	"github.com/verte-zerg/stitchcalc/internal/store"
	"github.com/verte-zerg/stitchcalc/internal/tui"
)

var (
	actionConsumes int
	actionProduces int

	buildAvailable int
	buildSave      bool
)

func newActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Manage the project's custom actions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom actions",
		Args:  cobra.NoArgs,
		RunE:  runActionsListCmd,
	})

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or update a custom action",
		Args:  cobra.ExactArgs(1),
		RunE:  runActionsAddCmd,
	}
	add.Flags().IntVar(&actionConsumes, "consumes", 0, "stitches worked")
	add.Flags().IntVar(&actionProduces, "produces", 0, "stitches produced")
	_ = add.MarkFlagRequired("consumes")
	_ = add.MarkFlagRequired("produces")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a custom action",
		Args:  cobra.ExactArgs(1),
		RunE:  runActionsRemoveCmd,
	})
	return cmd
}

func runActionsListCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	actions, err := st.ListCustomActions(contextOrBackground(cmd.Context()), s.project, s.patternType)
	if err != nil {
		return fmt.Errorf("failed to list custom actions: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Project %s\n", s.project); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderActions(out, s.patternType, actions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	configured, err := s.file.Actions(s.patternType)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(configured) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out, "\nFrom config"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderActions(out, s.patternType, configured); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runActionsAddCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	action := model.CustomAction{
		Name:        args[0],
		Consumes:    actionConsumes,
		Produces:    actionProduces,
		PatternType: s.patternType,
	}
	if err := action.Validate(); err != nil {
		return fmt.Errorf("invalid custom action: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.UpsertCustomAction(contextOrBackground(cmd.Context()), s.project, action); err != nil {
		return fmt.Errorf("failed to save custom action: %w", err)
	}
	logErrf("Saved %s (%d -> %d) to %s %s actions\n", action.Name, action.Consumes, action.Produces, s.project, s.patternType)
	return nil
}

func runActionsRemoveCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	err = st.DeleteCustomAction(contextOrBackground(cmd.Context()), s.project, s.patternType, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no %s action %q in project %q", s.patternType, args[0], s.project)
	}
	if err != nil {
		return fmt.Errorf("failed to remove custom action: %w", err)
	}
	return nil
}

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the project's saved steps",
		Args:  cobra.NoArgs,
		RunE:  runStepsCmd,
	}
}

func runStepsCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	steps, err := st.ListSteps(contextOrBackground(cmd.Context()), s.project)
	if err != nil {
		return fmt.Errorf("failed to list steps: %w", err)
	}
	if err := report.RenderSteps(cmd.OutOrStdout(), steps, report.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build rows interactively with live stitch counts",
		Args:  cobra.NoArgs,
		RunE:  runBuildCmd,
	}
	cmd.Flags().IntVar(&buildAvailable, "available", 0, "stitches on the needle")
	cmd.Flags().BoolVar(&buildSave, "save", false, "save each finished row as a project step")
	_ = cmd.MarkFlagRequired("available")
	return cmd
}

func runBuildCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if buildAvailable <= 0 {
		return fmt.Errorf("--available must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	table, err := actionTable(contextOrBackground(cmd.Context()), s, st)
	if err != nil {
		return err
	}
	m := tui.NewModel(tui.Config{
		Project:      s.project,
		Construction: s.construction,
		Available:    buildAvailable,
		Table:        table,
		Save:         buildSave,
	}, st)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

