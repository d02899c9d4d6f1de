// Package main provides the CLI entrypoint for stitchcalc.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/stitchcalc/internal/config"
	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/store"
	"github.com/verte-zerg/stitchcalc/internal/target"
)

const (
	defaultProject      = "default"
	defaultConstruction = "flat"
	defaultPatternType  = "general"
)

var (
	globalProject      string
	globalConstruction string
	globalPatternType  string
)

// settings are the global options after config defaults are applied.
type settings struct {
	project      string
	construction model.Construction
	patternType  model.PatternType
	maxRepeats   int
	file         config.FileConfig
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stitchcalc",
		Short:         "Knitting stitch calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalProject, "project", defaultProject, "project for custom actions and saved steps")
	flags.StringVar(&globalConstruction, "construction", defaultConstruction, "flat or round")
	flags.StringVar(&globalPatternType, "pattern-type", defaultPatternType, "custom action namespace: general, lace or cable")

	rootCmd.AddCommand(newDistributeCmd())
	rootCmd.AddCommand(newRepeatsCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newRowCmd())
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newActionsCmd())
	rootCmd.AddCommand(newStepsCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings reads the config file and fills in every global flag the
// user did not set explicitly.
func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "project", &globalProject, fileCfg.Defaults.Project)
	applyStringConfig(cmd, "construction", &globalConstruction, fileCfg.Defaults.Construction)
	applyStringConfig(cmd, "pattern-type", &globalPatternType, fileCfg.Defaults.PatternType)

	s := settings{
		project:    strings.TrimSpace(globalProject),
		maxRepeats: target.DefaultMaxRepeats,
		file:       fileCfg,
	}
	if fileCfg.Defaults.MaxRepeats != nil {
		s.maxRepeats = *fileCfg.Defaults.MaxRepeats
	}
	if err := validateConfig(&s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateConfig(s *settings) error {
	if s.project == "" {
		return fmt.Errorf("--project must not be empty")
	}
	construction, err := model.ParseConstruction(globalConstruction)
	if err != nil {
		return fmt.Errorf("--construction: %w", err)
	}
	pt, err := model.ParsePatternType(globalPatternType)
	if err != nil {
		return fmt.Errorf("--pattern-type: %w", err)
	}
	if s.maxRepeats <= 0 {
		return fmt.Errorf("max-repeats must be > 0")
	}
	s.construction = construction
	s.patternType = pt
	return nil
}

// openStore opens the default database. Callers close it with closeStore.
func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// actionTable merges the config file's actions with the project's stored
// actions. Stored actions win on a name clash.
func actionTable(ctx context.Context, s settings, st *store.Store) (model.CustomActionTable, error) {
	configured, err := s.file.Actions(s.patternType)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	table := model.TableOf(configured)
	if st == nil {
		return table, nil
	}
	stored, err := st.CustomActionTable(ctx, s.project, s.patternType)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom actions: %w", err)
	}
	return table.Merge(stored), nil
}

// loadActionTable opens the store just long enough to read the action table.
func loadActionTable(ctx context.Context, s settings) (model.CustomActionTable, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore(st)
	return actionTable(ctx, s, st)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stitchcalc configuration
# Uncomment a value to enable it. CLI flags override config values.

[defaults]
# project = %q          # Project for custom actions and saved steps
# construction = %q        # flat or round
# pattern-type = %q     # general, lace or cable
# max-repeats = %d          # Repeats listed by "stitchcalc targets"

# Custom actions available in every project. Actions added with
# "stitchcalc actions add" take precedence.
#
# [[custom-action]]
# name = "C6B"
# consumes = 6
# produces = 6
# pattern-type = "cable"
`,
		defaultProject,
		defaultConstruction,
		defaultPatternType,
		target.DefaultMaxRepeats,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
