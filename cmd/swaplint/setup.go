package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"swaplint/internal/checks"
	"swaplint/internal/diag"
	"swaplint/internal/driver"
	"swaplint/internal/fix"
	"swaplint/internal/project"
)

// loadProjectConfig discovers the nearest swaplint.toml at or above the
// target and loads it. Targets may be files or directories; without a
// manifest the built-in defaults apply.
func loadProjectConfig(target string) (project.Config, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to resolve path: %w", err)
	}
	dir := abs
	if st, statErr := os.Stat(abs); statErr == nil && !st.IsDir() {
		dir = filepath.Dir(abs)
	}
	cfg, _, err := project.Discover(dir)
	if err != nil {
		return project.Config{}, configError(err)
	}
	return cfg, nil
}

// configError tags configuration failures with their stable code so shell
// scripts can grep for PRJ5001/PRJ5002 on stderr.
func configError(err error) error {
	code := diag.ProjConfigInvalid
	if errors.Is(err, project.ErrBadPattern) {
		code = diag.ProjConfigBadPattern
	}
	return fmt.Errorf("%s: %w", code.ID(), err)
}

// pipelineError tags analysis and apply failures whose cause carries a
// stable code. Errors without one pass through unchanged.
func pipelineError(err error) error {
	var unknownLang *driver.UnknownLanguageError
	if errors.As(err, &unknownLang) {
		return fmt.Errorf("%s: %w", diag.ProjUnknownLanguage.ID(), err)
	}
	var writeErr *fix.WriteError
	if errors.As(err, &writeErr) {
		return fmt.Errorf("%s: %w", diag.IOWriteFileError.ID(), err)
	}
	return err
}

// selectCheckers narrows the configured checker registry to the names
// given on the command line. An empty list keeps everything enabled.
func selectCheckers(cfg project.Config, names []string) (*checks.Registry, error) {
	reg, err := driver.CheckersFromConfig(cfg)
	if err != nil {
		return nil, configError(err)
	}
	if len(names) == 0 {
		return reg, nil
	}
	selected := checks.NewRegistry()
	for _, name := range names {
		c, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown check %q (enabled checks: %s)",
				diag.ProjUnknownCheck.ID(), name, strings.Join(reg.Names(), ", "))
		}
		selected.Register(c)
	}
	return selected, nil
}

// assertOrderChecker builds a standalone assert-order checker from the
// configuration, bypassing the registry.
func assertOrderChecker(cfg project.Config) (*checks.AssertOrder, error) {
	ao, err := checks.NewAssertOrder(checks.AssertOrderConfig{
		Functions:          cfg.Checks.AssertOrder.Functions,
		Qualifiers:         cfg.Checks.AssertOrder.Qualifiers,
		ExcludeArgTypes:    cfg.Checks.AssertOrder.ExcludeArgTypes,
		ExcludeAnnotations: cfg.Checks.AssertOrder.ExcludeAnnotations,
		Signatures:         cfg.Checks.AssertOrder.Signatures,
	})
	if err != nil {
		return nil, configError(err)
	}
	return ao, nil
}

// resolveColor decides whether output to f should be colorized. An
// explicit --color flag wins over the manifest setting.
func resolveColor(cmd *cobra.Command, cfg project.Config, f *os.File) (bool, error) {
	flags := cmd.Root().PersistentFlags()
	mode, err := flags.GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if !flags.Changed("color") {
		mode = cfg.Output.Color
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// resolveMaxDiagnostics resolves the per-file diagnostic cap, preferring
// an explicit flag over the manifest.
func resolveMaxDiagnostics(cmd *cobra.Command, cfg project.Config) (int, error) {
	flags := cmd.Root().PersistentFlags()
	max, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !flags.Changed("max-diagnostics") {
		max = cfg.Output.MaxDiagnostics
	}
	return max, nil
}

// quietMode reports whether --quiet was given.
func quietMode(cmd *cobra.Command) (bool, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return quiet, nil
}

// timingsEnabled reports whether --timings was given.
func timingsEnabled(cmd *cobra.Command) (bool, error) {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return false, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return timings, nil
}

// silentExit makes the command fail without cobra printing anything.
// Diagnostics have already been rendered by the time this is returned.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
