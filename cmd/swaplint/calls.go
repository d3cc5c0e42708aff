package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swaplint/internal/diagfmt"
	"swaplint/internal/driver"
)

var callsCmd = &cobra.Command{
	Use:   "calls [flags] <file>",
	Short: "Dump the call sites extracted from a source file",
	Long: `Calls shows the raw material the checker works from: every extracted
call with its callee, qualifier, and argument spans. With --scored the
dump adds the cost matrix and the verdict for each scoreable call, which
is the quickest way to see why a call was or was not flagged.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalls,
}

func init() {
	callsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	callsCmd.Flags().Bool("scored", false, "include the cost matrix and verdict per call")
}

func runCalls(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	scored, err := cmd.Flags().GetBool("scored")
	if err != nil {
		return fmt.Errorf("failed to get scored flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s (expected pretty|json)", format)
	}

	cfg, err := loadProjectConfig(filePath)
	if err != nil {
		return err
	}
	maxDiagnostics, err := resolveMaxDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}

	// No caches here: cached results carry findings only, and this dump
	// needs the extraction itself.
	opts := driver.Options{
		Config:         &cfg,
		MaxDiagnostics: maxDiagnostics,
	}
	result, err := driver.AnalyzeFile(cmd.Context(), filePath, opts)
	if err != nil {
		return pipelineError(fmt.Errorf("analysis failed: %w", err))
	}

	// Parse problems go to stderr so stdout stays parseable.
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		colored, colorErr := resolveColor(cmd, cfg, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   colored,
			Context: 2,
		})
	}

	if scored {
		ao, aoErr := assertOrderChecker(cfg)
		if aoErr != nil {
			return aoErr
		}
		scoredCalls := ao.Score(result.File, result.Calls)
		if format == "json" {
			return diagfmt.FormatScoredJSON(os.Stdout, scoredCalls)
		}
		return diagfmt.FormatScoredPretty(os.Stdout, scoredCalls, result.FileSet)
	}

	if format == "json" {
		return diagfmt.FormatCallsJSON(os.Stdout, result.Calls)
	}
	return diagfmt.FormatCallsPretty(os.Stdout, result.Calls, result.FileSet)
}
