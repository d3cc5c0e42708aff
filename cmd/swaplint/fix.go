package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swaplint/internal/diag"
	"swaplint/internal/driver"
	"swaplint/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Apply argument-reorder fixes to sources",
	Long: `Fix runs the same analysis as check and then rewrites flagged calls
in place. By default only the first available fix is applied; --all takes
every safe fix in one pass and --id targets a single fix by identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every safe fix")
	fixCmd.Flags().Bool("once", false, "apply only the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with the given identifier")
	fixCmd.Flags().Bool("dry-run", false, "print unified diffs instead of writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory scans (0 = GOMAXPROCS)")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	fixID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}
	if fixID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}

	applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case applyAll:
		applyOpts.Mode = fix.ApplyModeAll
	case fixID != "":
		applyOpts.Mode = fix.ApplyModeID
		applyOpts.TargetID = fixID
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cfg, err := loadProjectConfig(target)
	if err != nil {
		return err
	}
	checkers, err := selectCheckers(cfg, nil)
	if err != nil {
		return err
	}
	maxDiagnostics, err := resolveMaxDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}
	quiet, err := quietMode(cmd)
	if err != nil {
		return err
	}

	// Warnings carry the fixes, so severity transforms stay off here.
	opts := driver.Options{
		Config:         &cfg,
		Checks:         checkers,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}

	runFixFile := func() error {
		result, err := driver.AnalyzeFile(cmd.Context(), target, opts)
		if err != nil {
			return pipelineError(fmt.Errorf("analysis failed: %w", err))
		}
		res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), applyOpts)
		return reportApply(cmd, res, applyErr, dryRun, quiet)
	}

	runFixDir := func() error {
		if fixID != "" {
			return fmt.Errorf("--id requires a single file target")
		}
		fs, results, err := driver.AnalyzeDir(cmd.Context(), target, opts)
		if err != nil {
			return pipelineError(fmt.Errorf("analysis failed: %w", err))
		}
		var all []diag.Diagnostic
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		res, applyErr := fix.Apply(fs, all, applyOpts)
		return reportApply(cmd, res, applyErr, dryRun, quiet)
	}

	if st.IsDir() {
		return runFixDir()
	}
	return runFixFile()
}

// reportApply renders the outcome of a fix run and folds apply errors
// into the exit status.
func reportApply(cmd *cobra.Command, res *fix.ApplyResult, applyErr error, dryRun, quiet bool) error {
	if applyErr != nil && errors.Is(applyErr, fix.ErrNoFixes) {
		if !quiet {
			fmt.Println("No applicable fixes found.")
		}
		return nil
	}

	if res != nil && len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Printf("%s %d fix(es):\n", verb, len(res.Applied))
		for _, a := range res.Applied {
			fmt.Printf("  %s [%s] %s: %s (%d edits, %s)\n",
				a.ID, a.Code.ID(), a.Title, a.Message, a.EditCount, a.Applicability)
		}
	}

	if res != nil && len(res.FileChanges) > 0 {
		if dryRun {
			for _, change := range res.FileChanges {
				fmt.Printf("\nWould update %s (%d edits):\n", change.Path, change.EditCount)
				fmt.Print(change.Diff)
			}
		} else {
			fmt.Println("Updated files:")
			for _, change := range res.FileChanges {
				fmt.Printf("  %s (%d edits)\n", change.Path, change.EditCount)
			}
		}
	}

	if res != nil && len(res.Skipped) > 0 && !quiet {
		fmt.Println("Skipped fixes:")
		for _, s := range res.Skipped {
			fmt.Printf("  %s %s: %s\n", s.ID, s.Title, s.Reason)
		}
	}

	if applyErr != nil {
		// Partial applies may precede a write failure; the report above
		// still reflects what landed.
		fmt.Fprintf(os.Stderr, "error: %v\n", pipelineError(applyErr))
		return silentExit(cmd)
	}
	return nil
}
