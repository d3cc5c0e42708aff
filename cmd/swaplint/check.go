package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swaplint/internal/diag"
	"swaplint/internal/diagfmt"
	"swaplint/internal/driver"
	"swaplint/internal/prof"
	"swaplint/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>",
	Short: "Analyze sources for swapped arguments",
	Long: `Check extracts call sites from a file or a directory tree, scores the
argument order of every configured assertion call, and reports the calls
whose written order loses to a cheaper arrangement.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|short|json|sarif; default from swaplint.toml)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory scans (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("no-warnings", false, "report only errors")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include proposed fixes in output")
	checkCmd.Flags().Bool("preview", false, "include before/after previews for fixes")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths")
	checkCmd.Flags().StringSlice("checks", nil, "run only the named checks")
	checkCmd.Flags().Bool("disk-cache", false, "persist per-file results under the user cache directory")
	checkCmd.Flags().String("ui", "auto", "progress display for directory scans (auto|on|off)")
	checkCmd.Flags().String("cpu-profile", "", "write a CPU profile to the given path")
	checkCmd.Flags().String("mem-profile", "", "write a heap profile to the given path")
	_ = checkCmd.Flags().MarkHidden("cpu-profile")
	_ = checkCmd.Flags().MarkHidden("mem-profile")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	checksFilter, err := cmd.Flags().GetStringSlice("checks")
	if err != nil {
		return fmt.Errorf("failed to get checks flag: %w", err)
	}
	diskCacheFlag, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	cpuProfile, err := cmd.Flags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := cmd.Flags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}

	if noWarnings && warningsAsErrors {
		return fmt.Errorf("--no-warnings and --warnings-as-errors are mutually exclusive")
	}
	uiMode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	quiet, err := quietMode(cmd)
	if err != nil {
		return err
	}
	showTimings, err := timingsEnabled(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cfg, err := loadProjectConfig(target)
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.Output.Format
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s (expected pretty|short|json|sarif)", format)
	}

	checkers, err := selectCheckers(cfg, checksFilter)
	if err != nil {
		return err
	}
	maxDiagnostics, err := resolveMaxDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}
	colored, err := resolveColor(cmd, cfg, os.Stdout)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Config:           &cfg,
		Checks:           checkers,
		MaxDiagnostics:   maxDiagnostics,
		Jobs:             jobs,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
		EnableTimings:    showTimings,
	}
	if diskCacheFlag || cfg.Cache.Disk {
		dc, dcErr := driver.OpenDiskCache("swaplint")
		if dcErr != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", dcErr)
		} else {
			opts.DiskCache = dc
		}
	}

	profiler := prof.New(cpuProfile, memProfile)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", stopErr)
		}
	}()

	pathMode := diagfmt.PathModeAuto
	displayMode := "auto"
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
		displayMode = "absolute"
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:       colored,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   withNotes,
		ShowFixes:   suggest,
		ShowPreview: preview,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		Max:              maxDiagnostics,
		IncludeNotes:     withNotes,
		IncludeFixes:     suggest,
		IncludePreviews:  preview,
	}

	runFile := func() error {
		result, err := driver.AnalyzeFile(cmd.Context(), target, opts)
		if err != nil {
			return pipelineError(fmt.Errorf("analysis failed: %w", err))
		}
		switch format {
		case "pretty":
			diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, prettyOpts)
			if !quiet {
				printSummary(result.Bag.Items(), 1, boolToInt(result.Cached))
			}
		case "short":
			fmt.Print(diag.FormatGoldenDiagnostics(result.Bag.Items(), result.FileSet, withNotes))
		case "json":
			if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, jsonOpts); err != nil {
				return fmt.Errorf("failed to write JSON: %w", err)
			}
		case "sarif":
			if err := diagfmt.Sarif(os.Stdout, result.Bag, result.FileSet, sarifMeta()); err != nil {
				return fmt.Errorf("failed to write SARIF: %w", err)
			}
		}
		if result.Bag.HasErrors() {
			return silentExit(cmd)
		}
		return nil
	}

	runDir := func() error {
		var (
			fs      *source.FileSet
			results []driver.DirResult
		)
		useTUI := format == "pretty" && !quiet && shouldUseTUI(uiMode)
		if cache, cacheErr := driver.NewResultCache(0); cacheErr == nil {
			opts.Cache = cache
		}
		var err error
		if useTUI {
			fs, results, err = analyzeDirWithUI(cmd.Context(), "swaplint check", target, opts)
		} else {
			fs, results, err = driver.AnalyzeDir(cmd.Context(), target, opts)
		}
		if err != nil {
			return pipelineError(fmt.Errorf("analysis failed: %w", err))
		}

		switch format {
		case "pretty":
			for _, r := range results {
				if r.Bag.Len() == 0 {
					continue
				}
				file := fs.Get(r.FileID)
				fmt.Printf("== %s ==\n", file.FormatPath(displayMode, fs.BaseDir()))
				diagfmt.Pretty(os.Stdout, r.Bag, fs, prettyOpts)
				fmt.Println()
			}
			if !quiet {
				var all []diag.Diagnostic
				cached := 0
				for _, r := range results {
					all = append(all, r.Bag.Items()...)
					if r.Cached {
						cached++
					}
				}
				printSummary(all, len(results), cached)
			}
		case "short":
			var all []diag.Diagnostic
			for _, r := range results {
				all = append(all, r.Bag.Items()...)
			}
			fmt.Print(diag.FormatGoldenDiagnostics(all, fs, withNotes))
		case "json":
			out := make(map[string]diagfmt.DiagnosticsOutput, len(results))
			for _, r := range results {
				file := fs.Get(r.FileID)
				entry, buildErr := diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
				if buildErr != nil {
					return fmt.Errorf("failed to build JSON output: %w", buildErr)
				}
				out[file.FormatPath(displayMode, fs.BaseDir())] = entry
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to write JSON: %w", err)
			}
		case "sarif":
			merged := diag.NewBag(0)
			for _, r := range results {
				merged.Merge(r.Bag)
			}
			if err := diagfmt.Sarif(os.Stdout, merged, fs, sarifMeta()); err != nil {
				return fmt.Errorf("failed to write SARIF: %w", err)
			}
		}

		for _, r := range results {
			if r.Bag.HasErrors() {
				return silentExit(cmd)
			}
		}
		return nil
	}

	if st.IsDir() {
		return runDir()
	}
	return runFile()
}

// printSummary writes the one-line run summary to stdout.
func printSummary(diags []diag.Diagnostic, files, cached int) {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	suffix := ""
	if cached > 0 {
		suffix = fmt.Sprintf(" (%d cached)", cached)
	}
	fmt.Printf("%d error(s), %d warning(s) across %d file(s)%s\n", errs, warns, files, suffix)
}

func sarifMeta() diagfmt.SarifRunMeta {
	return diagfmt.SarifRunMeta{
		ToolName:       "swaplint",
		ToolVersion:    "0.1.0",
		InformationURI: "https://github.com/swaplint/swaplint",
		InvocationArgs: os.Args,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
