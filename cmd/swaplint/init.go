package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"swaplint/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a swaplint.toml with the default configuration",
	Long: `Init creates a commented swaplint.toml in the given directory (the
current one by default) so the defaults can be tuned per project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if st, statErr := os.Stat(abs); statErr == nil {
		if !st.IsDir() {
			return fmt.Errorf("%s is not a directory", abs)
		}
	} else if os.IsNotExist(statErr) {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	} else {
		return fmt.Errorf("failed to stat path: %w", statErr)
	}

	manifest := filepath.Join(abs, project.ConfigFileName)
	if _, statErr := os.Stat(manifest); statErr == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", manifest)
	}

	if err := os.WriteFile(manifest, []byte(project.DefaultConfigTOML), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", project.ConfigFileName, err)
	}

	fmt.Printf("Created %s\n", manifest)
	return nil
}
