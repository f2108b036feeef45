package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
)

var (
	initConfigOut string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and initialize the store",
	Long: `Write a config file with the default settings and initialize the
configured store with an empty counter, no saved jobs and no API key.
Existing values in the store are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initConfigOut, "out", "job-tracker.json", "Path of the config file to write")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(initConfigOut); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initConfigOut)
	}

	defaults := config.Defaults()
	if cmd.Flags().Changed("store") {
		defaults.Store = storeKind
	}
	if cmd.Flags().Changed("store-path") {
		defaults.StorePath = storePath
	}
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(initConfigOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(initConfigOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Wrote %s\n", initConfigOut)

	// newApp initializes store defaults as it opens the store
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	_, _ = fmt.Fprintf(out, "Initialized %s store\n", a.cfg.Store)
	return nil
}
