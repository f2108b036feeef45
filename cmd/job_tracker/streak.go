package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var streakJSON bool

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the application counter and streak",
	Long:  `Show the application counter and the daily streak. A streak that was broken by a missed day is cleared and saved.`,
	Args:  cobra.NoArgs,
	RunE:  runStreak,
}

func init() {
	streakCmd.Flags().BoolVar(&streakJSON, "json", false, "Print the counter state as JSON")
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.tracker.Load(cmd.Context())
	if err != nil {
		return err
	}

	if streakJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}
	printCounter(cmd.OutOrStdout(), state)
	return nil
}
