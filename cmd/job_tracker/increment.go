package main

import (
	"github.com/spf13/cobra"
)

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Record one more application",
	Long:  `Add one to the application counter. The first application on a new day extends the streak; missing a day starts it over.`,
	Args:  cobra.NoArgs,
	RunE:  runIncrement,
}

func init() {
	rootCmd.AddCommand(incrementCmd)
}

func runIncrement(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.tracker.Increment(cmd.Context())
	if err != nil {
		return err
	}
	printCounter(cmd.OutOrStdout(), state)
	return nil
}
