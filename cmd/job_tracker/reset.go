package main

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the application counter",
	Long:  `Set the application counter back to zero. The streak is kept.`,
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.tracker.Reset(cmd.Context())
	if err != nil {
		return err
	}
	printCounter(cmd.OutOrStdout(), state)
	return nil
}
