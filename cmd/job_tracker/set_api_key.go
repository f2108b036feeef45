package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/store"
)

var setAPIKeyShow bool

var setAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key [key]",
	Short: "Save the API key used for resume generation",
	Long: `Save the API key used for resume generation. The key is read from the
argument, or from standard input when no argument is given. Use --show to
print the stored key in masked form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetAPIKey,
}

func init() {
	setAPIKeyCmd.Flags().BoolVar(&setAPIKeyShow, "show", false, "Print the stored key, masked")
	rootCmd.AddCommand(setAPIKeyCmd)
}

func runSetAPIKey(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if setAPIKeyShow {
		key, err := store.GetAPIKey(cmd.Context(), a.store)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "API key: %s\n", store.MaskSecret(key))
		return nil
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("please enter an API key")
		}
		key = strings.TrimSpace(line)
	}

	if err := store.SetAPIKey(cmd.Context(), a.store, key); err != nil {
		if errors.Is(err, store.ErrEmptyAPIKey) {
			return errors.New("please enter an API key")
		}
		return err
	}

	_, _ = fmt.Fprintln(out, "Settings saved successfully!")
	return nil
}
