package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/store"
)

var jobsJSON bool

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List saved jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print the saved jobs as JSON")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	jobs, err := store.ListSavedJobs(cmd.Context(), a.store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jobsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	}

	if len(jobs) == 0 {
		_, _ = fmt.Fprintln(out, "No jobs saved.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTITLE\tCOMPANY\tURL")
	for i, job := range jobs {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, job.Title, job.Company, job.URL)
	}
	return tw.Flush()
}
