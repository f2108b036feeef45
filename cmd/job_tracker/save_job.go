package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/store"
)

var (
	saveJobURL      string
	saveJobHTMLFile string
)

var saveJobCmd = &cobra.Command{
	Use:   "save-job",
	Short: "Save a job posting to the saved jobs list",
	Long: `Extract the title, company and description of a job posting and append it
to the saved jobs list. Missing fields are saved with placeholder values.`,
	Args: cobra.NoArgs,
	RunE: runSaveJob,
}

func init() {
	saveJobCmd.Flags().StringVar(&saveJobURL, "url", "", "Job posting URL")
	saveJobCmd.Flags().StringVar(&saveJobHTMLFile, "html-file", "", "Saved job posting page")
	rootCmd.AddCommand(saveJobCmd)
}

func runSaveJob(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.loadPage(cmd.Context(), saveJobURL, saveJobHTMLFile)
	if err != nil {
		return err
	}

	job := a.scraper.ExtractJobDetails(doc, saveJobURL)
	total, err := store.AppendSavedJob(cmd.Context(), a.store, job)
	if err != nil {
		return fmt.Errorf("error saving job: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Job saved successfully! (%d saved)\n", total)
	return nil
}
