package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/scrape"
)

var (
	scrapeURL      string
	scrapeHTMLFile string
	scrapeJSON     bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract the title and description from a job page",
	Long: `Extract the job title and description from a job posting page, either
fetched from --url or read from a saved page with --html-file.`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "Job posting URL")
	scrapeCmd.Flags().StringVar(&scrapeHTMLFile, "html-file", "", "Saved job posting page")
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "Print the posting as JSON")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.loadPage(cmd.Context(), scrapeURL, scrapeHTMLFile)
	if err != nil {
		return err
	}

	posting, err := a.scraper.Scrape(doc, scrapeURL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if scrapeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(posting)
	}

	if a.cfg.Verbose {
		_, _ = fmt.Fprintf(out, "Platform: %s\n", scrape.DetectPlatform(scrapeURL))
	}
	_, _ = fmt.Fprintf(out, "Title: %s\n\n%s\n", posting.Title, posting.Description)
	return nil
}
