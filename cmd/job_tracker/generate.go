package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/rendering"
)

var (
	generateURL      string
	generateHTMLFile string
	generateHTMLOut  string
	generatePDF      string
	generateProfile  string
	generateJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resume tailored to a job posting",
	Long: `Scrape a job posting, load the candidate profile and ask the configured
model for a resume tailored to the posting.

The resume body is printed to stdout. Use --html-out to also write a
printable HTML page and --pdf to print that page to PDF with headless Chrome.

Example:
  job-tracker generate --url https://boards.greenhouse.io/acme/jobs/123 --pdf resume.pdf`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateURL, "url", "", "Job posting URL")
	generateCmd.Flags().StringVar(&generateHTMLFile, "html-file", "", "Saved job posting page")
	generateCmd.Flags().StringVar(&generateHTMLOut, "html-out", "", "Write a printable HTML page to this path")
	generateCmd.Flags().StringVar(&generatePDF, "pdf", "", "Print the resume to this PDF path")
	generateCmd.Flags().StringVar(&generateProfile, "profile", "", "Candidate profile path or URL (overrides config)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the resume document as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if generateProfile != "" {
		a.cfg.ProfilePath = generateProfile
	}

	ctx := cmd.Context()
	doc, err := a.loadPage(ctx, generateURL, generateHTMLFile)
	if err != nil {
		return err
	}

	resume, err := a.service().GenerateFromStore(ctx, doc, generateURL)
	if err != nil {
		return fmt.Errorf("resume generation failed [%s]: %w", pipeline.ErrorKind(err), err)
	}

	if generateHTMLOut != "" || generatePDF != "" {
		page, err := rendering.DocumentHTML(resume)
		if err != nil {
			return err
		}
		if generateHTMLOut != "" {
			if err := os.WriteFile(generateHTMLOut, []byte(page), 0644); err != nil {
				return fmt.Errorf("failed to write HTML: %w", err)
			}
			if a.cfg.Verbose {
				log.Printf("[VERBOSE] Wrote %s", generateHTMLOut)
			}
		}
		if generatePDF != "" {
			opts := rendering.DefaultPDFOptions()
			opts.Verbose = a.cfg.Verbose
			pdf, err := rendering.PrintPDF(ctx, page, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(generatePDF, pdf, 0644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}
			if a.cfg.Verbose {
				log.Printf("[VERBOSE] Wrote %s (%d bytes)", generatePDF, len(pdf))
			}
		}
	}

	out := cmd.OutOrStdout()
	if generateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resume)
	}
	_, _ = fmt.Fprintln(out, resume.Body)
	return nil
}
