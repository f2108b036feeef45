package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/overlay"
)

var (
	overlayURL      string
	overlayHTMLFile string
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Open the interactive counter and resume panel",
	Long: `Open a terminal panel showing the application counter and streak for a
job page. From the panel you can increment or reset the counter, scrape the
page, save it, generate a resume and copy it to the clipboard.

Without --url or --html-file only the counter actions are available.`,
	Args: cobra.NoArgs,
	RunE: runOverlay,
}

func init() {
	overlayCmd.Flags().StringVar(&overlayURL, "url", "", "Job posting URL")
	overlayCmd.Flags().StringVar(&overlayHTMLFile, "html-file", "", "Saved job posting page")
	rootCmd.AddCommand(overlayCmd)
}

func runOverlay(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	controller := &overlay.Controller{
		Tracker:   a.tracker,
		Scraper:   a.scraper,
		Generator: a.service(),
		Store:     a.store,
		PageURL:   overlayURL,
	}
	if overlayURL != "" || overlayHTMLFile != "" {
		controller.Page = a.pageSource(overlayURL, overlayHTMLFile)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	program := tea.NewProgram(overlay.NewModel(ctx, controller), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("overlay failed: %w", err)
	}
	return nil
}

// pageSource loads the page once and serves the same document afterwards
func (a *app) pageSource(pageURL, htmlFile string) overlay.PageSource {
	var (
		once sync.Once
		doc  *goquery.Document
		err  error
	)
	return func(ctx context.Context) (*goquery.Document, error) {
		once.Do(func() {
			doc, err = a.loadPage(ctx, pageURL, htmlFile)
		})
		return doc, err
	}
}
