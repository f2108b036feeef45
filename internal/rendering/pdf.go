package rendering

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-tracker/internal/fetch"
)

// DefaultPrintTimeout bounds a single PDF print
const DefaultPrintTimeout = 60 * time.Second

// PDFOptions configures PrintPDF
type PDFOptions struct {
	Timeout     time.Duration
	PaperWidth  float64 // inches
	PaperHeight float64 // inches
	Verbose     bool
}

// DefaultPDFOptions returns US Letter settings
func DefaultPDFOptions() *PDFOptions {
	return &PDFOptions{
		Timeout:     DefaultPrintTimeout,
		PaperWidth:  8.5,
		PaperHeight: 11,
	}
}

// PrintPDF loads html into a headless Chrome tab and prints it to PDF.
// Requires Chrome/Chromium to be installed on the system.
func PrintPDF(ctx context.Context, html string, opts *PDFOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultPDFOptions()
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultPrintTimeout
	}

	browserCtx, cancel := fetch.NewBrowserContext(ctx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "failed to print PDF", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Printed PDF: %d bytes", len(pdf))
	}
	return pdf, nil
}
