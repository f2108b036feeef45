// Package fetch - browser.go provides headless browser rendering for SPA job boards.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// expandScript clicks a "show more" toggle when the page has one
const expandScript = `(() => {
	const button = document.querySelector('button.show-more-less-html__button--more');
	if (!button) { return false; }
	button.click();
	return true;
})()`

// NewBrowserContext starts a headless Chrome allocator and tab.
// The returned cancel func tears both down.
func NewBrowserContext(ctx context.Context) (context.Context, context.CancelFunc) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	browserCtx, cancel := NewBrowserContext(ctx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	var expanded bool

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Job boards render the description client-side
		chromedp.Sleep(3*time.Second),
		// "Show more" toggles hide the tail of LinkedIn descriptions
		chromedp.Evaluate(expandScript, &expanded),
		chromedp.OuterHTML("html", &html),
	)

	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes (expanded: %t)", len(html), expanded)
	}

	return html, nil
}
