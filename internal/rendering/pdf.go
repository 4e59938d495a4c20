// Package rendering - pdf.go prints the rendered HTML document to PDF
// through a headless browser. Requires Chrome/Chromium on the system.
package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFOptions configures the printed page geometry. Dimensions are in inches.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	MarginTop       float64
	MarginBottom    float64
	MarginLeft      float64
	MarginRight     float64
	PrintBackground bool
}

// LetterOptions returns US Letter geometry with the standard resume margins.
func LetterOptions() PDFOptions {
	return PDFOptions{
		PaperWidth:      8.5,
		PaperHeight:     11,
		MarginTop:       0.4,
		MarginBottom:    0.4,
		MarginLeft:      0.4,
		MarginRight:     0.4,
		PrintBackground: true,
	}
}

// Printer produces a binary document from an HTML page.
type Printer interface {
	Print(ctx context.Context, html string, opts PDFOptions) ([]byte, error)
}

// ChromePrinter prints through a headless Chrome instance. Every call
// launches its own browser and tears it down on all exit paths, so an
// instance is safe for concurrent use; no browser state is shared between
// in-flight requests.
type ChromePrinter struct {
	// Timeout bounds a single print, browser startup included.
	// Zero means DefaultPrintTimeout.
	Timeout time.Duration
}

// DefaultPrintTimeout bounds a single PDF print end to end.
const DefaultPrintTimeout = 60 * time.Second

// Print loads the HTML into a fresh headless browser and prints it to PDF.
func (p *ChromePrinter) Print(ctx context.Context, html string, opts PDFOptions) ([]byte, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		// Inject the document directly instead of serving it over HTTP.
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(opts.MarginTop).
				WithMarginBottom(opts.MarginBottom).
				WithMarginLeft(opts.MarginLeft).
				WithMarginRight(opts.MarginRight).
				WithPrintBackground(opts.PrintBackground).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{
			Message: "headless browser print failed",
			Cause:   err,
		}
	}

	return pdf, nil
}
