package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

// DefaultPDFTimeout bounds one HTML to PDF conversion.
const DefaultPDFTimeout = 60 * time.Second

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFExporter prints HTML to PDF in headless Chrome.
type PDFExporter struct {
	Timeout time.Duration
}

// NewPDFExporter creates an exporter with DefaultPDFTimeout.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Timeout: DefaultPDFTimeout}
}

// Export renders html as an A4 PDF with backgrounds.
func (e *PDFExporter) Export(ctx context.Context, html string) ([]byte, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, fetch.AllocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Stage: "pdf", Err: err}
	}
	return pdf, nil
}
