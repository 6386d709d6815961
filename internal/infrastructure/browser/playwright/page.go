package playwright

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"regexp"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	pw "github.com/playwright-community/playwright-go"
)

var _ output.PagePort = (*Page)(nil)

type Page struct {
	page    pw.Page
	session pw.BrowserContext
	logger  output.LoggerPort
}

func newPage(page pw.Page, session pw.BrowserContext, logger output.LoggerPort) *Page {
	return &Page{page: page, session: session, logger: logger}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	opts := pw.PageGotoOptions{WaitUntil: pw.WaitUntilStateLoad}
	if deadline, ok := ctx.Deadline(); ok {
		opts.Timeout = pw.Float(ms(time.Until(deadline)))
	}
	if _, err := p.page.Goto(url, opts); err != nil {
		return mapErr(fmt.Errorf("navigation to %s failed: %w", url, err))
	}
	p.logger.Debug("navigated", "url", url)
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// WaitForURL matches the whole URL literally; Playwright would otherwise read
// a plain string as a glob.
func (p *Page) WaitForURL(ctx context.Context, url string, timeout time.Duration) error {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(url) + "$")
	err := p.page.WaitForURL(pattern, pw.PageWaitForURLOptions{Timeout: pw.Float(ms(timeout))})
	if err != nil {
		return mapErr(fmt.Errorf("url is %q, want %q: %w", p.page.URL(), url, err))
	}
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Content()
	if err != nil {
		return "", mapErr(fmt.Errorf("failed to get HTML: %w", err))
	}
	return html, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	data, err := p.page.Screenshot(pw.PageScreenshotOptions{
		Type:    pw.ScreenshotTypeJpeg,
		Quality: pw.Int(80),
	})
	if err != nil {
		return nil, mapErr(fmt.Errorf("screenshot failed: %w", err))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	return &entity.Screenshot{Data: data, Format: "jpeg", Width: cfg.Width, Height: cfg.Height}, nil
}

func (p *Page) Locate(sel entity.Selector) output.LocatorPort {
	return newLocator(p.page, sel)
}

func (p *Page) Close() error {
	err := p.page.Close()
	if cerr := p.session.Close(); err == nil {
		err = cerr
	}
	return err
}

func ms(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d.Milliseconds())
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pw.ErrTimeout) && !errors.Is(err, output.ErrTimeout) {
		return fmt.Errorf("%w: %w", output.ErrTimeout, err)
	}
	return err
}
