package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
	"github.com/ysmood/gson"
)

var _ output.PagePort = (*Page)(nil)

type Page struct {
	page    *rod.Page
	session *rod.Browser
	logger  output.LoggerPort
}

func newPage(page *rod.Page, session *rod.Browser, logger output.LoggerPort) *Page {
	return &Page{page: page, session: session, logger: logger}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return mapErr(fmt.Errorf("navigation to %s failed: %w", url, err))
	}
	if err := page.WaitLoad(); err != nil {
		return mapErr(fmt.Errorf("waiting for %s to load: %w", url, err))
	}
	p.logger.Debug("navigated", "url", url)
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => location.href`)
	if err != nil {
		return "", mapErr(fmt.Errorf("failed to read url: %w", err))
	}
	return res.Value.Str(), nil
}

func (p *Page) WaitForURL(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var current string
	err := utils.Retry(ctx, pollSleeper(), func() (bool, error) {
		u, err := p.CurrentURL(ctx)
		if err != nil {
			return false, nil
		}
		current = u
		return u == url, nil
	})
	if err != nil {
		return mapErr(fmt.Errorf("url is %q, want %q: %w", current, url, err))
	}
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", mapErr(fmt.Errorf("failed to get HTML: %w", err))
	}
	return html, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	data, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, mapErr(fmt.Errorf("screenshot failed: %w", err))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   data,
		Format: "jpeg",
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func (p *Page) Locate(sel entity.Selector) output.LocatorPort {
	return newLocator(p, sel)
}

func (p *Page) Close() error {
	err := p.page.Close()
	if cerr := p.session.Close(); err == nil {
		err = cerr
	}
	return err
}

func pollSleeper() utils.Sleeper {
	return utils.BackoffSleeper(50*time.Millisecond, 500*time.Millisecond, nil)
}

// mapErr turns an expired deadline into output.ErrTimeout while keeping the
// original chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, output.ErrTimeout) {
		return fmt.Errorf("%w: %w", output.ErrTimeout, err)
	}
	return err
}
