package playwright

import (
	"context"
	"fmt"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	pw "github.com/playwright-community/playwright-go"
)

var _ output.LocatorPort = (*Locator)(nil)

type Locator struct {
	sel     entity.Selector
	locator pw.Locator
	expect  pw.PlaywrightAssertions
}

func newLocator(page pw.Page, sel entity.Selector) *Locator {
	return &Locator{sel: sel, locator: build(page, sel), expect: pw.NewPlaywrightAssertions()}
}

// build maps a selector onto Playwright's own locators. Names match exactly.
func build(page pw.Page, sel entity.Selector) pw.Locator {
	switch sel.Kind {
	case entity.SelectorCSS:
		return page.Locator(sel.Value)
	case entity.SelectorField:
		return page.GetByLabel(sel.Name, pw.PageGetByLabelOptions{Exact: pw.Bool(true)}).
			Or(page.GetByPlaceholder(sel.Name, pw.PageGetByPlaceholderOptions{Exact: pw.Bool(true)}))
	default:
		opts := pw.PageGetByRoleOptions{}
		if sel.Name != "" {
			opts.Name = sel.Name
			opts.Exact = pw.Bool(true)
		}
		if sel.Level > 0 {
			opts.Level = pw.Int(sel.Level)
		}
		return page.GetByRole(pw.AriaRole(sel.Role), opts)
	}
}

func (l *Locator) String() string {
	return l.sel.String()
}

func (l *Locator) Fill(ctx context.Context, value string, timeout time.Duration) error {
	err := l.locator.First().Fill(value, pw.LocatorFillOptions{Timeout: pw.Float(ms(timeout))})
	if err != nil {
		return mapErr(fmt.Errorf("fill %s: %w", l, err))
	}
	return nil
}

func (l *Locator) Click(ctx context.Context, timeout time.Duration) error {
	err := l.locator.First().Click(pw.LocatorClickOptions{Timeout: pw.Float(ms(timeout))})
	if err != nil {
		return mapErr(fmt.Errorf("click %s: %w", l, err))
	}
	return nil
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	n, err := l.VisibleCount(ctx)
	return n > 0, err
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	first, err := l.first()
	if err != nil {
		return false, err
	}
	enabled, err := first.IsEnabled()
	return enabled, mapErr(err)
}

func (l *Locator) Value(ctx context.Context) (string, error) {
	first, err := l.first()
	if err != nil {
		return "", err
	}
	v, err := first.InputValue()
	return v, mapErr(err)
}

func (l *Locator) VisibleCount(ctx context.Context) (int, error) {
	all, err := l.locator.All()
	if err != nil {
		return 0, mapErr(err)
	}
	n := 0
	for _, loc := range all {
		if v, err := loc.IsVisible(); err == nil && v {
			n++
		}
	}
	return n, nil
}

func (l *Locator) AllTexts(ctx context.Context) ([]string, error) {
	texts, err := l.locator.AllInnerTexts()
	return texts, mapErr(err)
}

func (l *Locator) WaitFor(ctx context.Context, state entity.ElementState, timeout time.Duration) error {
	t := pw.Float(ms(timeout))
	first := l.locator.First()
	var err error
	switch state {
	case entity.StateEnabled:
		err = l.expect.Locator(first).ToBeEnabled(pw.LocatorAssertionsToBeEnabledOptions{Timeout: t})
	case entity.StateDisabled:
		err = l.expect.Locator(first).ToBeDisabled(pw.LocatorAssertionsToBeDisabledOptions{Timeout: t})
	case entity.StateHidden:
		err = first.WaitFor(pw.LocatorWaitForOptions{State: pw.WaitForSelectorStateHidden, Timeout: t})
	case entity.StateAttached:
		err = first.WaitFor(pw.LocatorWaitForOptions{State: pw.WaitForSelectorStateAttached, Timeout: t})
	default:
		err = l.expect.Locator(first).ToBeVisible(pw.LocatorAssertionsToBeVisibleOptions{Timeout: t})
	}
	if err != nil {
		return fmt.Errorf("%w: %s never became %s: %w", output.ErrTimeout, l, state, err)
	}
	return nil
}

func (l *Locator) WaitForText(ctx context.Context, text string, exact bool, timeout time.Duration) error {
	t := pw.Float(ms(timeout))
	first := l.locator.First()
	var err error
	if exact {
		err = l.expect.Locator(first).ToHaveText(text, pw.LocatorAssertionsToHaveTextOptions{Timeout: t})
	} else {
		err = l.expect.Locator(first).ToContainText(text, pw.LocatorAssertionsToContainTextOptions{Timeout: t})
	}
	if err != nil {
		return fmt.Errorf("%w: %s text: %w", output.ErrTimeout, l, err)
	}
	return nil
}

func (l *Locator) first() (pw.Locator, error) {
	n, err := l.locator.Count()
	if err != nil {
		return nil, mapErr(err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", output.ErrNotFound, l)
	}
	return l.locator.First(), nil
}
