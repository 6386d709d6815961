package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
)

var _ output.LocatorPort = (*Locator)(nil)

// Locator re-resolves its selector on every call, so it survives re-renders
// of the single-page application.
type Locator struct {
	page  *Page
	sel   entity.Selector
	query query
}

func newLocator(p *Page, sel entity.Selector) *Locator {
	return &Locator{page: p, sel: sel, query: toQuery(sel)}
}

func (l *Locator) String() string {
	return l.sel.String()
}

func (l *Locator) resolve(ctx context.Context) (rod.Elements, error) {
	page := l.page.page.Context(ctx)
	if l.query.xpath {
		return page.ElementsX(l.query.expr)
	}
	return page.Elements(l.query.expr)
}

func (l *Locator) first(ctx context.Context) (*rod.Element, error) {
	els, err := l.resolve(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", output.ErrNotFound, l)
	}
	return els.First(), nil
}

func (l *Locator) firstVisible(ctx context.Context) (*rod.Element, error) {
	els, err := l.resolve(ctx)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if visible(el) {
			return el, nil
		}
	}
	return nil, nil
}

// actionable waits for a visible, enabled match.
func (l *Locator) actionable(ctx context.Context, timeout time.Duration) (*rod.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var target *rod.Element
	err := utils.Retry(ctx, pollSleeper(), func() (bool, error) {
		el, err := l.firstVisible(ctx)
		if err != nil || el == nil || !enabled(el) {
			return false, nil
		}
		target = el
		return true, nil
	})
	if err != nil {
		return nil, mapErr(fmt.Errorf("%s is not actionable: %w", l, err))
	}
	return target, nil
}

func (l *Locator) Fill(ctx context.Context, value string, timeout time.Duration) error {
	el, err := l.actionable(ctx, timeout)
	if err != nil {
		return err
	}
	el = el.Context(ctx)

	_, err = el.Eval(`() => {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	if err != nil {
		return mapErr(fmt.Errorf("clear failed: %w", err))
	}
	if value == "" {
		return nil
	}
	if err := el.Input(value); err != nil {
		return mapErr(fmt.Errorf("input failed: %w", err))
	}
	return nil
}

func (l *Locator) Click(ctx context.Context, timeout time.Duration) error {
	el, err := l.actionable(ctx, timeout)
	if err != nil {
		return err
	}
	if err := el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return mapErr(fmt.Errorf("click failed: %w", err))
	}
	return nil
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	el, err := l.firstVisible(ctx)
	if err != nil {
		return false, mapErr(err)
	}
	return el != nil, nil
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	el, err := l.first(ctx)
	if err != nil {
		return false, err
	}
	return enabled(el), nil
}

func (l *Locator) Value(ctx context.Context) (string, error) {
	el, err := l.first(ctx)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", mapErr(err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func (l *Locator) VisibleCount(ctx context.Context) (int, error) {
	els, err := l.resolve(ctx)
	if err != nil {
		return 0, mapErr(err)
	}
	n := 0
	for _, el := range els {
		if visible(el) {
			n++
		}
	}
	return n, nil
}

func (l *Locator) AllTexts(ctx context.Context) ([]string, error) {
	els, err := l.resolve(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, mapErr(err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func (l *Locator) WaitFor(ctx context.Context, state entity.ElementState, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := utils.Retry(ctx, pollSleeper(), func() (bool, error) {
		return l.inState(ctx, state), nil
	})
	if err != nil {
		return mapErr(fmt.Errorf("%s never became %s: %w", l, state, err))
	}
	return nil
}

func (l *Locator) WaitForText(ctx context.Context, text string, exact bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last string
	err := utils.Retry(ctx, pollSleeper(), func() (bool, error) {
		el, err := l.firstVisible(ctx)
		if err != nil || el == nil {
			return false, nil
		}
		got, err := el.Text()
		if err != nil {
			return false, nil
		}
		last = strings.Join(strings.Fields(got), " ")
		if exact {
			return last == text, nil
		}
		return strings.Contains(last, text), nil
	})
	if err != nil {
		return mapErr(fmt.Errorf("%s has text %q: %w", l, last, err))
	}
	return nil
}

func (l *Locator) inState(ctx context.Context, state entity.ElementState) bool {
	switch state {
	case entity.StateVisible:
		el, err := l.firstVisible(ctx)
		return err == nil && el != nil
	case entity.StateHidden:
		el, err := l.firstVisible(ctx)
		return err == nil && el == nil
	case entity.StateAttached:
		els, err := l.resolve(ctx)
		return err == nil && len(els) > 0
	case entity.StateEnabled, entity.StateDisabled:
		els, err := l.resolve(ctx)
		if err != nil || len(els) == 0 {
			return false
		}
		return enabled(els.First()) == (state == entity.StateEnabled)
	}
	return false
}

func visible(el *rod.Element) bool {
	v, err := el.Visible()
	return err == nil && v
}

func enabled(el *rod.Element) bool {
	disabled, err := el.Property("disabled")
	if err != nil {
		return false
	}
	return !disabled.Bool()
}
