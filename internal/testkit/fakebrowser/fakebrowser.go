// Package fakebrowser is an in-memory PagePort for unit tests of page objects
// and services. Elements are keyed by their selector and hold static state
// that tests mutate directly or through hooks.
package fakebrowser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
)

var (
	_ output.PagePort    = (*Page)(nil)
	_ output.LocatorPort = (*Element)(nil)
)

type Page struct {
	mu       sync.Mutex
	url      string
	elements map[string]*Element

	Document    string
	NavigateErr error
	HTMLErr     error
	Navigations []string
	Closed      bool

	// OnNavigate runs after a successful Navigate, e.g. to render a view.
	OnNavigate func(p *Page, url string)
}

func NewPage() *Page {
	return &Page{
		url:      "about:blank",
		elements: make(map[string]*Element),
	}
}

// Element returns the element registered for sel, creating a detached one
// if none exists yet.
func (p *Page) Element(sel entity.Selector) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := sel.String()
	el, ok := p.elements[key]
	if !ok {
		el = &Element{selector: key}
		p.elements[key] = el
	}
	return el
}

// Show registers sel as a visible, enabled element.
func (p *Page) Show(sel entity.Selector) *Element {
	el := p.Element(sel)
	el.mu.Lock()
	el.Present = true
	el.Visible = true
	el.Enabled = true
	el.mu.Unlock()
	return el
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.mu.Lock()
	p.url = url
	p.Navigations = append(p.Navigations, url)
	hook := p.OnNavigate
	p.mu.Unlock()
	if hook != nil {
		hook(p, url)
	}
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

func (p *Page) WaitForURL(ctx context.Context, url string, timeout time.Duration) error {
	current, _ := p.CurrentURL(ctx)
	if current != url {
		return fmt.Errorf("%w: url is %s, want %s", output.ErrTimeout, current, url)
	}
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if p.HTMLErr != nil {
		return "", p.HTMLErr
	}
	return p.Document, nil
}

func (p *Page) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Format: "jpeg"}, nil
}

func (p *Page) Locate(sel entity.Selector) output.LocatorPort {
	return p.Element(sel)
}

func (p *Page) Close() error {
	p.Closed = true
	return nil
}

type Element struct {
	mu       sync.Mutex
	selector string

	Present bool
	Visible bool
	Enabled bool
	Val     string
	Txt     string
	Texts   []string
	Matches int

	// ProbeErr is returned by every query; ActionErr by Fill and Click.
	ProbeErr  error
	ActionErr error

	OnFill  func(value string)
	OnClick func()

	Fills  []string
	Clicks int
}

func (e *Element) Fill(ctx context.Context, value string, timeout time.Duration) error {
	e.mu.Lock()
	if e.ActionErr != nil {
		err := e.ActionErr
		e.mu.Unlock()
		return err
	}
	if !e.Present {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", output.ErrTimeout, e.selector)
	}
	e.Val = value
	e.Fills = append(e.Fills, value)
	hook := e.OnFill
	e.mu.Unlock()
	if hook != nil {
		hook(value)
	}
	return nil
}

func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	e.mu.Lock()
	if e.ActionErr != nil {
		err := e.ActionErr
		e.mu.Unlock()
		return err
	}
	if !e.Present || !e.Enabled {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s is not clickable", output.ErrTimeout, e.selector)
	}
	e.Clicks++
	hook := e.OnClick
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Present && e.Visible, e.ProbeErr
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ProbeErr != nil {
		return false, e.ProbeErr
	}
	if !e.Present {
		return false, fmt.Errorf("%w: %s", output.ErrNotFound, e.selector)
	}
	return e.Enabled, nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ProbeErr != nil {
		return "", e.ProbeErr
	}
	if !e.Present {
		return "", fmt.Errorf("%w: %s", output.ErrNotFound, e.selector)
	}
	return e.Val, nil
}

func (e *Element) VisibleCount(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ProbeErr != nil {
		return 0, e.ProbeErr
	}
	if !e.Visible {
		return 0, nil
	}
	return e.count(), nil
}

func (e *Element) AllTexts(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ProbeErr != nil {
		return nil, e.ProbeErr
	}
	return append([]string(nil), e.Texts...), nil
}

// WaitFor checks the state once; the fake never changes on its own.
func (e *Element) WaitFor(ctx context.Context, state entity.ElementState, timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ok bool
	switch state {
	case entity.StateVisible:
		ok = e.Present && e.Visible
	case entity.StateHidden:
		ok = !e.Present || !e.Visible
	case entity.StateEnabled:
		ok = e.Present && e.Enabled
	case entity.StateDisabled:
		ok = e.Present && !e.Enabled
	case entity.StateAttached:
		ok = e.Present
	}
	if !ok {
		return fmt.Errorf("%w: %s never became %s", output.ErrTimeout, e.selector, state)
	}
	return nil
}

func (e *Element) WaitForText(ctx context.Context, text string, exact bool, timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	got := strings.TrimSpace(e.Txt)
	if e.Present && ((exact && got == text) || (!exact && strings.Contains(got, text))) {
		return nil
	}
	return fmt.Errorf("%w: %s has text %q", output.ErrTimeout, e.selector, got)
}

func (e *Element) String() string {
	return e.selector
}

func (e *Element) count() int {
	if !e.Present {
		return 0
	}
	if e.Matches > 0 {
		return e.Matches
	}
	return 1
}
