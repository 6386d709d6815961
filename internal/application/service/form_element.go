package service

import (
	"context"
	"fmt"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
)

// FormElement wraps a single locator with error-annotated actions, probes
// that never fail, and blocking expectations.
type FormElement struct {
	locator output.LocatorPort
	name    string
	timeout time.Duration
	logger  output.LoggerPort
}

func NewFormElement(locator output.LocatorPort, name string, timeout time.Duration, logger output.LoggerPort) *FormElement {
	return &FormElement{
		locator: locator,
		name:    name,
		timeout: timeout,
		logger:  logger,
	}
}

func (f *FormElement) Name() string {
	return f.name
}

func (f *FormElement) Locator() output.LocatorPort {
	return f.locator
}

func (f *FormElement) Timeout() time.Duration {
	return f.timeout
}

// WithTimeout returns a copy that waits up to d instead of the default.
func (f *FormElement) WithTimeout(d time.Duration) *FormElement {
	clone := *f
	clone.timeout = d
	return &clone
}

func (f *FormElement) Fill(ctx context.Context, value string) error {
	if err := f.locator.Fill(ctx, value, f.timeout); err != nil {
		f.logger.Warn("fill failed", "element", f.name, "error", err)
		return &ActionError{Op: "fill", Target: f.name, Err: err}
	}
	f.logger.Debug("filled", "element", f.name, "length", len(value))
	return nil
}

func (f *FormElement) Click(ctx context.Context) error {
	if err := f.locator.Click(ctx, f.timeout); err != nil {
		f.logger.Warn("click failed", "element", f.name, "error", err)
		return &ActionError{Op: "click", Target: f.name, Err: err}
	}
	f.logger.Debug("clicked", "element", f.name)
	return nil
}

func (f *FormElement) IsVisible(ctx context.Context) bool {
	visible, err := f.locator.IsVisible(ctx)
	return err == nil && visible
}

func (f *FormElement) IsEnabled(ctx context.Context) bool {
	enabled, err := f.locator.IsEnabled(ctx)
	return err == nil && enabled
}

// IsDisabled is false when the element cannot be inspected at all.
func (f *FormElement) IsDisabled(ctx context.Context) bool {
	enabled, err := f.locator.IsEnabled(ctx)
	return err == nil && !enabled
}

func (f *FormElement) Value(ctx context.Context) (string, error) {
	v, err := f.locator.Value(ctx)
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", f.name, err)
	}
	return v, nil
}

func (f *FormElement) ExpectVisible(ctx context.Context) error {
	return f.expectState(ctx, entity.StateVisible, "be visible")
}

func (f *FormElement) ExpectHidden(ctx context.Context) error {
	return f.expectState(ctx, entity.StateHidden, "be hidden")
}

func (f *FormElement) ExpectEnabled(ctx context.Context) error {
	return f.expectState(ctx, entity.StateEnabled, "be enabled")
}

func (f *FormElement) ExpectDisabled(ctx context.Context) error {
	return f.expectState(ctx, entity.StateDisabled, "be disabled")
}

func (f *FormElement) ExpectHasText(ctx context.Context, text string) error {
	if err := f.locator.WaitForText(ctx, text, true, f.timeout); err != nil {
		return &AssertionError{Expectation: fmt.Sprintf("have text %q", text), Target: f.name, Err: err}
	}
	return nil
}

func (f *FormElement) ExpectContainsText(ctx context.Context, text string) error {
	if err := f.locator.WaitForText(ctx, text, false, f.timeout); err != nil {
		return &AssertionError{Expectation: fmt.Sprintf("contain text %q", text), Target: f.name, Err: err}
	}
	return nil
}

func (f *FormElement) expectState(ctx context.Context, state entity.ElementState, expectation string) error {
	if err := f.locator.WaitFor(ctx, state, f.timeout); err != nil {
		return &AssertionError{Expectation: expectation, Target: f.name, Err: err}
	}
	return nil
}
