package service

import "fmt"

// ActionError is returned when an interaction (fill, click) could not be
// performed on an element.
type ActionError struct {
	Op     string
	Target string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Target, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// PageError wraps navigation and critical-element failures of a page object.
type PageError struct {
	Page string
	Op   string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// AssertionError means the UI did not reach the expected state in time.
type AssertionError struct {
	Expectation string
	Target      string
	Err         error
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s to %s: %v", e.Target, e.Expectation, e.Err)
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// WrapPageError builds the uniform "failed to <op>" error for page objects.
func WrapPageError(page, op string, err error) error {
	if err == nil {
		return nil
	}
	return &PageError{Page: page, Op: op, Err: err}
}
