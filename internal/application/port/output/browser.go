package output

import (
	"context"
	"errors"
	"time"

	"conduit-e2e/internal/domain/entity"
)

var (
	ErrTimeout  = errors.New("timed out")
	ErrNotFound = errors.New("element not found")
)

type BrowserPort interface {
	// NewPage opens an isolated session; cookies and storage are not shared
	// with other pages.
	NewPage(ctx context.Context) (PagePort, error)
	Name() string
	Close() error
}

type PagePort interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	WaitForURL(ctx context.Context, url string, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	Locate(sel entity.Selector) LocatorPort
	Close() error
}

// LocatorPort is resolved against the live DOM on every call.
type LocatorPort interface {
	Fill(ctx context.Context, value string, timeout time.Duration) error
	Click(ctx context.Context, timeout time.Duration) error

	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Value(ctx context.Context) (string, error)
	VisibleCount(ctx context.Context) (int, error)
	AllTexts(ctx context.Context) ([]string, error)

	WaitFor(ctx context.Context, state entity.ElementState, timeout time.Duration) error
	WaitForText(ctx context.Context, text string, exact bool, timeout time.Duration) error

	String() string
}
