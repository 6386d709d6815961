package input

import (
	"context"

	"conduit-e2e/internal/domain/entity"
)

type PageObject interface {
	Route() string
	NavigateToPage(ctx context.Context) error
	IsPageLoaded(ctx context.Context) bool
}

type FormInteraction interface {
	IsFormValid(ctx context.Context) bool
	Submit(ctx context.Context) error
	ClearForm(ctx context.Context) error
}

type NavigationCapable interface {
	NavigateToHome(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
}

type Validatable interface {
	ValidatePage(ctx context.Context) entity.ValidationResult
	CheckForErrorMessages(ctx context.Context) []string
}
