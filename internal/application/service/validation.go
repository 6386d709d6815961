package service

import (
	"context"
	"fmt"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
)

const (
	checkAccessibility = "validateAccessibility"
	checkForm          = "validateFormStructure"
	checkNavigation    = "validateNavigationStructure"
)

// ValidationService runs structural checks against a live page. None of its
// checks return an error: engine failures become a single error entry.
type ValidationService struct {
	page   output.PagePort
	logger output.LoggerPort
}

func NewValidationService(page output.PagePort, logger output.LoggerPort) *ValidationService {
	return &ValidationService{page: page, logger: logger}
}

func (v *ValidationService) ValidateAccessibility(ctx context.Context) entity.ValidationResult {
	result := entity.NewValidationResult()

	headings, err := v.page.Locate(entity.Heading(1, "")).VisibleCount(ctx)
	if err != nil {
		return v.failed(checkAccessibility, err)
	}
	switch {
	case headings == 0:
		result.AddError("no visible top-level heading")
	case headings > 1:
		result.AddError(fmt.Sprintf("expected exactly one visible top-level heading, found %d", headings))
	}

	doc, err := v.page.HTML(ctx)
	if err != nil {
		return v.failed(checkAccessibility, err)
	}
	unnamed, err := UnnamedInputs(doc)
	if err != nil {
		return v.failed(checkAccessibility, err)
	}
	for _, in := range unnamed {
		result.AddWarning(fmt.Sprintf("input %s has no accessible name", in))
	}

	v.logger.Debug("accessibility checked", "errors", len(result.Errors), "warnings", len(result.Warnings))
	return result
}

// ValidateFormStructure checks every field in order and reports each miss.
func (v *ValidationService) ValidateFormStructure(ctx context.Context, fieldNames []string) entity.ValidationResult {
	result := entity.NewValidationResult()
	for _, name := range fieldNames {
		visible, err := v.page.Locate(entity.ByField(name)).IsVisible(ctx)
		if err != nil {
			return v.failed(checkForm, err)
		}
		if !visible {
			result.AddError(fmt.Sprintf("form field %q is not visible", name))
		}
	}
	return result
}

func (v *ValidationService) ValidateNavigationStructure(ctx context.Context, linkNames []string) entity.ValidationResult {
	result := entity.NewValidationResult()
	for _, name := range linkNames {
		visible, err := v.page.Locate(entity.ByRole(entity.RoleLink, name)).IsVisible(ctx)
		if err != nil {
			return v.failed(checkNavigation, err)
		}
		if !visible {
			result.AddError(fmt.Sprintf("navigation link %q is not visible", name))
		}
	}
	return result
}

func (v *ValidationService) failed(check string, err error) entity.ValidationResult {
	v.logger.Warn("validation could not run", "check", check, "error", err)
	return entity.NewFailedValidation(check, err)
}
