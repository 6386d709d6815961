package entity

import "fmt"

// ValidationResult is produced by structural checks. Validity is derived from
// Errors alone; warnings are informational.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func NewValidationResult() ValidationResult {
	return ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
}

// NewFailedValidation reports a check that could not run at all.
func NewFailedValidation(check string, err error) ValidationResult {
	r := NewValidationResult()
	r.AddError(fmt.Sprintf("%s: %v", check, err))
	return r
}

func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge appends other's errors and warnings after r's, keeping order.
func (r ValidationResult) Merge(other ValidationResult) ValidationResult {
	out := NewValidationResult()
	out.Errors = append(append(out.Errors, r.Errors...), other.Errors...)
	out.Warnings = append(append(out.Warnings, r.Warnings...), other.Warnings...)
	return out
}
