package httputil

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ValidationDetails mirrors the flattened error shape clients already parse:
// errors that belong to a field go under fieldErrors, the rest under formErrors.
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Flatten converts an ozzo-validation error (or any other error) into ValidationDetails.
func Flatten(err error) ValidationDetails {
	details := ValidationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}
	if err == nil {
		return details
	}

	if errors.Is(err, ErrInvalidJSON) {
		details.FormErrors = append(details.FormErrors, ErrInvalidJSON.Error())
		return details
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		details.FormErrors = append(details.FormErrors, err.Error())
		return details
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fieldErr := fieldErrs[field]
		if fieldErr == nil {
			continue
		}
		details.FieldErrors[field] = append(details.FieldErrors[field], fieldErr.Error())
	}

	return details
}
