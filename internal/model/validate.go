package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// CodeChecker answers whether a categorical code is acceptable for a field.
type CodeChecker interface {
	Accepts(field, code string) bool
}

// ValidateRecord checks a single record for constraint violations. Categorical
// values are checked against codes when it is non-nil. It returns a
// *ValidationError if any rule fails, or nil if the record is valid.
func ValidateRecord(r *Record, codes CodeChecker) error {
	var ve ValidationError

	if strings.TrimSpace(r.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: ColRecordID, Message: "is required"})
	}

	// Type: closed set, and the payload must match it.
	if !r.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   ColRecordType,
			Message: fmt.Sprintf("invalid value %q", r.Type),
		})
	} else if r.Payload == nil || r.Payload.Kind() != r.Type {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   ColRecordType,
			Message: fmt.Sprintf("payload does not match record type %q", r.Type),
		})
	}

	if strings.TrimSpace(r.IndicatorCode) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: ColIndicatorCode, Message: "is required"})
	}

	if r.Confidence != "" && !r.Confidence.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   ColConfidence,
			Message: fmt.Sprintf("invalid value %q", r.Confidence),
		})
	}

	if link, ok := r.ImpactLink(); ok {
		if link.Direction != "" && !link.Direction.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   ColImpactDirection,
				Message: fmt.Sprintf("invalid value %q", link.Direction),
			})
		}
		if link.LagMonths != nil && *link.LagMonths < 0 {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   ColLagMonths,
				Message: fmt.Sprintf("must be non-negative, got %d", *link.LagMonths),
			})
		}
	}

	if codes != nil {
		values := map[string]string{
			ColRecordType: string(r.Type),
			ColPillar:     r.Pillar,
			ColSourceType: r.SourceType,
			ColConfidence: string(r.Confidence),
		}
		for _, field := range CategoricalColumns {
			v := values[field]
			if v != "" && !codes.Accepts(field, v) {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   field,
					Message: fmt.Sprintf("code %q is not in the reference catalog", v),
				})
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
