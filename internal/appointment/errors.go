package appointment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPatientNotFound     = fmt.Errorf("patient %w", ErrNotFound)
	ErrDoctorNotFound      = fmt.Errorf("doctor %w", ErrNotFound)
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)
)

var (
	ErrDoctorUnavailable = errors.New("doctor is not available at this time")
	ErrSlotAlreadyBooked = errors.New("this slot is already booked")
	ErrAlreadyCancelled  = errors.New("appointment is already cancelled")
	ErrDoctorBusy        = errors.New("doctor schedule is being modified, please retry")
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidAge  = errors.New("invalid age")
)

// ValidationError captures field level registration problems. It matches
// ErrValidation and each recorded kind (ErrInvalidName, ErrInvalidAge) with
// errors.Is.
type ValidationError struct {
	FieldErrors map[string]string
	kinds       map[string]error
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return ErrValidation.Error()
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	if v == nil {
		return false
	}
	if target == ErrValidation {
		return true
	}
	for _, kind := range v.kinds {
		if kind == target {
			return true
		}
	}
	return false
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string, kind error) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if v.kinds == nil {
		v.kinds = make(map[string]error)
	}
	v.FieldErrors[field] = message
	v.kinds[field] = kind
}

// MergeValidation folds several ValidationErrors into one so a caller can
// report every bad field at once. nil entries are skipped; the first error
// that is not a ValidationError is returned unchanged.
func MergeValidation(errs ...error) error {
	merged := &ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		for field, message := range vErr.FieldErrors {
			merged.add(field, message, vErr.kinds[field])
		}
	}
	if !merged.HasErrors() {
		return nil
	}
	return merged
}

// ErrorKind maps domain errors to a stable label for logs and API codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDoctorUnavailable),
		errors.Is(err, ErrSlotAlreadyBooked),
		errors.Is(err, ErrAlreadyCancelled):
		return "conflict"
	case errors.Is(err, ErrDoctorBusy):
		return "busy"
	}
	return "unexpected"
}
