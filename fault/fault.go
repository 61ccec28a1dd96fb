// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fault

import (
	"errors"
	"net/http"
)

// Kind classifies a recoverable failure. Every rejected operation in
// the core falls into exactly one of these; none is fatal.
type Kind string

const (
	Validation Kind = "validation_error"
	State      Kind = "state_error"
	Conflict   Kind = "conflict_error"
	NotFound   Kind = "not_found"
)

// Fault is a recoverable, caller-facing error with a machine-readable
// kind. It is surfaced to the invoking collaborator, never swallowed.
type Fault struct {
	Kind    Kind
	Message string
}

func (f *Fault) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// New builds a Fault of the given kind.
func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// KindOf extracts the Kind from err, or "" if err is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Status maps a Kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case State:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
