// Package domainerr defines the domain error taxonomy shared by all layers.
// Each error carries a Kind and a human-readable message; the presentation
// boundary maps kinds to transport statuses through a single lookup table.
package domainerr

import "errors"

type Kind int

const (
	DuplicateEntity Kind = iota
	NotFound
	ValidationError
	RuleViolation
	PermissionDenied
	InvalidOperation
	InvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case DuplicateEntity:
		return "duplicate_entity"
	case NotFound:
		return "not_found"
	case ValidationError:
		return "validation_error"
	case RuleViolation:
		return "rule_violation"
	case PermissionDenied:
		return "permission_denied"
	case InvalidOperation:
		return "invalid_operation"
	case InvalidCredentials:
		return "invalid_credentials"
	}
	return "unknown"
}

// Error is a tagged-variant domain error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the Kind of err and whether err is a domain error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
