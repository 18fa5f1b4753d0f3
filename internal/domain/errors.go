package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindAuth                 ErrorKind = "auth"
	KindPermission           ErrorKind = "permission"
	KindNotFound             ErrorKind = "not_found"
	KindValidation           ErrorKind = "validation"
	KindPolicy               ErrorKind = "policy"
	KindConflict             ErrorKind = "conflict"
	KindReferentialIntegrity ErrorKind = "referential_integrity"
)

// Error is a classified, user-presentable failure. Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict) works on
// errors carrying a custom message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrAuth                 = &Error{Kind: KindAuth, Message: "not authenticated"}
	ErrPermission           = &Error{Kind: KindPermission, Message: "not authorized"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrPolicy               = &Error{Kind: KindPolicy, Message: "operation not allowed by policy"}
	ErrConflict             = &Error{Kind: KindConflict, Message: "this time slot is already reserved"}
	ErrReferentialIntegrity = &Error{Kind: KindReferentialIntegrity, Message: "entity still has dependent records"}
)

func NewAuthError(format string, args ...any) error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func NewPermissionError(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewPolicyError(format string, args ...any) error {
	return &Error{Kind: KindPolicy, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewReferentialIntegrityError(format string, args ...any) error {
	return &Error{Kind: KindReferentialIntegrity, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// PublicMessage returns the message of a classified error, or fallback otherwise.
func PublicMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return fallback
}
