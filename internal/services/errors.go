package services

import (
	"errors"
	"fmt"

	"fairhold/marketplace/internal/validate"
)

// Sentinel errors returned by the service layer. Handlers surface these
// verbatim as user-facing messages, so the wording is part of the API
// contract and must remain stable.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPropertyNotFound       = errors.New("property not found")
	ErrSelfInquiry            = errors.New("you cannot inquire about your own property")
	ErrDuplicateInquiry       = errors.New("you have already submitted an inquiry for this property recently")
	ErrNotAuthorized          = errors.New("you are not authorized to perform this action")
	ErrUserNotFound           = errors.New("user not found")
	ErrInquiryNotFound        = errors.New("inquiry not found")
	ErrConversationNotFound   = errors.New("conversation not found")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidTransition      = errors.New("action not permitted in the current status")
	ErrReasonRequired         = errors.New("a reason is required for this moderation action")
	ErrMessageTooLong         = errors.New("message exceeds the maximum allowed length")
)

// PersistenceError wraps a backing-store failure. The underlying error is
// preserved for logging; the Error text stays generic so raw driver detail
// never reaches end users.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// ValidationError carries per-field validation failures. The first field's
// message is the headline error shown to the user.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}
