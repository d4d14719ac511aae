package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation error")
)

// Error pairs a kind with the message that is safe to show a client.
type Error struct {
	kind    error
	message string
	Fields  FieldErrors
}

func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{kind: ErrValidation, message: "Validation error", Fields: e}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// Message returns the client-facing text for err. Unknown errors never leak.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.message
	}
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fe.Message
	}
	return "Server error"
}
