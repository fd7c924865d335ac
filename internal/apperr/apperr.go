// Package apperr defines the application error taxonomy shared by
// services and handlers. Every error that reaches a handler maps to a
// single HTTP status and a JSON body with a human-readable "error" field.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	Validation     Kind = iota + 1 // malformed or out-of-policy input
	Authentication                 // missing/invalid token or wrong credentials
	Permission                     // authenticated but not allowed
	NotFound
	Conflict
	Upstream    // translation provider failure, absorbed before handlers
	Persistence // store write failure
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Status maps an error to the HTTP status code handlers respond with.
// Unknown errors are treated as persistence-level failures.
func Status(err error) int {
	switch KindOf(err) {
	case Validation:
		return fiber.StatusBadRequest
	case Authentication:
		return fiber.StatusUnauthorized
	case Permission:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	case Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the client-facing error text. Internal failures never
// leak their underlying error to the client.
func Message(err error) string {
	if KindOf(err) == 0 || KindOf(err) == Persistence || KindOf(err) == Upstream {
		return "Internal Server Error"
	}
	return err.Error()
}
