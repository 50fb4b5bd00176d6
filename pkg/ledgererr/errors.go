// Package ledgererr defines the error taxonomy shared by the ledger modules.
//
// Every domain failure is an *Error carrying a Class (validation, conflict,
// integrity) and a Code. errors.Is matches either the class sentinel or the
// coded sentinel, so callers can branch at whichever granularity they need.
package ledgererr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class groups errors by how a caller should react to them.
type Class string

const (
	ClassValidation Class = "validation"
	ClassConflict   Class = "conflict"
	ClassIntegrity  Class = "integrity"
)

// Code identifies a specific failure.
type Code string

const (
	CodeInvalidInput        Code = "invalid_input"
	CodeDateAlreadyImported Code = "date_already_imported"
	CodeUnresolvedMatch     Code = "unresolved_match"
	CodeNameCollision       Code = "name_collision"
	CodePlayerNotFound      Code = "player_not_found"
	CodeEntryNotFound       Code = "entry_not_found"
	CodeGameNotFound        Code = "game_not_found"
	CodeDuplicateEntry      Code = "duplicate_entry"
	CodeTransaction         Code = "transaction_failed"
)

var codeClass = map[Code]Class{
	CodeInvalidInput:        ClassValidation,
	CodeDateAlreadyImported: ClassConflict,
	CodeUnresolvedMatch:     ClassConflict,
	CodeNameCollision:       ClassConflict,
	CodePlayerNotFound:      ClassConflict,
	CodeEntryNotFound:       ClassConflict,
	CodeGameNotFound:        ClassConflict,
	CodeDuplicateEntry:      ClassIntegrity,
	CodeTransaction:         ClassIntegrity,
}

// Class returns the class a code belongs to.
func (c Code) Class() Class {
	if class, ok := codeClass[c]; ok {
		return class
	}
	return ClassIntegrity
}

// Error is a classified domain error.
type Error struct {
	Code    Code
	Class   Class
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a sentinel by code, or by class when the sentinel has no code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Class == e.Class
}

// Class sentinels.
var (
	ErrValidation = &Error{Class: ClassValidation}
	ErrConflict   = &Error{Class: ClassConflict}
	ErrIntegrity  = &Error{Class: ClassIntegrity}
)

// Coded sentinels.
var (
	ErrInvalidInput        = sentinel(CodeInvalidInput)
	ErrDateAlreadyImported = sentinel(CodeDateAlreadyImported)
	ErrUnresolvedMatch     = sentinel(CodeUnresolvedMatch)
	ErrNameCollision       = sentinel(CodeNameCollision)
	ErrPlayerNotFound      = sentinel(CodePlayerNotFound)
	ErrEntryNotFound       = sentinel(CodeEntryNotFound)
	ErrGameNotFound        = sentinel(CodeGameNotFound)
	ErrDuplicateEntry      = sentinel(CodeDuplicateEntry)
	ErrTransaction         = sentinel(CodeTransaction)
)

func sentinel(code Code) *Error {
	return &Error{Code: code, Class: code.Class(), Message: string(code)}
}

// New builds a classified error for code with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Class: code.Class(), Message: fmt.Sprintf(format, args...)}
}

// Validation builds an invalid-input error.
func Validation(format string, args ...any) *Error {
	return New(CodeInvalidInput, format, args...)
}

// Wrap attaches a cause to a classified error.
func Wrap(err error, code Code, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Err = err
	return e
}

// AsIntegrity returns err unchanged when it is already classified, and wraps
// it as a transaction failure otherwise.
func AsIntegrity(err error, op string) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return Wrap(err, CodeTransaction, "%s failed", op)
}

// CodeOf returns the code of the first classified error in err's chain.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// HTTPStatus maps an error onto the status code handlers respond with.
func HTTPStatus(err error) int {
	var le *Error
	if !errors.As(err, &le) {
		return http.StatusInternalServerError
	}
	switch le.Code {
	case CodePlayerNotFound, CodeEntryNotFound, CodeGameNotFound:
		return http.StatusNotFound
	}
	switch le.Class {
	case ClassValidation:
		return http.StatusBadRequest
	case ClassConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
