package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	AlreadyStaked        ErrorCode = "ALREADY_STAKED"
	NothingStaked        ErrorCode = "NOTHING_STAKED"
	NoPrimaryPosition    ErrorCode = "NO_PRIMARY_POSITION"
	TooSoon              ErrorCode = "TOO_SOON"
	ArithmeticOverflow   ErrorCode = "ARITHMETIC_OVERFLOW"
	ExternalCallFailed   ErrorCode = "EXTERNAL_CALL_FAILED"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error is the error returned by every ledger operation. StatusCode is the
// http status the api layer responds with.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewUnauthorizedError(msg string) *Error {
	return NewErrorWithMsg(http.StatusForbidden, Unauthorized, msg)
}

func NewExternalCallFailedError(method string, err error) *Error {
	return NewError(http.StatusBadGateway, ExternalCallFailed, fmt.Errorf("%s failed: %w", method, err))
}

func NewArithmeticOverflowError(what string) *Error {
	return NewError(http.StatusUnprocessableEntity, ArithmeticOverflow, fmt.Errorf("%s: %w", what, ErrOverflow))
}

func NewAlreadyStakedError(msg string) *Error {
	return NewErrorWithMsg(http.StatusConflict, AlreadyStaked, msg)
}

func NewNothingStakedError(msg string) *Error {
	return NewErrorWithMsg(http.StatusBadRequest, NothingStaked, msg)
}

func NewNoPrimaryPositionError(msg string) *Error {
	return NewErrorWithMsg(http.StatusBadRequest, NoPrimaryPosition, msg)
}

func NewTooSoonError(msg string) *Error {
	return NewErrorWithMsg(http.StatusTooManyRequests, TooSoon, msg)
}

func NewNotFoundError(msg string) *Error {
	return NewErrorWithMsg(http.StatusNotFound, NotFound, msg)
}

// AsError returns err as *Error, wrapping anything else as an internal
// service error. nil stays nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return NewInternalServiceError(err)
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.ErrorCode == code
	}
	return false
}
