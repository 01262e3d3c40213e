// Package failure carries an HTTP status alongside an error message so that
// services can decide the response code and handlers only render it.
package failure

import (
	"errors"
	"fmt"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Failure) Error() string {
	return e.Message
}

// ForbiddenError is returned when the caller's role may not use an endpoint.
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func New(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest turns a decoding or parsing error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// Unprocessable is for well-formed requests whose preconditions do not hold.
func Unprocessable(msg string) error {
	return New(http.StatusUnprocessableEntity, msg)
}

// Transition rejects a booking status change that is illegal from the current state.
func Transition(from, to string) error {
	return Unprocessable(fmt.Sprintf("booking cannot move from %s to %s", from, to))
}

// GetCode returns the status carried by err, or 500 for anything else.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// Is reports whether err is a Failure carrying the given code.
func Is(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}
