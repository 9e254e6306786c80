// Package apperror defines the error kinds surfaced to API callers and how
// each maps to an HTTP response.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type Kind int

const (
	Internal Kind = iota
	AuthenticationFailed
	Conflict
	NotFound
	Unauthorized
	OperationFailed
	BadRequest
)

func (k Kind) String() string {
	switch k {
	case AuthenticationFailed:
		return "authentication_failed"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	case OperationFailed:
		return "operation_failed"
	case BadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

// AppError carries a caller-safe Message and, optionally, the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case AuthenticationFailed, BadRequest:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

const authenticationFailedMessage = "Username or password is incorrect"

// NewAuthenticationFailed never says which credential was wrong.
func NewAuthenticationFailed() *AppError {
	return New(AuthenticationFailed, authenticationFailedMessage, nil)
}

func NewConflict(message string) *AppError {
	return New(Conflict, message, nil)
}

func NewNotFound(message string) *AppError {
	return New(NotFound, message, nil)
}

func NewUnauthorized() *AppError {
	return New(Unauthorized, "Unauthorized", nil)
}

func NewBadRequest(message string, err error) *AppError {
	return New(BadRequest, message, err)
}

// NewOperationFailed wraps a persistence failure. The cause's description is
// appended to the message returned to the caller.
func NewOperationFailed(action string, err error) *AppError {
	msg := "An error occurred while " + action
	if err != nil {
		msg += ": " + err.Error()
	}
	return New(OperationFailed, msg, err)
}

func NewInternal(err error) *AppError {
	return New(Internal, "Internal server error", err)
}

// Is reports whether err is an *AppError of the given kind.
func Is(err error, kind Kind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}

// Response is the JSON body of every error reply.
type Response struct {
	Message string `json:"message"`
}

// Write renders err as a JSON error reply. Errors that are not an *AppError
// are reported as a generic internal error and logged with their cause.
func Write(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var ae *AppError
	if !errors.As(err, &ae) {
		ae = NewInternal(err)
	}
	status := ae.StatusCode()
	if logger != nil {
		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed", "kind", ae.Kind.String(), "err", err)
		} else {
			logger.Debugw("request rejected", "kind", ae.Kind.String(), "status", status)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Message: ae.Message})
}
