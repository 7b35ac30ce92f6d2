package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrBadParameter means that a request field does not match what the registry expects.
	ErrBadParameter = "bad_parameter"
	// ErrEntityNotFound means that no live service matches the request.
	ErrEntityNotFound = "entity_not_found"
	// ErrRegistryStopped means that the registry is shutting down and no longer admits services.
	ErrRegistryStopped = "registry_stopped"
)

// RegistryError represents an error within the registry API.
type RegistryError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers.
	Inner error `json:"-"`
}

func (e RegistryError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e RegistryError) Unwrap() error { return e.Inner }

// ToRegistryError returns the RegistryError in err's chain, or nil.
func ToRegistryError(err error) *RegistryError {
	var e RegistryError
	if errors.As(err, &e) {
		return &e
	}
	return nil
}

func NewInternalServerError(message string, inner error) RegistryError {
	return RegistryError{Code: ErrInternalServerError, Message: message, Inner: inner}
}

func IsInternalServerError(err error) bool {
	var e RegistryError
	return errors.As(err, &e) && e.Code == ErrInternalServerError
}

func NewBadParameterError(message string, inner error) RegistryError {
	return RegistryError{Code: ErrBadParameter, Message: message, Inner: inner}
}

func IsBadParameter(err error) bool {
	var e RegistryError
	return errors.As(err, &e) && e.Code == ErrBadParameter
}

func NewEntityNotFoundError(message string, inner error) RegistryError {
	return RegistryError{Code: ErrEntityNotFound, Message: message, Inner: inner}
}

func IsEntityNotFound(err error) bool {
	var e RegistryError
	return errors.As(err, &e) && e.Code == ErrEntityNotFound
}

func NewRegistryStoppedError(message string, inner error) RegistryError {
	return RegistryError{Code: ErrRegistryStopped, Message: message, Inner: inner}
}

func IsRegistryStopped(err error) bool {
	var e RegistryError
	return errors.As(err, &e) && e.Code == ErrRegistryStopped
}
