// Package errors provides custom error types for the arenalink system.
// These errors enable programmatic error checking across the event delivery
// core, the transport connection manager, and the compatibility shim.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the arenalink system
var (
	// ErrNotInitialized indicates that a component was used before configuration
	ErrNotInitialized = errors.New("not initialized")

	// ErrMethodNotAvailable indicates that a named remote call has no handler
	ErrMethodNotAvailable = errors.New("method not available")

	// ErrNotConnected indicates that no transport connection is established
	ErrNotConnected = errors.New("not connected")

	// ErrDaemonUnavailable indicates that the daemon is temporarily unavailable
	ErrDaemonUnavailable = errors.New("daemon unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// HandshakeError represents a connection attempt that failed before the
// transport ever reached the open state.
type HandshakeError struct {
	URL     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *HandshakeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("connection to %s failed: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("connection to %s failed: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *HandshakeError) Is(target error) bool {
	return target == ErrNotConnected
}

// NewHandshakeError creates a new HandshakeError
func NewHandshakeError(url string, err error) *HandshakeError {
	return &HandshakeError{URL: url, Err: err}
}

// MethodNotAvailableError indicates that a named remote call has no entry in
// the configured handler table. Unlike transport errors these are meant to be
// visible to the caller, so the message names the attempted method.
type MethodNotAvailableError struct {
	Method string
}

// Error implements the error interface
func (e *MethodNotAvailableError) Error() string {
	return fmt.Sprintf("method %s is not available: no handler registered", e.Method)
}

// Is implements errors.Is support
func (e *MethodNotAvailableError) Is(target error) bool {
	return target == ErrMethodNotAvailable
}

// NewMethodNotAvailableError creates a new MethodNotAvailableError
func NewMethodNotAvailableError(method string) *MethodNotAvailableError {
	return &MethodNotAvailableError{Method: method}
}

// NotInitializedError indicates that a named remote call arrived before any
// handler table was configured. The message names the attempted method so
// callers can tell which call site raced initialization.
type NotInitializedError struct {
	Method string
}

// Error implements the error interface
func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("cannot call %s: handler table not initialized", e.Method)
}

// Is implements errors.Is support
func (e *NotInitializedError) Is(target error) bool {
	return target == ErrNotInitialized
}

// NewNotInitializedError creates a new NotInitializedError
func NewNotInitializedError(method string) *NotInitializedError {
	return &NotInitializedError{Method: method}
}

// FrameError represents a malformed inbound frame. Frames that fail to parse
// are logged and dropped, never surfaced to dispatch callers; this type exists
// so the drop path has something structured to log.
type FrameError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed frame: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("malformed frame: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FrameError) Unwrap() error {
	return e.Err
}

// APIError represents an error from the daemon REST API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("daemon API error (status %d) on %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("daemon API error on %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrDaemonUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotInitialized checks if an error indicates a missing handler table
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsMethodNotAvailable checks if an error indicates an unregistered method
func IsMethodNotAvailable(err error) bool {
	return errors.Is(err, ErrMethodNotAvailable)
}

// IsNotConnected checks if an error indicates a missing connection
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsDaemonUnavailable checks if an error indicates daemon unavailability
func IsDaemonUnavailable(err error) bool {
	return errors.Is(err, ErrDaemonUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapHandshake wraps an error as a HandshakeError
func WrapHandshake(url string, err error) error {
	if err == nil {
		return nil
	}
	return NewHandshakeError(url, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapConfig wraps an error as a ConfigError
func WrapConfig(component string, err error) error {
	if err == nil {
		return nil
	}
	return NewConfigError(component, err.Error(), err)
}
