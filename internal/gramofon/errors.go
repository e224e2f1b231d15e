package gramofon

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// JSON-RPC error codes returned by the Gramofon firmware.
const (
	// CodeSessionExpired is the one recoverable error code: the session
	// token in the request path is no longer valid and a fresh login is
	// required.
	CodeSessionExpired = -32002

	// Standard JSON-RPC 2.0 error codes. All of these are non-recoverable.
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// FailureKind classifies why a call against a device failed.
type FailureKind int

const (
	// FailureUnreachable indicates no response within the timeout
	// (connection refused, host unreachable, timeout). During a scan this
	// is the expected case for most addresses and is not fatal.
	FailureUnreachable FailureKind = iota
	// FailureAuth indicates the device rejected the login credentials.
	FailureAuth
	// FailureSessionExpired indicates the device returned -32002 for the
	// presented session token. Recoverable exactly once per call.
	FailureSessionExpired
	// FailureProtocol indicates a malformed or unexpected response shape.
	FailureProtocol
	// FailureDevice indicates a well-formed error response with a nonzero
	// code other than session expiry.
	FailureDevice
)

// String returns a human-readable name for the failure kind
func (k FailureKind) String() string {
	switch k {
	case FailureUnreachable:
		return "Unreachable"
	case FailureAuth:
		return "Authentication Failure"
	case FailureSessionExpired:
		return "Session Expired"
	case FailureProtocol:
		return "Protocol Error"
	case FailureDevice:
		return "Device Error"
	default:
		return fmt.Sprintf("FailureKind(%d)", k)
	}
}

// CallError represents a classified failure of one call against one device
type CallError struct {
	Kind    FailureKind // Category of failure
	Address string      // Device address (for context)
	Module  string      // RPC module, if known
	Method  string      // RPC method, if known
	Code    int         // JSON-RPC error code or nonzero result status
	Message string      // Human-readable error message
	Err     error       // Underlying error (if any)
}

// Error implements the error interface
func (e *CallError) Error() string {
	where := e.Address
	if e.Module != "" {
		where = fmt.Sprintf("%s %s.%s", e.Address, e.Module, e.Method)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Kind, where, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, where, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CallError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError converts a transport error into an Unreachable
// CallError. Timeouts, refused connections and unreachable hosts all land
// here: from the prober's point of view they mean the same thing, the
// address does not host a responsive appliance.
func ClassifyNetworkError(err error, address string) *CallError {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Classify the underlying transport error instead
		return ClassifyNetworkError(urlErr.Err, address)
	}

	msg := "no response from device"
	switch {
	case os.IsTimeout(err):
		msg = "request timed out"
	case errors.Is(err, syscall.ECONNREFUSED):
		msg = "connection refused"
	case errors.Is(err, syscall.EHOSTUNREACH):
		msg = "host unreachable"
	case errors.Is(err, syscall.ENETUNREACH):
		msg = "network unreachable"
	default:
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Timeout() {
			msg = "request timed out"
		}
	}

	return &CallError{
		Kind:    FailureUnreachable,
		Address: address,
		Message: msg,
		Err:     err,
	}
}

// NewAuthError creates an authentication failure error
func NewAuthError(address, message string) *CallError {
	return &CallError{
		Kind:    FailureAuth,
		Address: address,
		Message: message,
	}
}

// NewSessionExpiredError creates a session expiry error
func NewSessionExpiredError(address, module, method string) *CallError {
	return &CallError{
		Kind:    FailureSessionExpired,
		Address: address,
		Module:  module,
		Method:  method,
		Code:    CodeSessionExpired,
		Message: "session expired",
	}
}

// NewProtocolError creates a malformed-response error
func NewProtocolError(address, message string, err error) *CallError {
	return &CallError{
		Kind:    FailureProtocol,
		Address: address,
		Message: message,
		Err:     err,
	}
}

// NewDeviceError creates an error for a well-formed failure response
func NewDeviceError(address, module, method string, code int, message string) *CallError {
	return &CallError{
		Kind:    FailureDevice,
		Address: address,
		Module:  module,
		Method:  method,
		Code:    code,
		Message: message,
	}
}

// kindOf extracts the failure kind from an error chain.
// The second return is false for errors that are not CallErrors.
func kindOf(err error) (FailureKind, bool) {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind, true
	}
	return 0, false
}

// IsUnreachable checks if an error means the device did not respond
func IsUnreachable(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureUnreachable
}

// IsAuthFailure checks if an error is a rejected login
func IsAuthFailure(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureAuth
}

// IsSessionExpired checks if an error is the recoverable expiry signal
func IsSessionExpired(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureSessionExpired
}

// IsProtocolError checks if an error is a malformed response
func IsProtocolError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureProtocol
}

// IsDeviceError checks if an error is a device-reported failure
func IsDeviceError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == FailureDevice
}

// ShortErrorMessage returns a concise, user-friendly message for an error,
// suitable for a per-device outcome table cell.
func ShortErrorMessage(err error) string {
	var callErr *CallError
	if !errors.As(err, &callErr) {
		return err.Error()
	}

	switch callErr.Kind {
	case FailureUnreachable:
		return "unreachable (" + callErr.Message + ")"
	case FailureAuth:
		return "login rejected"
	case FailureSessionExpired:
		return "session expired (retry exhausted)"
	case FailureProtocol:
		return "malformed response"
	case FailureDevice:
		return fmt.Sprintf("device error %d: %s", callErr.Code, callErr.Message)
	default:
		return callErr.Message
	}
}
