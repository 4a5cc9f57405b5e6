package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Startup errors
	ErrCodeNoHomeDir            ErrorCode = "NO_HOME_DIR"
	ErrCodeNoRuntimeDir         ErrorCode = "NO_RUNTIME_DIR"
	ErrCodeNoStorefrontDir      ErrorCode = "NO_STOREFRONT_DIR"
	ErrCodeNoApplicationsDir    ErrorCode = "NO_APPLICATIONS_DIR"
	ErrCodeSocketBindFailed     ErrorCode = "SOCKET_BIND_FAILED"
	ErrCodeWatchFailed          ErrorCode = "WATCH_FAILED"
	ErrCodeDaemonAlreadyRunning ErrorCode = "DAEMON_ALREADY_RUNNING"

	// Runtime errors
	ErrCodePostStepFailed       ErrorCode = "POST_STEP_FAILED"
	ErrCodeTriggerChannelClosed ErrorCode = "TRIGGER_CHANNEL_CLOSED"
	ErrCodeLoadFailed           ErrorCode = "LOAD_FAILED"
	ErrCodeIconNotFound         ErrorCode = "ICON_NOT_FOUND"
	ErrCodeNameCollision        ErrorCode = "NAME_COLLISION"

	// Client errors
	ErrCodeDaemonNotRunning ErrorCode = "DAEMON_NOT_RUNNING"
	ErrCodeSocketDial       ErrorCode = "SOCKET_DIAL_FAILED"
	ErrCodeSocketWrite      ErrorCode = "SOCKET_WRITE_FAILED"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// exitCodes maps codes to process exit statuses. Codes not listed exit with 1.
var exitCodes = map[ErrorCode]int{
	ErrCodeNoHomeDir:            2,
	ErrCodeNoRuntimeDir:         3,
	ErrCodeNoStorefrontDir:      4,
	ErrCodeNoApplicationsDir:    5,
	ErrCodeSocketBindFailed:     6,
	ErrCodeWatchFailed:          7,
	ErrCodePostStepFailed:       8,
	ErrCodeTriggerChannelClosed: 9,
	ErrCodeDaemonNotRunning:     10,
	ErrCodeDaemonAlreadyRunning: 11,
	ErrCodeConfigInvalid:        12,
	ErrCodeSocketDial:           13,
	ErrCodeSocketWrite:          14,
}

// SyncError represents a structured error with context
type SyncError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SyncError) WithDetail(key string, value interface{}) *SyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SyncError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SyncError
func New(code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SyncError
func Wrap(err error, code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific SyncError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	syncErr, ok := err.(*SyncError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if syncErr.Code == code {
		return true
	}
	return Is(syncErr.Cause, code)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	syncErr, ok := err.(*SyncError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return syncErr.Code
}

// ExitCode returns the process exit status for err. A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[GetCode(err)]; ok {
		return code
	}
	return 1
}
