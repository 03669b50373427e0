package app

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-iostash/internal/device"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// OutputFormat selects how command results are rendered
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a user-supplied output format
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("unsupported output format: %s", s), nil)
	}
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error

	// Status is the process exit status for this error
	Status int
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeDeviceNotFound   = "DEVICE_NOT_FOUND"
	ErrCodeBadStatistics    = "BAD_STATISTICS"
	ErrCodeControlSurfaceIO = "CONTROL_SURFACE_IO"
	ErrCodePermission       = "PERMISSION_DENIED"
	ErrCodeEngineActivation = "ENGINE_ACTIVATION"
)

// NewError creates a new CommonError exiting with status 1
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Status:  1,
	}
}

// FromError classifies an error from the lower layers into a CommonError.
// Errors that already are CommonErrors are returned unchanged.
func FromError(err error) *CommonError {
	if err == nil {
		return nil
	}

	var ce *CommonError
	if errors.As(err, &ce) {
		return ce
	}

	var malformed *types.MalformedStatsError
	if errors.As(err, &malformed) {
		return NewError(ErrCodeBadStatistics, "bad statistics file", err)
	}

	var ioErr *types.IOError
	if errors.As(err, &ioErr) {
		msg := "control surface access failed"
		if errno := ioErr.Errno(); errno != 0 {
			msg = fmt.Sprintf("control surface access failed (errno %d)", int(errno))
		}
		return NewError(ErrCodeControlSurfaceIO, msg, err)
	}

	var actErr *device.ActivationError
	if errors.As(err, &actErr) {
		ce := NewError(ErrCodeEngineActivation, "caching engine could not be activated", err)
		ce.Status = actErr.Status
		return ce
	}

	if errors.Is(err, device.ErrNotBlockDevice) {
		return NewError(ErrCodeInvalidInput, "invalid device", err)
	}

	return NewError(ErrCodeControlSurfaceIO, "operation failed", err)
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	ce := FromError(err)
	if ce.Status <= 0 {
		return 1
	}
	return ce.Status
}

// HasCode reports whether err classifies to the given code
func HasCode(err error, code string) bool {
	ce := FromError(err)
	return ce != nil && ce.Code == code
}
