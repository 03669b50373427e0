package devices

import (
	"fmt"

	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/types"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// Validate checks that the request names a real block device. Nothing is
// written to the engine unless this passes.
func (r *Request) Validate(checker interfaces.BlockDeviceChecker) error {
	switch r.Kind {
	case types.EntryKindCache, types.EntryKindTarget:
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unknown device kind %v", r.Kind), nil)
	}

	switch r.Verb {
	case types.VerbAdd, types.VerbRemove:
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unknown action %q", r.Verb), nil)
	}

	return ValidateDevice(checker, r.Device)
}

// ValidateDevice fails with an INVALID_INPUT error unless device is an
// existing block device.
func ValidateDevice(checker interfaces.BlockDeviceChecker, device string) error {
	if device == "" {
		return app.NewError(app.ErrCodeInvalidInput, "no device specified", nil)
	}

	if err := checker.CheckBlockDevice(device); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s is not a valid block device", device), err)
	}

	return nil
}
