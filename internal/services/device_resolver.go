package services

import (
	"fmt"

	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// DeviceResolver maps an operator-supplied device name to its target entry.
type DeviceResolver struct {
	surface interfaces.EntryReader
}

// NewDeviceResolver creates a resolver over the given control surface.
func NewDeviceResolver(surface interfaces.EntryReader) *DeviceResolver {
	return &DeviceResolver{surface: surface}
}

// Resolve returns the first target entry whose bound name equals deviceID.
// Names are compared verbatim: "/dev/sdb" and a symlink to it are different
// devices here. A miss is reported through found, not through err.
func (r *DeviceResolver) Resolve(deviceID string) (entry types.ControlPlaneEntry, found bool, err error) {
	entries, err := r.surface.ListEntries(types.EntryKindTarget)
	if err != nil {
		return types.ControlPlaneEntry{}, false, fmt.Errorf("failed to enumerate target entries: %w", err)
	}

	for _, e := range entries {
		name, err := r.surface.ReadName(e)
		if err != nil {
			return types.ControlPlaneEntry{}, false, fmt.Errorf("failed to read name of entry %s: %w", e.ID, err)
		}
		if name == deviceID {
			return e, true, nil
		}
	}

	return types.ControlPlaneEntry{}, false, nil
}

// ListDevices returns every entry of a kind together with its bound name.
func ListDevices(surface interfaces.EntryReader, kind types.EntryKind) ([]types.DeviceEntry, error) {
	entries, err := surface.ListEntries(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s entries: %w", kind, err)
	}

	devices := make([]types.DeviceEntry, 0, len(entries))
	for _, e := range entries {
		name, err := surface.ReadName(e)
		if err != nil {
			return nil, fmt.Errorf("failed to read name of entry %s: %w", e.ID, err)
		}
		devices = append(devices, types.DeviceEntry{Entry: e, Device: name})
	}

	return devices, nil
}
