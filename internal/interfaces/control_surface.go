// File: internal/interfaces/control_surface.go
package interfaces

import (
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// EntryReader provides read access to the entries of the control surface
type EntryReader interface {
	// ListEntries enumerates all entries of a kind in surface order
	ListEntries(kind types.EntryKind) ([]types.ControlPlaneEntry, error)

	// ReadName returns the device identifier bound to an entry
	ReadName(entry types.ControlPlaneEntry) (string, error)

	// ReadRawStats returns the unparsed counter text of an entry
	ReadRawStats(entry types.ControlPlaneEntry) (string, error)
}

// CommandWriter issues attach/detach requests to the engine
type CommandWriter interface {
	// WriteCommand appends "<verb> <device>" to the channel of the given kind
	WriteCommand(kind types.EntryKind, verb types.CommandVerb, device string) error
}

// ControlSurface is the complete accessor for the engine's control surface
type ControlSurface interface {
	EntryReader
	CommandWriter

	// Present reports whether the engine's command channels exist
	Present() bool
}

// DeviceResolver maps a device name to the target entry representing it
type DeviceResolver interface {
	// Resolve returns the matching target entry, or found=false
	Resolve(deviceID string) (entry types.ControlPlaneEntry, found bool, err error)
}

// StatisticsParser turns raw counter text into a validated snapshot
type StatisticsParser interface {
	// Parse fails as a whole when any required counter is missing or invalid
	Parse(raw string) (types.StatisticsSnapshot, error)

	// ParseEntry reads and parses the counters of one entry
	ParseEntry(surface EntryReader, entry types.ControlPlaneEntry) (types.StatisticsSnapshot, error)
}
