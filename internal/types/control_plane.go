// Package types holds the data model shared between the control surface,
// the statistics parser and the command handlers.
package types

import "fmt"

// EntryKind identifies which side of the cache a control-plane entry belongs to.
type EntryKind int

const (
	// EntryKindCache is a fast-tier device contributing cache capacity
	EntryKindCache EntryKind = iota
	// EntryKindTarget is a backing device whose I/O is being cached
	EntryKindTarget
)

// String returns the channel name the engine uses for the kind
func (k EntryKind) String() string {
	switch k {
	case EntryKindCache:
		return "cache"
	case EntryKindTarget:
		return "target"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// CommandVerb is a verb accepted on a command channel.
type CommandVerb string

const (
	// VerbAdd asks the engine to attach a device
	VerbAdd CommandVerb = "add"
	// VerbRemove asks the engine to detach a device
	VerbRemove CommandVerb = "rm"
)

// ControlPlaneEntry is a node in the engine's control surface representing one
// attached device. Entries are created and destroyed by the engine only.
type ControlPlaneEntry struct {
	// ID is the engine-assigned directory name, e.g. "sdb-8.16"
	ID string `json:"id" yaml:"id"`

	// Path is the opaque location of the entry on the control surface
	Path string `json:"path" yaml:"path"`

	// Kind tells whether the entry is a cache or target device
	Kind EntryKind `json:"-" yaml:"-"`
}

// DeviceEntry pairs a control-plane entry with the device name bound to it.
type DeviceEntry struct {
	Entry  ControlPlaneEntry `json:"entry" yaml:"entry"`
	Device string            `json:"device" yaml:"device"`
}
