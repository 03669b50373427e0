package devices

import (
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// Request represents an attach or detach request for one device
type Request struct {
	Kind   types.EntryKind
	Verb   types.CommandVerb
	Device string
}

// Response describes the command handed to the engine
type Response struct {
	Channel string `json:"channel" yaml:"channel"`
	Verb    string `json:"verb" yaml:"verb"`
	Device  string `json:"device" yaml:"device"`
}

// ListRequest represents a request to list attached devices of one kind
type ListRequest struct {
	Kind types.EntryKind
}

// ListResponse holds the attached devices in surface order
type ListResponse struct {
	Kind    string              `json:"kind" yaml:"kind"`
	Devices []types.DeviceEntry `json:"devices" yaml:"devices"`
}

// intent returns the progress line printed before a command is written
func (r *Request) intent() string {
	action := "Adding"
	if r.Verb == types.VerbRemove {
		action = "Removing"
	}
	return action + " " + r.Kind.String() + " device " + r.Device
}
