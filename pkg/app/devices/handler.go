package devices

import (
	"fmt"

	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/services"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// Handle validates an attach/detach request and hands it to the engine. The
// intent is reported before the write so a rejected write is still traceable.
// Success only means the engine accepted the command.
func Handle(ctx *app.Context, writer interfaces.CommandWriter, checker interfaces.BlockDeviceChecker, req *Request) (*Response, error) {
	if err := req.Validate(checker); err != nil {
		return nil, err
	}

	if err := ctx.Report(req.intent()); err != nil {
		return nil, fmt.Errorf("failed to report intent: %w", err)
	}
	ctx.Debug(map[string]any{
		"channel": req.Kind.String(),
		"verb":    string(req.Verb),
		"device":  req.Device,
	}, "writing engine command")

	if err := writer.WriteCommand(req.Kind, req.Verb, req.Device); err != nil {
		return nil, app.FromError(err)
	}

	return &Response{
		Channel: req.Kind.String(),
		Verb:    string(req.Verb),
		Device:  req.Device,
	}, nil
}

// HandleList enumerates the attached devices of one kind.
func HandleList(ctx *app.Context, reader interfaces.EntryReader, req *ListRequest) (*ListResponse, error) {
	devices, err := services.ListDevices(reader, req.Kind)
	if err != nil {
		return nil, app.FromError(err)
	}

	ctx.Debug(map[string]any{"kind": req.Kind.String(), "count": len(devices)}, "listed devices")

	return &ListResponse{
		Kind:    req.Kind.String(),
		Devices: devices,
	}, nil
}
