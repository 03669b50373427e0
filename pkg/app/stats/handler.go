package stats

import (
	"fmt"

	"github.com/deploymenttheory/go-iostash/internal/parsers/statistics"
	"github.com/deploymenttheory/go-iostash/internal/types"
	"github.com/deploymenttheory/go-iostash/pkg/app"
	"github.com/deploymenttheory/go-iostash/pkg/app/devices"
)

// HandleStat reports the statistics of one attached target device.
func HandleStat(ctx *app.Context, src Sources, req *StatRequest) (*types.DeviceStatistics, error) {
	if err := devices.ValidateDevice(src.Checker, req.Device); err != nil {
		return nil, err
	}

	entry, found, err := src.Resolver.Resolve(req.Device)
	if err != nil {
		return nil, app.FromError(err)
	}
	if !found {
		return nil, app.NewError(app.ErrCodeDeviceNotFound, fmt.Sprintf("%s is not a target device", req.Device), nil)
	}

	ctx.Debug(map[string]any{"device": req.Device, "entry": entry.ID}, "resolved target entry")

	stats, err := collect(src, entry, req.Device)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// HandleGlobal reports the statistics of every attached target device in
// surface order. Each device is passed to emit as soon as it is complete;
// the first failing device aborts the whole report, so devices after it are
// never emitted.
func HandleGlobal(ctx *app.Context, src Sources, req *GlobalRequest, emit Emitter) (*Report, error) {
	entries, err := src.Surface.ListEntries(types.EntryKindTarget)
	if err != nil {
		return nil, app.FromError(err)
	}

	report := &Report{Devices: make([]types.DeviceStatistics, 0, len(entries))}
	for _, entry := range entries {
		name, err := src.Surface.ReadName(entry)
		if err != nil {
			return nil, app.FromError(err)
		}

		stats, err := collect(src, entry, name)
		if err != nil {
			ctx.Debug(map[string]any{"entry": entry.ID, "error": err.Error()}, "aborting global statistics")
			return nil, err
		}

		if emit != nil {
			if err := emit(stats); err != nil {
				return nil, fmt.Errorf("failed to write statistics of %s: %w", name, err)
			}
		}
		report.Devices = append(report.Devices, stats)
	}

	if req.Textfile != "" {
		if err := WriteTextfile(req.Textfile, report); err != nil {
			return nil, app.NewError(app.ErrCodeControlSurfaceIO, "failed to write metrics textfile", err)
		}
		ctx.Debug(map[string]any{"path": req.Textfile, "devices": len(report.Devices)}, "wrote metrics textfile")
	}

	return report, nil
}

func collect(src Sources, entry types.ControlPlaneEntry, device string) (types.DeviceStatistics, error) {
	snap, err := src.Parser.ParseEntry(src.Surface, entry)
	if err != nil {
		return types.DeviceStatistics{}, app.FromError(err)
	}

	return types.DeviceStatistics{
		DeviceEntry: types.DeviceEntry{Entry: entry, Device: device},
		Snapshot:    snap,
		Metrics:     statistics.Derive(snap),
	}, nil
}
