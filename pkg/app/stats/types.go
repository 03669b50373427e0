package stats

import (
	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// Sources bundles what the statistics handlers read from
type Sources struct {
	Surface  interfaces.EntryReader
	Resolver interfaces.DeviceResolver
	Parser   interfaces.StatisticsParser
	Checker  interfaces.BlockDeviceChecker
}

// StatRequest asks for the statistics of one target device
type StatRequest struct {
	Device string
}

// GlobalRequest asks for the statistics of every target device
type GlobalRequest struct {
	// Textfile, when set, receives the report in Prometheus text format
	Textfile string
}

// Report is an ordered set of per-device statistics
type Report struct {
	Devices []types.DeviceStatistics `json:"devices" yaml:"devices"`
}

// Emitter receives each device report as soon as it is complete
type Emitter func(types.DeviceStatistics) error
