package types

// Sector geometry used by every capacity and volume counter the engine reports.
const (
	SectorSize     = 512
	SectorsPerMiB  = (1 << 20) / SectorSize
	PercentageUnit = 100
)

// Required statistics labels as printed by the engine.
const (
	LabelAllocated        = "Allocated"
	LabelValid            = "Valid"
	LabelPopulations      = "Populations"
	LabelReads            = "Read I/Os"
	LabelReadSectors      = "Read sectors"
	LabelReadHits         = "Read Cache Hits"
	LabelWrites           = "Write I/Os"
	LabelWriteSectors     = "Write sectors"
	LabelWriteInvalidates = "Write Invalidates"
)

// StatisticsSnapshot holds the raw counters of one entry at one point in time.
// A snapshot is only ever produced with all nine counters present.
type StatisticsSnapshot struct {
	AllocatedSectors uint64 `json:"allocated_sectors" yaml:"allocated_sectors"`
	ValidSectors     uint64 `json:"valid_sectors" yaml:"valid_sectors"`
	Populations      uint64 `json:"populations" yaml:"populations"`
	Reads            uint64 `json:"reads" yaml:"reads"`
	ReadSectors      uint64 `json:"read_sectors" yaml:"read_sectors"`
	ReadHits         uint64 `json:"read_hits" yaml:"read_hits"`
	Writes           uint64 `json:"writes" yaml:"writes"`
	WriteSectors     uint64 `json:"write_sectors" yaml:"write_sectors"`
	WriteHits        uint64 `json:"write_hits" yaml:"write_hits"`
}

// DerivedMetrics are the operator-facing figures computed from a snapshot.
// Volumes are whole MiB (truncated), percentages keep their fraction.
type DerivedMetrics struct {
	AllocatedMB          uint64  `json:"allocated_mb" yaml:"allocated_mb"`
	ValidDataPct         float64 `json:"valid_data_pct" yaml:"valid_data_pct"`
	ReadIOs              uint64  `json:"read_ios" yaml:"read_ios"`
	ReadMB               uint64  `json:"read_mb" yaml:"read_mb"`
	ReadHitRatePct       float64 `json:"read_hit_rate_pct" yaml:"read_hit_rate_pct"`
	WriteIOs             uint64  `json:"write_ios" yaml:"write_ios"`
	WriteMB              uint64  `json:"write_mb" yaml:"write_mb"`
	WriteInvalidationPct float64 `json:"write_invalidation_pct" yaml:"write_invalidation_pct"`
}

// DeviceStatistics is one statistics report for a target device.
type DeviceStatistics struct {
	DeviceEntry `yaml:",inline"`
	Snapshot    StatisticsSnapshot `json:"counters" yaml:"counters"`
	Metrics     DerivedMetrics     `json:"metrics" yaml:"metrics"`
}
