package statistics

import (
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// Derive computes the operator-facing metrics of a snapshot. Volumes are
// truncated to whole MiB; a ratio with a zero denominator is reported as 0.
func Derive(s types.StatisticsSnapshot) types.DerivedMetrics {
	return types.DerivedMetrics{
		AllocatedMB:          sectorsToMiB(s.AllocatedSectors),
		ValidDataPct:         percentage(s.ValidSectors, s.AllocatedSectors),
		ReadIOs:              s.Reads,
		ReadMB:               sectorsToMiB(s.ReadSectors),
		ReadHitRatePct:       percentage(s.ReadHits, s.Reads),
		WriteIOs:             s.Writes,
		WriteMB:              sectorsToMiB(s.WriteSectors),
		WriteInvalidationPct: percentage(s.WriteHits, s.Writes),
	}
}

func sectorsToMiB(sectors uint64) uint64 {
	return sectors / types.SectorsPerMiB
}

func percentage(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * types.PercentageUnit / float64(whole)
}
