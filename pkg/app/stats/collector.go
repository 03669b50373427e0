package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/deploymenttheory/go-iostash/internal/types"
)

// reportCollector implements prometheus.Collector over a finished report.
type reportCollector struct {
	report *Report

	allocatedBytes  *prometheus.Desc
	validBytes      *prometheus.Desc
	populations     *prometheus.Desc
	readsTotal      *prometheus.Desc
	readBytesTotal  *prometheus.Desc
	readHitsTotal   *prometheus.Desc
	writesTotal     *prometheus.Desc
	writeBytesTotal *prometheus.Desc
	writeInvalTotal *prometheus.Desc

	// Derived ratios
	validDataRatio         *prometheus.Desc
	readHitRatio           *prometheus.Desc
	writeInvalidationRatio *prometheus.Desc
}

var deviceLabels = []string{"device", "entry"}

func newReportCollector(r *Report) *reportCollector {
	return &reportCollector{
		report: r,

		allocatedBytes: prometheus.NewDesc(
			"iostash_allocated_bytes",
			"Cache space allocated to the target.",
			deviceLabels, nil,
		),
		validBytes: prometheus.NewDesc(
			"iostash_valid_bytes",
			"Cache space holding valid data for the target.",
			deviceLabels, nil,
		),
		populations: prometheus.NewDesc(
			"iostash_populations_total",
			"Cache populations performed for the target.",
			deviceLabels, nil,
		),
		readsTotal: prometheus.NewDesc(
			"iostash_reads_total",
			"Read requests issued to the target.",
			deviceLabels, nil,
		),
		readBytesTotal: prometheus.NewDesc(
			"iostash_read_bytes_total",
			"Bytes read from the target.",
			deviceLabels, nil,
		),
		readHitsTotal: prometheus.NewDesc(
			"iostash_read_hits_total",
			"Read requests served from cache.",
			deviceLabels, nil,
		),
		writesTotal: prometheus.NewDesc(
			"iostash_writes_total",
			"Write requests issued to the target.",
			deviceLabels, nil,
		),
		writeBytesTotal: prometheus.NewDesc(
			"iostash_write_bytes_total",
			"Bytes written to the target.",
			deviceLabels, nil,
		),
		writeInvalTotal: prometheus.NewDesc(
			"iostash_write_invalidations_total",
			"Writes that invalidated cached data.",
			deviceLabels, nil,
		),

		validDataRatio: prometheus.NewDesc(
			"iostash_valid_data_ratio",
			"Share of allocated cache space holding valid data.",
			deviceLabels, nil,
		),
		readHitRatio: prometheus.NewDesc(
			"iostash_read_hit_ratio",
			"Share of reads served from cache.",
			deviceLabels, nil,
		),
		writeInvalidationRatio: prometheus.NewDesc(
			"iostash_write_invalidation_ratio",
			"Share of writes that invalidated cached data.",
			deviceLabels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *reportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocatedBytes
	ch <- c.validBytes
	ch <- c.populations
	ch <- c.readsTotal
	ch <- c.readBytesTotal
	ch <- c.readHitsTotal
	ch <- c.writesTotal
	ch <- c.writeBytesTotal
	ch <- c.writeInvalTotal
	ch <- c.validDataRatio
	ch <- c.readHitRatio
	ch <- c.writeInvalidationRatio
}

// Collect implements prometheus.Collector.
func (c *reportCollector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.report.Devices {
		labels := []string{d.Device, d.Entry.ID}
		s := d.Snapshot

		ch <- prometheus.MustNewConstMetric(c.allocatedBytes, prometheus.GaugeValue, sectorBytes(s.AllocatedSectors), labels...)
		ch <- prometheus.MustNewConstMetric(c.validBytes, prometheus.GaugeValue, sectorBytes(s.ValidSectors), labels...)
		ch <- prometheus.MustNewConstMetric(c.populations, prometheus.CounterValue, float64(s.Populations), labels...)
		ch <- prometheus.MustNewConstMetric(c.readsTotal, prometheus.CounterValue, float64(s.Reads), labels...)
		ch <- prometheus.MustNewConstMetric(c.readBytesTotal, prometheus.CounterValue, sectorBytes(s.ReadSectors), labels...)
		ch <- prometheus.MustNewConstMetric(c.readHitsTotal, prometheus.CounterValue, float64(s.ReadHits), labels...)
		ch <- prometheus.MustNewConstMetric(c.writesTotal, prometheus.CounterValue, float64(s.Writes), labels...)
		ch <- prometheus.MustNewConstMetric(c.writeBytesTotal, prometheus.CounterValue, sectorBytes(s.WriteSectors), labels...)
		ch <- prometheus.MustNewConstMetric(c.writeInvalTotal, prometheus.CounterValue, float64(s.WriteHits), labels...)

		m := d.Metrics
		ch <- prometheus.MustNewConstMetric(c.validDataRatio, prometheus.GaugeValue, ratio(m.ValidDataPct), labels...)
		ch <- prometheus.MustNewConstMetric(c.readHitRatio, prometheus.GaugeValue, ratio(m.ReadHitRatePct), labels...)
		ch <- prometheus.MustNewConstMetric(c.writeInvalidationRatio, prometheus.GaugeValue, ratio(m.WriteInvalidationPct), labels...)
	}
}

func ratio(pct float64) float64 {
	return pct / types.PercentageUnit
}

func sectorBytes(sectors uint64) float64 {
	return float64(sectors) * types.SectorSize
}

// NewRegistry returns a registry exposing the given report.
func NewRegistry(r *Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(newReportCollector(r)); err != nil {
		return nil, err
	}
	return reg, nil
}

// WriteTextfile writes the report to path in the node exporter textfile
// format. The file is replaced atomically.
func WriteTextfile(path string, r *Report) error {
	reg, err := NewRegistry(r)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
