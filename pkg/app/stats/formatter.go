package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-iostash/internal/types"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// FormatDevice writes one device report as an aligned label/value table.
func FormatDevice(w io.Writer, s types.DeviceStatistics) error {
	m := s.Metrics

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Device:\t%s\n", s.Device)
	fmt.Fprintf(tw, "Allocated:\t%d MB\n", m.AllocatedMB)
	fmt.Fprintf(tw, "Valid data:\t%s\n", formatPct(m.ValidDataPct))
	fmt.Fprintf(tw, "Read I/Os:\t%d\n", m.ReadIOs)
	fmt.Fprintf(tw, "Read:\t%d MB\n", m.ReadMB)
	fmt.Fprintf(tw, "Read hit rate:\t%s\n", formatPct(m.ReadHitRatePct))
	fmt.Fprintf(tw, "Write I/Os:\t%d\n", m.WriteIOs)
	fmt.Fprintf(tw, "Written:\t%d MB\n", m.WriteMB)
	fmt.Fprintf(tw, "Write invalidations:\t%s\n", formatPct(m.WriteInvalidationPct))
	return tw.Flush()
}

// TableEmitter streams device reports to w, separated by blank lines.
func TableEmitter(w io.Writer) Emitter {
	first := true
	return func(s types.DeviceStatistics) error {
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		return FormatDevice(w, s)
	}
}

// FormatStat writes a single device report in the requested format.
func FormatStat(w io.Writer, s *types.DeviceStatistics, format app.OutputFormat) error {
	switch format {
	case app.OutputTable:
		return FormatDevice(w, *s)
	case app.OutputJSON:
		return formatJSON(w, s)
	case app.OutputYAML:
		return formatYAML(w, s)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatReport writes a collected report in a structured format. Table
// output is streamed through TableEmitter instead.
func FormatReport(w io.Writer, r *Report, format app.OutputFormat) error {
	switch format {
	case app.OutputTable:
		return nil
	case app.OutputJSON:
		return formatJSON(w, r)
	case app.OutputYAML:
		return formatYAML(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func formatJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(v)
}
