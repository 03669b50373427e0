package devices

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// FormatList writes a device listing in the requested format. The table
// format prints one bound device name per line.
func FormatList(w io.Writer, response *ListResponse, format app.OutputFormat, showEntries bool) error {
	switch format {
	case app.OutputJSON:
		return formatJSON(w, response)
	case app.OutputYAML:
		return formatYAML(w, response)
	case app.OutputTable:
		return formatTable(w, response, showEntries)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatResponse writes the outcome of an add/remove in structured formats.
// Table output already got the intent line from the handler.
func FormatResponse(w io.Writer, response *Response, format app.OutputFormat) error {
	switch format {
	case app.OutputJSON:
		return formatJSON(w, response)
	case app.OutputYAML:
		return formatYAML(w, response)
	case app.OutputTable:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(w io.Writer, response *ListResponse, showEntries bool) error {
	if !showEntries {
		for _, d := range response.Devices {
			if _, err := fmt.Fprintln(w, d.Device); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "DEVICE\tENTRY\n")
	for _, d := range response.Devices {
		fmt.Fprintf(tw, "%s\t%s\n", d.Device, d.Entry.ID)
	}
	return tw.Flush()
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
