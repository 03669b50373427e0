package statistics

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

var validLines = []string{
	"Allocated:4096",
	"Valid:2048",
	"Populations:10",
	"Read I/Os:100",
	"Read sectors:2048",
	"Read Cache Hits:50",
	"Write I/Os:0",
	"Write sectors:0",
	"Write Invalidates:0",
}

var validSnapshot = types.StatisticsSnapshot{
	AllocatedSectors: 4096,
	ValidSectors:     2048,
	Populations:      10,
	Reads:            100,
	ReadSectors:      2048,
	ReadHits:         50,
}

func newTestParser(t *testing.T) *StatisticsParser {
	t.Helper()
	p, err := NewStatisticsParser(config.DefaultLabels())
	require.NoError(t, err)
	return p
}

func TestNewStatisticsParser_InvalidLabelTable(t *testing.T) {
	empty := config.DefaultLabels()
	empty.Populations = ""
	_, err := NewStatisticsParser(empty)
	assert.Error(t, err)

	dup := config.DefaultLabels()
	dup.Writes = dup.Reads
	_, err = NewStatisticsParser(dup)
	assert.Error(t, err)
}

func TestParse_Valid(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "canonical order",
			raw:  strings.Join(validLines, "\n"),
		},
		{
			name: "reversed order with trailing newline",
			raw:  strings.Join(reverse(validLines), "\n") + "\n",
		},
		{
			name: "unrelated lines interleaved",
			raw: "iostash statistics\n" + strings.Join(validLines[:4], "\n") +
				"\nCache state: online\n\n" + strings.Join(validLines[4:], "\n"),
		},
		{
			name: "whitespace around labels and values",
			raw:  strings.ReplaceAll(strings.Join(validLines, "\r\n"), ":", " :  "),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := p.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, validSnapshot, snap)
		})
	}
}

func TestParse_PrefixLabelsAreDistinct(t *testing.T) {
	p := newTestParser(t)

	// "Read sectors" must not be satisfied by "Read sectors total" or "Read"
	lines := append([]string{"Read sectors total:9", "Read:7"}, validLines...)
	snap, err := p.Parse(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), snap.ReadSectors)
}

func TestParse_FirstOccurrenceWins(t *testing.T) {
	p := newTestParser(t)

	lines := append([]string{"Populations:3"}, validLines...)
	snap, err := p.Parse(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snap.Populations)
}

func TestParse_ValueAfterFirstDelimiter(t *testing.T) {
	p := newTestParser(t)

	lines := append([]string{}, validLines...)
	lines[2] = "Populations:10:extra"
	_, err := p.Parse(strings.Join(lines, "\n"))

	var malformed *types.MalformedStatsError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "10:extra", malformed.Value)
}

func TestParse_FailsClosedOnEachMissingLabel(t *testing.T) {
	p := newTestParser(t)

	for i, line := range validLines {
		label := strings.SplitN(line, ":", 2)[0]
		t.Run(label, func(t *testing.T) {
			lines := append(append([]string{}, validLines[:i]...), validLines[i+1:]...)

			snap, err := p.Parse(strings.Join(lines, "\n"))
			require.Error(t, err)
			assert.Equal(t, types.StatisticsSnapshot{}, snap)

			var malformed *types.MalformedStatsError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, label, malformed.Label)
			assert.Contains(t, err.Error(), "bad statistics file")
		})
	}
}

func TestParse_InvalidValues(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name  string
		line  string
		label string
	}{
		{name: "empty value", line: "Valid:", label: "Valid"},
		{name: "blank value", line: "Valid:   ", label: "Valid"},
		{name: "negative", line: "Valid:-1", label: "Valid"},
		{name: "non-numeric", line: "Valid:lots", label: "Valid"},
		{name: "fractional", line: "Valid:1.5", label: "Valid"},
		{name: "overflow", line: "Valid:18446744073709551616", label: "Valid"},
		{name: "wrong case label", line: "valid:2048", label: "Valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string{}, validLines...)
			lines[1] = tt.line

			snap, err := p.Parse(strings.Join(lines, "\n"))
			require.Error(t, err)
			assert.Equal(t, types.StatisticsSnapshot{}, snap)

			var malformed *types.MalformedStatsError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.label, malformed.Label)
		})
	}
}

func TestParse_CustomLabels(t *testing.T) {
	labels := config.DefaultLabels()
	labels.ReadHits = "Read Hits"

	p, err := NewStatisticsParser(labels)
	require.NoError(t, err)

	lines := append([]string{}, validLines...)
	lines[5] = "Read Hits:50"
	snap, err := p.Parse(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(50), snap.ReadHits)
}

type rawStatsReader struct {
	raw string
	err error
}

func (r rawStatsReader) ListEntries(types.EntryKind) ([]types.ControlPlaneEntry, error) {
	return nil, nil
}

func (r rawStatsReader) ReadName(types.ControlPlaneEntry) (string, error) {
	return "", nil
}

func (r rawStatsReader) ReadRawStats(types.ControlPlaneEntry) (string, error) {
	return r.raw, r.err
}

func TestParseEntry(t *testing.T) {
	p := newTestParser(t)
	entry := types.ControlPlaneEntry{ID: "sdb-8.16"}

	snap, err := p.ParseEntry(rawStatsReader{raw: strings.Join(validLines, "\n")}, entry)
	require.NoError(t, err)
	assert.Equal(t, validSnapshot, snap)

	ioErr := &types.IOError{Op: "read", Path: "stats", Err: errors.New("gone")}
	_, err = p.ParseEntry(rawStatsReader{err: ioErr}, entry)
	var gotIO *types.IOError
	assert.True(t, errors.As(err, &gotIO))

	_, err = p.ParseEntry(rawStatsReader{raw: "Allocated:1"}, entry)
	var malformed *types.MalformedStatsError
	assert.True(t, errors.As(err, &malformed))
	assert.Contains(t, err.Error(), "sdb-8.16")
}

func reverse(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
