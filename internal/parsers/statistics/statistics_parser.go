// Package statistics parses engine counters and derives operator metrics.
package statistics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// counterField binds a required label to the snapshot field it fills.
type counterField struct {
	label string
	dst   func(*types.StatisticsSnapshot) *uint64
}

// StatisticsParser parses the engine's "Label: value" counter text.
type StatisticsParser struct {
	fields []counterField
}

// NewStatisticsParser creates a parser for the given label table.
func NewStatisticsParser(labels config.LabelConfig) (*StatisticsParser, error) {
	fields := []counterField{
		{labels.Allocated, func(s *types.StatisticsSnapshot) *uint64 { return &s.AllocatedSectors }},
		{labels.Valid, func(s *types.StatisticsSnapshot) *uint64 { return &s.ValidSectors }},
		{labels.Populations, func(s *types.StatisticsSnapshot) *uint64 { return &s.Populations }},
		{labels.Reads, func(s *types.StatisticsSnapshot) *uint64 { return &s.Reads }},
		{labels.ReadSectors, func(s *types.StatisticsSnapshot) *uint64 { return &s.ReadSectors }},
		{labels.ReadHits, func(s *types.StatisticsSnapshot) *uint64 { return &s.ReadHits }},
		{labels.Writes, func(s *types.StatisticsSnapshot) *uint64 { return &s.Writes }},
		{labels.WriteSectors, func(s *types.StatisticsSnapshot) *uint64 { return &s.WriteSectors }},
		{labels.WriteInvalidates, func(s *types.StatisticsSnapshot) *uint64 { return &s.WriteHits }},
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.label == "" {
			return nil, fmt.Errorf("statistics label table contains an empty label")
		}
		if seen[f.label] {
			return nil, fmt.Errorf("statistics label %q is used for more than one counter", f.label)
		}
		seen[f.label] = true
	}

	return &StatisticsParser{fields: fields}, nil
}

// Parse builds a snapshot from raw counter text. Line order and unrelated lines
// do not matter; a missing, empty or non-numeric required counter fails the
// whole parse.
func (p *StatisticsParser) Parse(raw string) (types.StatisticsSnapshot, error) {
	values := parseLabeledLines(raw)

	var snap types.StatisticsSnapshot
	for _, f := range p.fields {
		value, ok := values[f.label]
		if !ok {
			return types.StatisticsSnapshot{}, &types.MalformedStatsError{Label: f.label, Reason: "missing counter"}
		}
		if value == "" {
			return types.StatisticsSnapshot{}, &types.MalformedStatsError{Label: f.label, Reason: "empty value"}
		}

		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return types.StatisticsSnapshot{}, &types.MalformedStatsError{Label: f.label, Value: value, Reason: "not a non-negative integer"}
		}
		*f.dst(&snap) = n
	}

	return snap, nil
}

// ParseEntry reads and parses the statistics of one control-plane entry.
func (p *StatisticsParser) ParseEntry(surface interfaces.EntryReader, entry types.ControlPlaneEntry) (types.StatisticsSnapshot, error) {
	raw, err := surface.ReadRawStats(entry)
	if err != nil {
		return types.StatisticsSnapshot{}, fmt.Errorf("failed to read statistics of entry %s: %w", entry.ID, err)
	}

	snap, err := p.Parse(raw)
	if err != nil {
		return types.StatisticsSnapshot{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	return snap, nil
}

// parseLabeledLines maps each label to the text after its first ':'.
// The first occurrence of a label wins.
func parseLabeledLines(raw string) map[string]string {
	values := make(map[string]string)

	for _, line := range strings.Split(raw, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		if _, dup := values[label]; dup {
			continue
		}
		values[label] = strings.TrimSpace(value)
	}

	return values
}
