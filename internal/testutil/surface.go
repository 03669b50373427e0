// Package testutil builds simulated engine control surfaces for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/device"
	"github.com/deploymenttheory/go-iostash/internal/services"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// ValidStats is a complete statistics file with every required counter.
const ValidStats = `Allocated:4096
Valid:2048
Populations:10
Read I/Os:100
Read sectors:2048
Read Cache Hits:50
Write I/Os:0
Write sectors:0
Write Invalidates:0
`

// Surface is an in-memory control surface laid out like the engine's sysfs tree.
type Surface struct {
	t       *testing.T
	Fs      afero.Fs
	Config  config.SurfaceConfig
	Surface *services.ControlSurface
}

// NewSurface creates an engine surface with empty channels and no devices.
func NewSurface(t *testing.T) *Surface {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg := config.Default().Surface

	require.NoError(t, fs.MkdirAll(cfg.CommandDir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(cfg.CommandDir, cfg.CacheChannel), nil, 0o200))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(cfg.CommandDir, cfg.TargetChannel), nil, 0o200))
	require.NoError(t, fs.MkdirAll(cfg.CacheEntries, 0o755))
	require.NoError(t, fs.MkdirAll(cfg.TargetEntries, 0o755))

	cs, err := services.NewControlSurface(fs, cfg)
	require.NoError(t, err)

	return &Surface{t: t, Fs: fs, Config: cfg, Surface: cs}
}

// AttachTarget publishes a target entry as the engine would after "add".
func (s *Surface) AttachTarget(id, device, stats string) {
	s.t.Helper()
	s.attach(s.Config.TargetEntries, id, device, stats)
}

// AttachCache publishes a cache entry as the engine would after "add".
func (s *Surface) AttachCache(id, device string) {
	s.t.Helper()
	s.attach(s.Config.CacheEntries, id, device, ValidStats)
}

func (s *Surface) attach(root, id, device, stats string) {
	dir := filepath.Join(root, id)
	require.NoError(s.t, s.Fs.MkdirAll(dir, 0o755))
	require.NoError(s.t, afero.WriteFile(s.Fs, filepath.Join(dir, s.Config.NameFile), []byte(device+"\n"), 0o444))
	require.NoError(s.t, afero.WriteFile(s.Fs, filepath.Join(dir, s.Config.StatsFile), []byte(stats), 0o444))
}

// Channel returns everything written to the channel of a kind so far.
func (s *Surface) Channel(kind types.EntryKind) string {
	s.t.Helper()

	name := s.Config.CacheChannel
	if kind == types.EntryKindTarget {
		name = s.Config.TargetChannel
	}
	data, err := afero.ReadFile(s.Fs, filepath.Join(s.Config.CommandDir, name))
	require.NoError(s.t, err)
	return string(data)
}

// Unload removes the command channels, as if the engine was not loaded.
func (s *Surface) Unload() {
	s.t.Helper()
	require.NoError(s.t, s.Fs.RemoveAll(s.Config.CommandDir))
}

// Load recreates the command channels, as if the engine was just loaded.
func (s *Surface) Load() {
	require.NoError(s.t, s.Fs.MkdirAll(s.Config.CommandDir, 0o755))
	require.NoError(s.t, afero.WriteFile(s.Fs, filepath.Join(s.Config.CommandDir, s.Config.CacheChannel), nil, 0o200))
	require.NoError(s.t, afero.WriteFile(s.Fs, filepath.Join(s.Config.CommandDir, s.Config.TargetChannel), nil, 0o200))
}

// BlockDevices is a BlockDeviceChecker accepting a fixed set of paths.
type BlockDevices map[string]bool

// CheckBlockDevice accepts only paths present in the set.
func (b BlockDevices) CheckBlockDevice(path string) error {
	if !b[path] {
		return fmt.Errorf("%s: %w", path, device.ErrNotBlockDevice)
	}
	return nil
}

// Privilege is a PrivilegeChecker with a fixed answer.
type Privilege bool

// IsPrivileged returns the fixed answer.
func (p Privilege) IsPrivileged() bool {
	return bool(p)
}

// ModuleLoader records load requests. When Err is nil a load publishes the
// command channels of Surface, if set.
type ModuleLoader struct {
	Surface *Surface
	Err     error
	Loaded  []string
}

// Load records the module and simulates the engine coming up.
func (l *ModuleLoader) Load(module string) error {
	l.Loaded = append(l.Loaded, module)
	if l.Err != nil {
		return l.Err
	}
	if l.Surface != nil {
		l.Surface.Load()
	}
	return nil
}
