package services

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iostash/internal/config"
)

const testStats = `Allocated:4096
Valid:2048
Populations:10
Read I/Os:100
Read sectors:2048
Read Cache Hits:50
Write I/Os:0
Write sectors:0
Write Invalidates:0
`

// newTestSurface builds an in-memory control surface with empty channels and
// no attached devices.
func newTestSurface(t *testing.T) (afero.Fs, config.SurfaceConfig, *ControlSurface) {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg := config.Default().Surface

	require.NoError(t, fs.MkdirAll(cfg.CommandDir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(cfg.CommandDir, cfg.CacheChannel), nil, 0o200))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(cfg.CommandDir, cfg.TargetChannel), nil, 0o200))
	require.NoError(t, fs.MkdirAll(cfg.CacheEntries, 0o755))
	require.NoError(t, fs.MkdirAll(cfg.TargetEntries, 0o755))

	cs, err := NewControlSurface(fs, cfg)
	require.NoError(t, err)

	return fs, cfg, cs
}

// attach creates an entry directory the way the engine would after an add.
func attach(t *testing.T, fs afero.Fs, root, id, device, stats string) {
	t.Helper()

	dir := filepath.Join(root, id)
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "name"), []byte(device+"\n"), 0o444))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "stats"), []byte(stats), 0o444))
}
