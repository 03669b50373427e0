package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/types"
)

// ControlSurface provides raw access to the caching engine's control surface.
// It performs no interpretation of what it reads.
type ControlSurface struct {
	fs  afero.Fs
	cfg config.SurfaceConfig
}

// NewControlSurface binds a control surface layout to a filesystem. Production
// code passes afero.NewOsFs(); tests pass an in-memory filesystem.
func NewControlSurface(fs afero.Fs, cfg config.SurfaceConfig) (*ControlSurface, error) {
	if fs == nil {
		return nil, fmt.Errorf("control surface filesystem cannot be nil")
	}
	if cfg.CommandDir == "" || cfg.CacheEntries == "" || cfg.TargetEntries == "" {
		return nil, fmt.Errorf("control surface paths cannot be empty")
	}
	if cfg.NameFile == "" || cfg.StatsFile == "" {
		return nil, fmt.Errorf("control surface file names cannot be empty")
	}

	return &ControlSurface{fs: fs, cfg: cfg}, nil
}

// Present reports whether the engine has published its command channels.
func (cs *ControlSurface) Present() bool {
	ok, err := afero.DirExists(cs.fs, cs.cfg.CommandDir)
	return err == nil && ok
}

// ListEntries enumerates the entries of one kind as the surface yields them.
func (cs *ControlSurface) ListEntries(kind types.EntryKind) ([]types.ControlPlaneEntry, error) {
	root, err := cs.entriesRoot(kind)
	if err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(cs.fs, root)
	if err != nil {
		return nil, &types.IOError{Op: "list", Path: root, Err: err}
	}

	entries := make([]types.ControlPlaneEntry, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		entries = append(entries, types.ControlPlaneEntry{
			ID:   info.Name(),
			Path: filepath.Join(root, info.Name()),
			Kind: kind,
		})
	}

	return entries, nil
}

// ReadName returns the device identifier bound to an entry.
func (cs *ControlSurface) ReadName(entry types.ControlPlaneEntry) (string, error) {
	data, err := cs.readAttribute(entry, cs.cfg.NameFile)
	if err != nil {
		return "", err
	}
	// the engine terminates the name with a newline
	return strings.TrimRight(string(data), "\r\n"), nil
}

// ReadRawStats returns the unparsed counter text of an entry.
func (cs *ControlSurface) ReadRawStats(entry types.ControlPlaneEntry) (string, error) {
	data, err := cs.readAttribute(entry, cs.cfg.StatsFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteCommand appends "<verb> <device>" to the channel of the given kind.
// The engine acts on the command asynchronously; a nil error only means the
// engine accepted the write.
func (cs *ControlSurface) WriteCommand(kind types.EntryKind, verb types.CommandVerb, device string) error {
	channel, err := cs.channelPath(kind)
	if err != nil {
		return err
	}

	switch verb {
	case types.VerbAdd, types.VerbRemove:
	default:
		return fmt.Errorf("unsupported command verb %q", verb)
	}

	f, err := cs.fs.OpenFile(channel, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return &types.IOError{Op: "open", Path: channel, Err: err}
	}

	line := fmt.Sprintf("%s %s\n", verb, device)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return &types.IOError{Op: "write", Path: channel, Err: err}
	}

	// sysfs may report the store result on close
	if err := f.Close(); err != nil {
		return &types.IOError{Op: "close", Path: channel, Err: err}
	}

	return nil
}

func (cs *ControlSurface) readAttribute(entry types.ControlPlaneEntry, file string) ([]byte, error) {
	path := filepath.Join(entry.Path, file)
	data, err := afero.ReadFile(cs.fs, path)
	if err != nil {
		return nil, &types.IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (cs *ControlSurface) entriesRoot(kind types.EntryKind) (string, error) {
	switch kind {
	case types.EntryKindCache:
		return cs.cfg.CacheEntries, nil
	case types.EntryKindTarget:
		return cs.cfg.TargetEntries, nil
	default:
		return "", fmt.Errorf("unknown entry kind %v", kind)
	}
}

func (cs *ControlSurface) channelPath(kind types.EntryKind) (string, error) {
	switch kind {
	case types.EntryKindCache:
		return filepath.Join(cs.cfg.CommandDir, cs.cfg.CacheChannel), nil
	case types.EntryKindTarget:
		return filepath.Join(cs.cfg.CommandDir, cs.cfg.TargetChannel), nil
	default:
		return "", fmt.Errorf("unknown entry kind %v", kind)
	}
}
