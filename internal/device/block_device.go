// Package device inspects host block devices and activates the engine module.
package device

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrNotBlockDevice is returned for device paths that cannot be attached.
var ErrNotBlockDevice = errors.New("not a block device")

// BlockDevice describes a validated block device node.
type BlockDevice struct {
	Path  string `json:"path"`
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
}

// statFunc is swapped in tests; creating device nodes needs root.
var statFunc = unix.Stat

// Inspect stats path and returns its device numbers. Symlinks are followed,
// so /dev/disk/by-id/... names are accepted.
func Inspect(path string) (*BlockDevice, error) {
	if path == "" {
		return nil, fmt.Errorf("empty device path: %w", ErrNotBlockDevice)
	}

	var st unix.Stat_t
	if err := statFunc(path, &st); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrNotBlockDevice)
	}

	if uint32(st.Mode)&unix.S_IFMT != unix.S_IFBLK {
		return nil, fmt.Errorf("%s: %w", path, ErrNotBlockDevice)
	}

	rdev := uint64(st.Rdev)
	return &BlockDevice{
		Path:  path,
		Major: unix.Major(rdev),
		Minor: unix.Minor(rdev),
	}, nil
}

// BlockDeviceChecker validates device paths against the live system.
type BlockDeviceChecker struct{}

// CheckBlockDevice fails unless path names an existing block device.
func (BlockDeviceChecker) CheckBlockDevice(path string) error {
	_, err := Inspect(path)
	return err
}
