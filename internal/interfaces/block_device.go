// File: internal/interfaces/block_device.go
package interfaces

// BlockDeviceChecker validates operator-supplied device paths
type BlockDeviceChecker interface {
	// CheckBlockDevice fails unless path names an existing block device
	CheckBlockDevice(path string) error
}

// PrivilegeChecker reports whether the process may drive the engine
type PrivilegeChecker interface {
	// IsPrivileged returns true when running with elevated privilege
	IsPrivileged() bool
}

// ModuleLoader activates the caching engine
type ModuleLoader interface {
	// Load asks the system to load the named kernel module
	Load(module string) error
}
