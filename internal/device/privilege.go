package device

import "golang.org/x/sys/unix"

// PrivilegeChecker checks the effective user of the process.
type PrivilegeChecker struct{}

// IsPrivileged returns true when running as root.
func (PrivilegeChecker) IsPrivileged() bool {
	return unix.Geteuid() == 0
}
