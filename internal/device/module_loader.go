package device

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ActivationError reports a failed attempt to load the engine module.
// Status is the loader's exit status, or 1 if it never ran.
type ActivationError struct {
	Module string
	Status int
	Output string
	Err    error
}

func (e *ActivationError) Error() string {
	msg := fmt.Sprintf("failed to load module %s: %v", e.Module, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// ModprobeLoader loads kernel modules by running modprobe.
type ModprobeLoader struct {
	// Path is the modprobe binary, looked up in PATH when not absolute
	Path string
}

// NewModprobeLoader creates a loader using the given modprobe binary.
func NewModprobeLoader(path string) *ModprobeLoader {
	if path == "" {
		path = "modprobe"
	}
	return &ModprobeLoader{Path: path}
}

// Load runs "modprobe <module>" and waits for it.
func (l *ModprobeLoader) Load(module string) error {
	if module == "" {
		return &ActivationError{Status: 1, Err: errors.New("module name cannot be empty")}
	}

	var stderr bytes.Buffer
	cmd := exec.Command(l.Path, module)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		status := 1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			status = exitErr.ExitCode()
		}
		return &ActivationError{
			Module: module,
			Status: status,
			Output: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return nil
}
