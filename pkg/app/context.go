package app

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-iostash/internal/log"
)

// Context holds per-invocation configuration and state
type Context struct {
	context.Context

	// InvocationID tags every log line of one invocation
	InvocationID string

	// Output preferences
	OutputFormat OutputFormat
	Verbose      bool
	Quiet        bool

	// Out receives command output, ErrOut receives user-facing diagnostics
	Out    io.Writer
	ErrOut io.Writer

	Logger log.Logger
}

// NewContext creates a new application context writing to stdout/stderr
func NewContext() *Context {
	return &Context{
		Context:      context.Background(),
		InvocationID: uuid.NewString(),
		OutputFormat: OutputTable,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		Logger:       log.GetLogger(),
	}
}

// fields merges the invocation ID into a log field set
func (c *Context) fields(fields map[string]any) map[string]any {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["invocation"] = c.InvocationID
	return merged
}

// Debug logs a diagnostic message for this invocation
func (c *Context) Debug(fields map[string]any, msg string) {
	c.Logger.Debug(c.fields(fields), msg)
}

// Info logs an informational message for this invocation
func (c *Context) Info(fields map[string]any, msg string) {
	c.Logger.Info(c.fields(fields), msg)
}

// Warn logs a warning for this invocation
func (c *Context) Warn(fields map[string]any, msg string) {
	c.Logger.Warn(c.fields(fields), msg)
}

// Report writes a user-facing progress line unless quiet. Structured output
// formats own stdout, so their progress lines go to ErrOut.
func (c *Context) Report(message string) error {
	if c.Quiet {
		return nil
	}
	w := c.Out
	if c.OutputFormat != OutputTable {
		w = c.ErrOut
	}
	_, err := io.WriteString(w, message+"\n")
	return err
}

// Error writes a user-facing diagnostic unless quiet
func (c *Context) Error(message string) error {
	if c.Quiet {
		return nil
	}
	_, err := io.WriteString(c.ErrOut, message+"\n")
	return err
}
