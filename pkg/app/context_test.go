package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deploymenttheory/go-iostash/internal/log"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext()

	_, err := uuid.Parse(ctx.InvocationID)
	require.NoError(t, err)
	assert.Equal(t, OutputTable, ctx.OutputFormat)
	assert.NotEqual(t, ctx.InvocationID, NewContext().InvocationID)
}

func TestContext_ReportAndError(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := NewContext()
	ctx.Out = &out
	ctx.ErrOut = &errOut

	require.NoError(t, ctx.Report("Adding target device /dev/sdb"))
	require.NoError(t, ctx.Error("something odd"))
	assert.Equal(t, "Adding target device /dev/sdb\n", out.String())
	assert.Equal(t, "something odd\n", errOut.String())

	out.Reset()
	errOut.Reset()
	ctx.Quiet = true
	require.NoError(t, ctx.Report("hidden"))
	require.NoError(t, ctx.Error("hidden"))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestContext_ReportStructuredFormatsUseErrOut(t *testing.T) {
	for _, format := range []OutputFormat{OutputJSON, OutputYAML} {
		t.Run(string(format), func(t *testing.T) {
			var out, errOut bytes.Buffer
			ctx := NewContext()
			ctx.Out = &out
			ctx.ErrOut = &errOut
			ctx.OutputFormat = format

			require.NoError(t, ctx.Report("Removing cache device /dev/nvme0n1"))
			assert.Empty(t, out.String())
			assert.Equal(t, "Removing cache device /dev/nvme0n1\n", errOut.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestContext_WriteErrorsReturned(t *testing.T) {
	ctx := NewContext()
	ctx.Out = failingWriter{}
	ctx.ErrOut = failingWriter{}

	assert.Error(t, ctx.Report("Adding target device /dev/sdb"))
	assert.Error(t, ctx.Error("something odd"))
}

func TestContext_LogsCarryInvocationID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := NewContext()
	ctx.Logger = log.NewZapLogger(core)

	ctx.Debug(map[string]any{"device": "/dev/sdb"}, "resolved")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, ctx.InvocationID, fields["invocation"])
	assert.Equal(t, "/dev/sdb", fields["device"])
}
