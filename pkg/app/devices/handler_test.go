package devices

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-iostash/internal/log"
	"github.com/deploymenttheory/go-iostash/internal/testutil"
	"github.com/deploymenttheory/go-iostash/internal/types"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

func newTestContext() (*app.Context, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	ctx := app.NewContext()
	ctx.Out = &out
	ctx.ErrOut = &errOut
	ctx.Logger = log.NewNoopLogger()
	return ctx, &out, &errOut
}

func TestHandle(t *testing.T) {
	blockDevs := testutil.BlockDevices{"/dev/nvme0n1": true, "/dev/sdb": true}

	tests := []struct {
		name       string
		request    *Request
		wantErr    bool
		errCode    string
		wantOutput string
		wantCache  string
		wantTarget string
	}{
		{
			name:       "cache add",
			request:    &Request{Kind: types.EntryKindCache, Verb: types.VerbAdd, Device: "/dev/nvme0n1"},
			wantOutput: "Adding cache device /dev/nvme0n1\n",
			wantCache:  "add /dev/nvme0n1\n",
		},
		{
			name:       "cache remove",
			request:    &Request{Kind: types.EntryKindCache, Verb: types.VerbRemove, Device: "/dev/nvme0n1"},
			wantOutput: "Removing cache device /dev/nvme0n1\n",
			wantCache:  "rm /dev/nvme0n1\n",
		},
		{
			name:       "target add",
			request:    &Request{Kind: types.EntryKindTarget, Verb: types.VerbAdd, Device: "/dev/sdb"},
			wantOutput: "Adding target device /dev/sdb\n",
			wantTarget: "add /dev/sdb\n",
		},
		{
			name:       "target remove",
			request:    &Request{Kind: types.EntryKindTarget, Verb: types.VerbRemove, Device: "/dev/sdb"},
			wantOutput: "Removing target device /dev/sdb\n",
			wantTarget: "rm /dev/sdb\n",
		},
		{
			name:    "target add on a non-block device",
			request: &Request{Kind: types.EntryKindTarget, Verb: types.VerbAdd, Device: "/dev/nvme9n9"},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "missing device",
			request: &Request{Kind: types.EntryKindCache, Verb: types.VerbAdd},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := testutil.NewSurface(t)
			ctx, out, _ := newTestContext()

			resp, err := Handle(ctx, surface.Surface, blockDevs, tt.request)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.True(t, app.HasCode(err, tt.errCode))
				assert.Equal(t, 1, app.ExitCode(err))
				// validation happens before anything reaches the engine
				assert.Empty(t, out.String())
				assert.Empty(t, surface.Channel(types.EntryKindCache))
				assert.Empty(t, surface.Channel(types.EntryKindTarget))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.request.Kind.String(), resp.Channel)
			assert.Equal(t, string(tt.request.Verb), resp.Verb)
			assert.Equal(t, tt.request.Device, resp.Device)
			assert.Equal(t, tt.wantOutput, out.String())
			assert.Equal(t, tt.wantCache, surface.Channel(types.EntryKindCache))
			assert.Equal(t, tt.wantTarget, surface.Channel(types.EntryKindTarget))
		})
	}
}

func TestHandle_EngineRejectsWrite(t *testing.T) {
	surface := testutil.NewSurface(t)
	surface.Unload()
	ctx, out, _ := newTestContext()

	req := &Request{Kind: types.EntryKindTarget, Verb: types.VerbAdd, Device: "/dev/sdb"}
	resp, err := Handle(ctx, surface.Surface, testutil.BlockDevices{"/dev/sdb": true}, req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, app.HasCode(err, app.ErrCodeControlSurfaceIO))
	// intent was reported before the failing write
	assert.Equal(t, "Adding target device /dev/sdb\n", out.String())
}

func TestHandle_QuietSuppressesIntent(t *testing.T) {
	surface := testutil.NewSurface(t)
	ctx, out, _ := newTestContext()
	ctx.Quiet = true

	req := &Request{Kind: types.EntryKindCache, Verb: types.VerbAdd, Device: "/dev/nvme0n1"}
	_, err := Handle(ctx, surface.Surface, testutil.BlockDevices{"/dev/nvme0n1": true}, req)

	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, "add /dev/nvme0n1\n", surface.Channel(types.EntryKindCache))
}

func TestHandle_StructuredOutputKeepsIntentOffStdout(t *testing.T) {
	surface := testutil.NewSurface(t)
	ctx, out, errOut := newTestContext()
	ctx.OutputFormat = app.OutputJSON

	req := &Request{Kind: types.EntryKindTarget, Verb: types.VerbAdd, Device: "/dev/sdb"}
	resp, err := Handle(ctx, surface.Surface, testutil.BlockDevices{"/dev/sdb": true}, req)
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Equal(t, "Adding target device /dev/sdb\n", errOut.String())

	require.NoError(t, FormatResponse(out, resp, ctx.OutputFormat))
	var decoded Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "add", decoded.Verb)
}

func TestHandleList(t *testing.T) {
	surface := testutil.NewSurface(t)
	surface.AttachCache("nvme0n1-259.0", "/dev/nvme0n1")
	surface.AttachTarget("sdb-8.16", "/dev/sdb", testutil.ValidStats)
	surface.AttachTarget("sdc-8.32", "/dev/sdc", testutil.ValidStats)

	ctx, _, _ := newTestContext()

	caches, err := HandleList(ctx, surface.Surface, &ListRequest{Kind: types.EntryKindCache})
	require.NoError(t, err)
	assert.Equal(t, "cache", caches.Kind)
	require.Len(t, caches.Devices, 1)
	assert.Equal(t, "/dev/nvme0n1", caches.Devices[0].Device)

	targets, err := HandleList(ctx, surface.Surface, &ListRequest{Kind: types.EntryKindTarget})
	require.NoError(t, err)
	assert.Equal(t, "target", targets.Kind)
	require.Len(t, targets.Devices, 2)
}

func TestHandleList_SurfaceUnreadable(t *testing.T) {
	surface := testutil.NewSurface(t)
	require.NoError(t, surface.Fs.RemoveAll(surface.Config.TargetEntries))
	ctx, _, _ := newTestContext()

	resp, err := HandleList(ctx, surface.Surface, &ListRequest{Kind: types.EntryKindTarget})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, app.HasCode(err, app.ErrCodeControlSurfaceIO))
}
