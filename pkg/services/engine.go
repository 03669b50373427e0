package services

import (
	"errors"

	"github.com/deploymenttheory/go-iostash/internal/device"
	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// ErrChannelsMissing is returned when the module loaded but the engine
// still exposes no command channels.
var ErrChannelsMissing = errors.New("command channels missing after module load")

// Engine activates the caching engine on demand.
type Engine struct {
	surface interfaces.ControlSurface
	loader  interfaces.ModuleLoader
	module  string
}

// NewEngine creates an engine activator for the given kernel module.
func NewEngine(surface interfaces.ControlSurface, loader interfaces.ModuleLoader, module string) *Engine {
	return &Engine{
		surface: surface,
		loader:  loader,
		module:  module,
	}
}

// EnsureEngine loads the engine module if the command channels are absent
// and checks that they appeared. A failed load carries the loader's exit
// status.
func (e *Engine) EnsureEngine(ctx *app.Context) error {
	if e.surface.Present() {
		return nil
	}

	ctx.Info(map[string]any{"module": e.module}, "caching engine not loaded, loading module")

	if err := e.loader.Load(e.module); err != nil {
		return app.FromError(err)
	}

	if !e.surface.Present() {
		return app.FromError(&device.ActivationError{Module: e.module, Status: 1, Err: ErrChannelsMissing})
	}

	ctx.Debug(map[string]any{"module": e.module}, "caching engine loaded")
	return nil
}
