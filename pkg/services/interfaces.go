package services

import (
	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/pkg/app"
)

// EngineService makes sure the caching engine is available before use
type EngineService interface {
	// EnsureEngine loads the engine when its command channels are absent
	EnsureEngine(ctx *app.Context) error
}

// Services is the set of collaborators a command needs
type Services struct {
	Surface   interfaces.ControlSurface
	Resolver  interfaces.DeviceResolver
	Parser    interfaces.StatisticsParser
	Checker   interfaces.BlockDeviceChecker
	Privilege interfaces.PrivilegeChecker
	Engine    EngineService
}
