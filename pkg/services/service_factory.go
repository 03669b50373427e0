package services

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/device"
	"github.com/deploymenttheory/go-iostash/internal/interfaces"
	"github.com/deploymenttheory/go-iostash/internal/parsers/statistics"
	surfaces "github.com/deploymenttheory/go-iostash/internal/services"
)

// Option overrides one of the factory's system collaborators
type Option func(*ServiceFactory)

// WithFs sets the filesystem the control surface is read from
func WithFs(fs afero.Fs) Option {
	return func(sf *ServiceFactory) { sf.fs = fs }
}

// WithBlockDeviceChecker sets the block device checker
func WithBlockDeviceChecker(c interfaces.BlockDeviceChecker) Option {
	return func(sf *ServiceFactory) { sf.checker = c }
}

// WithPrivilegeChecker sets the privilege checker
func WithPrivilegeChecker(p interfaces.PrivilegeChecker) Option {
	return func(sf *ServiceFactory) { sf.privilege = p }
}

// WithModuleLoader sets the engine module loader
func WithModuleLoader(l interfaces.ModuleLoader) Option {
	return func(sf *ServiceFactory) { sf.loader = l }
}

// ServiceFactory builds the services of one invocation from its configuration
type ServiceFactory struct {
	cfg *config.Config

	fs        afero.Fs
	checker   interfaces.BlockDeviceChecker
	privilege interfaces.PrivilegeChecker
	loader    interfaces.ModuleLoader

	services    *Services
	mu          sync.Mutex
	initialized bool
}

// NewServiceFactory creates a factory backed by the real system unless
// overridden by opts
func NewServiceFactory(cfg *config.Config, opts ...Option) *ServiceFactory {
	sf := &ServiceFactory{
		cfg:       cfg,
		fs:        afero.NewOsFs(),
		checker:   device.BlockDeviceChecker{},
		privilege: device.PrivilegeChecker{},
		loader:    device.NewModprobeLoader(cfg.Engine.Modprobe),
	}
	for _, opt := range opts {
		opt(sf)
	}
	return sf
}

// PrivilegeChecker returns the privilege checker selected by opts. It needs
// no configuration, so callers can refuse to run before loading any.
func PrivilegeChecker(opts ...Option) interfaces.PrivilegeChecker {
	sf := &ServiceFactory{privilege: device.PrivilegeChecker{}}
	for _, opt := range opts {
		opt(sf)
	}
	return sf.privilege
}

// Initialize builds all services. It is safe to call more than once.
func (sf *ServiceFactory) Initialize() error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if sf.initialized {
		return nil
	}

	surface, err := surfaces.NewControlSurface(sf.fs, sf.cfg.Surface)
	if err != nil {
		return fmt.Errorf("failed to create control surface: %w", err)
	}

	parser, err := statistics.NewStatisticsParser(sf.cfg.Labels)
	if err != nil {
		return fmt.Errorf("failed to create statistics parser: %w", err)
	}

	sf.services = &Services{
		Surface:   surface,
		Resolver:  surfaces.NewDeviceResolver(surface),
		Parser:    parser,
		Checker:   sf.checker,
		Privilege: sf.privilege,
		Engine:    NewEngine(surface, sf.loader, sf.cfg.Engine.Module),
	}
	sf.initialized = true
	return nil
}

// Services returns the built services, initializing them on first use
func (sf *ServiceFactory) Services() (*Services, error) {
	if err := sf.Initialize(); err != nil {
		return nil, err
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.services, nil
}

// IsInitialized returns whether the factory has been initialized
func (sf *ServiceFactory) IsInitialized() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.initialized
}

// Shutdown drops the built services
func (sf *ServiceFactory) Shutdown() {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.services = nil
	sf.initialized = false
}
