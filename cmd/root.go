package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-iostash/internal/config"
	"github.com/deploymenttheory/go-iostash/internal/log"
	"github.com/deploymenttheory/go-iostash/pkg/app"
	"github.com/deploymenttheory/go-iostash/pkg/services"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=..."
var version = "0.1.0-dev"

// annotationEngine marks commands that need the caching engine loaded
const annotationEngine = "iostash.engine"

// rootOptions carries global flag values and the per-invocation state built
// in the root pre-run.
type rootOptions struct {
	verbose      bool
	quiet        bool
	outputFormat string
	configFile   string

	serviceOpts []services.Option

	ctx *app.Context
	svc *services.Services
}

// NewRootCmd builds the iostash command tree. opts replace the system
// collaborators, mainly for tests.
func NewRootCmd(opts ...services.Option) *cobra.Command {
	o := &rootOptions{serviceOpts: opts}

	rootCmd := &cobra.Command{
		Use:   "iostash <component> <action> [<device>]",
		Short: "Manage the iostash SSD caching engine",
		Long: `iostash attaches and detaches cache (SSD) and target (HDD) devices to the
iostash caching engine and reports per-device cache statistics.

Components:
  cache     add, remove or list cache devices
  target    add, remove, list or stat target devices
  global    stats for every target device
  version   print the version

Examples:
  iostash cache add /dev/nvme0n1
  iostash target add /dev/sdb
  iostash target stat /dev/sdb
  iostash global stats --output json`,
		Version:           version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.preRun,
		RunE:              o.runUnknownComponent,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return app.NewError(app.ErrCodeInvalidInput, err.Error(), nil)
	})

	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&o.quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&o.outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&o.configFile, "config", "", "config file (default searches ., $HOME/.iostash, /etc/iostash)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(
		newCacheCmd(o),
		newTargetCmd(o),
		newGlobalCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}

// Execute runs the command tree and exits with the status of its error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(app.ExitCode(err))
	}
}

// preRun refuses to run unprivileged, then loads configuration, sets up
// logging, builds the services and brings the engine up for commands that
// need it.
func (o *rootOptions) preRun(cmd *cobra.Command, _ []string) error {
	if !services.PrivilegeChecker(o.serviceOpts...).IsPrivileged() {
		return app.NewError(app.ErrCodePermission, "iostash must be run as root", nil)
	}

	format, err := app.ParseOutputFormat(o.outputFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}

	if err := log.Configure(cfg.Log.Format, o.logLevel(cfg.Log.Level)); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid log configuration", err)
	}

	ctx := app.NewContext()
	ctx.Context = cmd.Context()
	ctx.OutputFormat = format
	ctx.Verbose = o.verbose
	ctx.Quiet = o.quiet
	ctx.Out = cmd.OutOrStdout()
	ctx.ErrOut = cmd.ErrOrStderr()
	o.ctx = ctx

	svc, err := services.NewServiceFactory(cfg, o.serviceOpts...).Services()
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	o.svc = svc

	ctx.Debug(map[string]any{"command": cmd.CommandPath(), "config": o.configFile}, "starting")

	if requiresEngine(cmd) {
		return svc.Engine.EnsureEngine(ctx)
	}
	return nil
}

func (o *rootOptions) logLevel(configured string) string {
	switch {
	case o.verbose:
		return "debug"
	case o.quiet:
		return "error"
	default:
		return configured
	}
}

// runUnknownComponent prints usage when called bare. An unknown component is
// reported but is not an error.
func (o *rootOptions) runUnknownComponent(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	fmt.Fprintf(o.ctx.ErrOut, "Unknown component %q. Run '%s --help' for usage.\n", args[0], cmd.Root().Name())
	return nil
}

// runUnknownAction ignores actions a component does not know.
func (o *rootOptions) runUnknownAction(cmd *cobra.Command, args []string) error {
	action := ""
	if len(args) > 0 {
		action = args[0]
	}
	o.ctx.Debug(map[string]any{"component": cmd.Name(), "action": action}, "ignoring unknown action")
	return nil
}

func requiresEngine(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationEngine]; ok {
			return true
		}
	}
	return false
}

// deviceArg returns the single optional device argument.
func deviceArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("expected one device, got %d arguments", len(args)), nil)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unexpected argument %q for %q", args[0], cmd.CommandPath()), nil)
	}
	return nil
}
