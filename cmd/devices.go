package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-iostash/internal/types"
	"github.com/deploymenttheory/go-iostash/pkg/app/devices"
)

var engineAnnotation = map[string]string{annotationEngine: "true"}

func newCacheCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "cache <action> [<device>]",
		Short:       "Add, remove or list cache devices",
		Args:        cobra.ArbitraryArgs,
		Annotations: engineAnnotation,
		RunE:        o.runUnknownAction,
	}

	cmd.AddCommand(
		newDeviceCommandCmd(o, types.EntryKindCache, types.VerbAdd),
		newDeviceCommandCmd(o, types.EntryKindCache, types.VerbRemove),
		newListCmd(o, types.EntryKindCache),
	)
	return cmd
}

func newTargetCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "target <action> [<device>]",
		Short:       "Add, remove, list or stat target devices",
		Args:        cobra.ArbitraryArgs,
		Annotations: engineAnnotation,
		RunE:        o.runUnknownAction,
	}

	cmd.AddCommand(
		newDeviceCommandCmd(o, types.EntryKindTarget, types.VerbAdd),
		newDeviceCommandCmd(o, types.EntryKindTarget, types.VerbRemove),
		newListCmd(o, types.EntryKindTarget),
		newStatCmd(o),
	)
	return cmd
}

// newDeviceCommandCmd builds the add or remove action of a component.
func newDeviceCommandCmd(o *rootOptions, kind types.EntryKind, verb types.CommandVerb) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <device>",
		Short: "Attach a " + kind.String() + " device",
		Args:  deviceArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceCommand(o, &devices.Request{Kind: kind, Verb: verb, Device: firstArg(args)})
		},
	}
	if verb == types.VerbRemove {
		cmd.Use = "remove <device>"
		cmd.Aliases = []string{"rm"}
		cmd.Short = "Detach a " + kind.String() + " device"
	}
	return cmd
}

func runDeviceCommand(o *rootOptions, req *devices.Request) error {
	response, err := devices.Handle(o.ctx, o.svc.Surface, o.svc.Checker, req)
	if err != nil {
		return err
	}
	return devices.FormatResponse(o.ctx.Out, response, o.ctx.OutputFormat)
}

func newListCmd(o *rootOptions, kind types.EntryKind) *cobra.Command {
	var showEntries bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attached " + kind.String() + " devices",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := devices.HandleList(o.ctx, o.svc.Surface, &devices.ListRequest{Kind: kind})
			if err != nil {
				return err
			}
			return devices.FormatList(o.ctx.Out, response, o.ctx.OutputFormat, showEntries)
		},
	}
	cmd.Flags().BoolVar(&showEntries, "entries", false, "also print the engine entry of each device")
	return cmd
}
