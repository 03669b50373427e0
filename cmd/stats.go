package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-iostash/pkg/app"
	"github.com/deploymenttheory/go-iostash/pkg/app/stats"
)

func (o *rootOptions) statsSources() stats.Sources {
	return stats.Sources{
		Surface:  o.svc.Surface,
		Resolver: o.svc.Resolver,
		Parser:   o.svc.Parser,
		Checker:  o.svc.Checker,
	}
}

func newStatCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <device>",
		Short: "Show cache statistics of a target device",
		Args:  deviceArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := stats.HandleStat(o.ctx, o.statsSources(), &stats.StatRequest{Device: firstArg(args)})
			if err != nil {
				return err
			}
			return stats.FormatStat(o.ctx.Out, result, o.ctx.OutputFormat)
		},
	}
}

func newGlobalCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "global <action>",
		Short:       "Engine-wide operations",
		Args:        cobra.ArbitraryArgs,
		Annotations: engineAnnotation,
		RunE:        o.runUnknownAction,
	}
	cmd.AddCommand(newGlobalStatsCmd(o))
	return cmd
}

func newGlobalStatsCmd(o *rootOptions) *cobra.Command {
	var textfile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics of every target device",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var emit stats.Emitter
			if o.ctx.OutputFormat == app.OutputTable {
				emit = stats.TableEmitter(o.ctx.Out)
			}

			report, err := stats.HandleGlobal(o.ctx, o.statsSources(), &stats.GlobalRequest{Textfile: textfile}, emit)
			if err != nil {
				return err
			}
			return stats.FormatReport(o.ctx.Out, report, o.ctx.OutputFormat)
		},
	}
	cmd.Flags().StringVar(&textfile, "textfile", "", "also write the report in Prometheus text format to this file")
	return cmd
}
