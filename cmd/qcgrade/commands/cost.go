package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-qcgrader/cost"
	"github.com/spf13/cobra"
)

func (c *CLI) newCostCmd() *cobra.Command {
	var asJSON, stats bool

	cmd := &cobra.Command{
		Use:   "cost <circuit.json>...",
		Short: "Print the gate cost of circuit files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuits, err := loadCircuits(args)
			if err != nil {
				return err
			}

			est := c.container.Estimator()
			reports := make([]cost.Report, 0, len(circuits))
			for _, circ := range circuits {
				r, err := est.Report(cmd.Context(), circ)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if stats {
					return writeJSON(out, map[string]any{"reports": reports, "stats": est.Stats()})
				}
				return writeJSON(out, reports)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\tcost %d\tgates %d\tcx %s\n", r.Circuit, r.Total, r.GateCount, yesNo(r.HasTwoQubitPrimitive))
				for _, name := range r.GateNames() {
					fmt.Fprintf(tw, "  %s\t%d\t\t\n", name, r.ByGate[name])
				}
			}
			if stats {
				s := est.Stats()
				fmt.Fprintf(tw, "cache\tlookups %d\thits %d\tentries %d\n", s.Lookups, s.Hits, s.Entries)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print cost cache statistics")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
