package commands

import (
	"fmt"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/qobj"
	"github.com/spf13/cobra"
)

func (c *CLI) newQobjCmd() *cobra.Command {
	var (
		format      string
		out         string
		fingerprint bool
		cfg         = qobj.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "qobj <circuit.json>...",
		Short: "Assemble circuit files into a Qobj document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuits, err := loadCircuits(args)
			if err != nil {
				return err
			}
			q, err := qobj.Assemble(cfg, circuits...)
			if err != nil {
				return err
			}

			if fingerprint {
				fp, err := q.Fingerprint()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), fp)
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = q.ToJSON()
			case "msgpack":
				data, err = q.ToMsgpack()
			default:
				return goerrors.New(fmt.Sprintf("unknown format %q, want json or msgpack", format), goerrors.CategoryValidation)
			}
			if err != nil {
				return err
			}

			if out != "" {
				return os.WriteFile(out, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or msgpack")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Print only the experiments fingerprint")
	cmd.Flags().IntVar(&cfg.Shots, "shots", cfg.Shots, "Number of shots")
	cmd.Flags().BoolVar(&cfg.Memory, "memory", cfg.Memory, "Request per-shot memory")
	cmd.Flags().StringVar(&cfg.QobjID, "id", "", "Qobj id, generated when empty")
	return cmd
}
