package commands

import (
	"github.com/goliatone/go-qcgrader/grading"
	"github.com/goliatone/go-qcgrader/provider"
	"github.com/spf13/cobra"
)

func (c *CLI) newGradeCmd() *cobra.Command {
	var (
		dsn       string
		verifyJob bool
	)

	cmd := &cobra.Command{
		Use:   "grade <job-id> <circuit.json>",
		Short: "Grade a circuit and record the submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			circ, err := loadCircuit(args[1])
			if err != nil {
				return err
			}

			var job provider.JobRef = provider.ID(args[0])
			if verifyJob {
				p, err := provider.GetProvider(ctx, c.container.ProviderOptions()...)
				if err != nil {
					return err
				}
				retrieved, err := p.RetrieveJob(ctx, args[0])
				if err != nil {
					return err
				}
				job = retrieved
			}

			store, closeStore, err := c.openStore(cmd, dsn)
			if err != nil {
				return err
			}
			defer closeStore()

			grader, err := c.container.NewGrader(store)
			if err != nil {
				return err
			}
			res, err := grader.Grade(ctx, job, circ)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&dsn, "db", "", "Grade database DSN (default $"+DBEnv+" or "+DefaultDSN+")")
	cmd.Flags().BoolVar(&verifyJob, "verify-job", false, "Retrieve the job from the service before grading")
	return cmd
}

func (c *CLI) newSubmissionsCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "submissions <circuit-name>",
		Short: "List recorded submissions for a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := c.openStore(cmd, dsn)
			if err != nil {
				return err
			}
			defer closeStore()

			subs, err := store.ListByCircuit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), subs)
		},
	}
	cmd.Flags().StringVar(&dsn, "db", "", "Grade database DSN (default $"+DBEnv+" or "+DefaultDSN+")")
	return cmd
}

func (c *CLI) openStore(cmd *cobra.Command, dsn string) (*grading.CachedStore, func(), error) {
	if dsn == "" {
		dsn = defaultDSN()
	}
	base, err := c.container.OpenStore(cmd.Context(), dsn)
	if err != nil {
		return nil, nil, err
	}
	return c.container.NewCachedStore(base), func() { base.Close() }, nil
}
