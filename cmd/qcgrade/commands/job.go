package commands

import (
	"github.com/goliatone/go-qcgrader/provider"
	"github.com/spf13/cobra"
)

type jobOutput struct {
	*provider.Job
	DownloadURL string `json:"download_url,omitempty"`
	ResultURL   string `json:"result_url,omitempty"`
}

func (c *CLI) newJobCmd() *cobra.Command {
	var urls bool

	cmd := &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show a job from the service",
		Long:  "Show a job from the service. The account is read from the QCGRADER_* environment and a .env file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := provider.GetProvider(ctx, c.container.ProviderOptions()...)
			if err != nil {
				return err
			}
			job, err := p.RetrieveJob(ctx, args[0])
			if err != nil {
				return err
			}

			out := jobOutput{Job: job}
			if urls {
				out.DownloadURL, out.ResultURL, err = p.JobURLs(ctx, job)
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&urls, "urls", false, "Include the Qobj and result download URLs")
	return cmd
}
