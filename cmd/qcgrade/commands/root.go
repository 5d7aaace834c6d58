// Package commands implements the qcgrade command line.
package commands

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/goliatone/go-qcgrader/cost"
	"github.com/goliatone/go-qcgrader/internal/logging"
	"github.com/goliatone/go-qcgrader/pkg/di"
	"github.com/goliatone/go-qcgrader/stdgates"
	"github.com/spf13/cobra"
)

// DBEnv names the variable holding the default grade database DSN.
const DBEnv = "QCGRADER_DB"

// DefaultDSN is used when neither --db nor DBEnv is set.
const DefaultDSN = "sqlite://qcgrade.db"

// CLI is the qcgrade command tree.
type CLI struct {
	rootCmd   *cobra.Command
	container *di.Container

	logLevel  string
	logFormat string
	weights   cost.Weights
}

// New builds the command tree.
func New() *CLI {
	c := &CLI{}

	rootCmd := &cobra.Command{
		Use:           "qcgrade",
		Short:         "Cost, assemble and grade quantum circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}} (commit: " + Commit + ")\n")

	defaults := cost.DefaultWeights()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&c.logFormat, "log-format", string(logging.FormatText), "Log format: text or json")
	flags.IntVar(&c.weights.SingleQubit, "single-qubit-weight", defaults.SingleQubit, "Cost of a u or u3 gate")
	flags.IntVar(&c.weights.TwoQubit, "two-qubit-weight", defaults.TwoQubit, "Cost of a cx gate")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(
		c.newCostCmd(),
		c.newQobjCmd(),
		c.newGradeCmd(),
		c.newSubmissionsCmd(),
		c.newJobCmd(),
		c.newVersionCmd(),
	)
	return c
}

func (c *CLI) setup(cmd *cobra.Command) error {
	if c.container != nil {
		return nil
	}
	cfg := di.DefaultConfig()
	cfg.Weights = c.weights
	cfg.Logger = logging.New(cmd.ErrOrStderr(), c.logLevel, logging.Format(c.logFormat))

	container, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	c.container = container
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func loadCircuit(path string) (*circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return circuit.Decode(f, stdgates.Default())
}

func loadCircuits(paths []string) ([]*circuit.Circuit, error) {
	circuits := make([]*circuit.Circuit, 0, len(paths))
	for _, path := range paths {
		c, err := loadCircuit(path)
		if err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}
	return circuits, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func defaultDSN() string {
	if dsn := os.Getenv(DBEnv); dsn != "" {
		return dsn
	}
	return DefaultDSN
}
