package terminal

import (
	"context"
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shopqa/application/commands"
	"shopqa/infrastructure/config"
	"shopqa/infrastructure/logging"
)

// TerminalInterface is the shopqa command line
type TerminalInterface struct {
	root    *cobra.Command
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
	closer  io.Closer
}

// NewTerminalInterface builds the command tree
func NewTerminalInterface() *TerminalInterface {
	t := &TerminalInterface{}

	t.root = &cobra.Command{
		Use:           "shopqa",
		Short:         "Test harness for the automationexercise.com storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return t.setup(cmd)
		},
	}
	t.root.PersistentFlags().StringVar(&t.cfgFile, "config", "", "config file (default ./shopqa.yaml)")

	t.root.AddCommand(
		t.genCommand(),
		t.apiCommand(),
		t.commandsCommand(),
		t.historyCommand(),
		t.smokeCommand(),
	)
	return t
}

func (t *TerminalInterface) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(t.cfgFile)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	t.cfg, t.logger, t.closer = cfg, logger, closer
	return nil
}

// Command exposes the root command, mainly for tests
func (t *TerminalInterface) Command() *cobra.Command {
	return t.root
}

// Run executes the command line in args
func (t *TerminalInterface) Run(ctx context.Context, args []string) error {
	t.root.SetArgs(args)
	return t.root.ExecuteContext(ctx)
}

// Close releases the log file, if any
func (t *TerminalInterface) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

func (t *TerminalInterface) commandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the registered test commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range commands.Builtin().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (t *TerminalInterface) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded test results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := t.stateStore()
			if err != nil {
				return err
			}
			history, err := store.LoadHistory()
			if err != nil {
				return err
			}
			if limit > 0 && len(history) > limit {
				history = history[len(history)-limit:]
			}
			return printJSON(cmd.OutOrStdout(), history)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n results")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
