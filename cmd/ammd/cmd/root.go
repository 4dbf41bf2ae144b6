package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/client/cli"
)

// FlagHome selects the node directory.
const FlagHome = "home"

// DefaultNodeHome is the node directory used when neither --home nor
// AMMD_HOME is set.
var DefaultNodeHome = defaultNodeHome()

func defaultNodeHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".ammd"
	}
	return filepath.Join(userHome, ".ammd")
}

type nodeContextKey struct{}

// nodeContext is resolved once per invocation by the root command.
type nodeContext struct {
	home   string
	cfg    app.Config
	logger log.Logger
}

func getNodeContext(cmd *cobra.Command) (nodeContext, error) {
	nc, ok := cmd.Context().Value(nodeContextKey{}).(nodeContext)
	if !ok {
		return nodeContext{}, errors.New("node configuration not loaded")
	}
	return nc, nil
}

// NewRootCmd creates the ammd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   app.Name,
		Short: "Constant-product AMM node",
		Long: `ammd runs a constant-product automated market maker over a local key-value
store: pools, liquidity, swaps and the custody ledger they settle against.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := resolveHome(cmd)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(home)
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, nodeContextKey{}, nodeContext{
				home:   home,
				cfg:    cfg,
				logger: logger,
			}))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, "", "directory for config and data (default $AMMD_HOME or ~/.ammd)")

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(),
		ExportCmd(),
		ValidateGenesisCmd(),
		FundCmd(),
		ConfigCmd(),
		withApp(txCommand()),
		withApp(queryCommand()),
	)

	return rootCmd
}

func resolveHome(cmd *cobra.Command) (string, error) {
	home, err := cmd.Flags().GetString(FlagHome)
	if err != nil {
		return "", err
	}
	if home == "" {
		home = os.Getenv(envPrefix + "_HOME")
	}
	if home == "" {
		home = DefaultNodeHome
	}
	return filepath.Abs(home)
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(cli.GetQueryCmd())
	return cmd
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(cli.GetTxCmd())
	return cmd
}

// withApp wraps every runnable command under parent so that it executes
// against an opened node, closed again once the command returns.
func withApp(parent *cobra.Command) *cobra.Command {
	for _, child := range parent.Commands() {
		withApp(child)
	}
	if !parent.HasSubCommands() && parent.RunE != nil {
		run := parent.RunE
		parent.RunE = func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(a *app.App) error {
				cmd.SetContext(cli.WithBackend(cmd.Context(), a))
				return run(cmd, args)
			})
		}
	}
	return parent
}

func runWithApp(cmd *cobra.Command, fn func(*app.App) error) (err error) {
	nc, err := getNodeContext(cmd)
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), nc.cfg, nc.home, nc.logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close(context.WithoutCancel(cmd.Context())))
	}()

	return fn(a)
}
