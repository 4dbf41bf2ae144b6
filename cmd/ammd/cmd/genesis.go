package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
)

const flagOutputDocument = "output-document"

// ExportCmd dumps the node state as a genesis document.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export balances and pools as a genesis document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString(flagOutputDocument)

			return runWithApp(cmd, func(a *app.App) error {
				gs, err := a.ExportGenesis(cmd.Context())
				if err != nil {
					return err
				}
				bz, err := json.MarshalIndent(gs, "", "  ")
				if err != nil {
					return err
				}

				if out == "" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
					return err
				}
				return os.WriteFile(out, bz, 0o644)
			})
		},
	}

	cmd.Flags().String(flagOutputDocument, "", "write the genesis to this file instead of stdout")
	return cmd
}

// ValidateGenesisCmd checks a genesis file without opening the node.
func ValidateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-genesis [file]",
		Short: "Validate a genesis file (default config/genesis.json in the node home)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nc, err := getNodeContext(cmd)
			if err != nil {
				return err
			}

			path := filepath.Join(nc.home, configDirName, "genesis.json")
			if len(args) == 1 {
				path = args[0]
			}
			gs, err := app.LoadGenesisFile(path)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d balances, %d pools\n",
				path, len(gs.Balances), len(gs.AMM.Pools))
			return err
		},
	}
}

// FundCmd credits an account from outside the pools.
func FundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund [account] [asset] [amount]",
		Short: "Credit an account with an asset (development faucet)",
		Long: `Credit an account directly in the custody ledger. Pool share assets cannot
be funded this way; they are only minted by deposits.

Example:
  ammd fund alice usdc 1000000`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cast.ToUint64E(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			return runWithApp(cmd, func(a *app.App) error {
				if err := a.Fund(cmd.Context(), args[0], args[1], amount); err != nil {
					return err
				}
				return printBalances(cmd, a.Balances(args[0]))
			})
		},
	}
}

func printBalances(cmd *cobra.Command, balances map[string]uint64) error {
	bz, err := json.MarshalIndent(balances, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
