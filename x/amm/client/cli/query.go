package cli

import (
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// GetQueryCmd returns the cli query commands for the amm module
func GetQueryCmd() *cobra.Command {
	ammQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the amm module",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	ammQueryCmd.AddCommand(
		GetCmdQueryPool(),
		GetCmdQueryPools(),
		GetCmdQuerySpotPrice(),
		GetCmdQuoteSwap(),
		GetCmdQuoteDeposit(),
		GetCmdQuoteWithdraw(),
		GetCmdQueryBalances(),
	)

	return ammQueryCmd
}

// GetCmdQueryPool returns the command to query a single pool
func GetCmdQueryPool() *cobra.Command {
	return &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			pool, err := backend.AMMKeeper().GetPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, pool)
		},
	}
}

// GetCmdQueryPools returns the command to list every pool
func GetCmdQueryPools() *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "Query all pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			pools, err := backend.AMMKeeper().GetAllPools(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, pools)
		},
	}
}

// GetCmdQuerySpotPrice returns the command to query the marginal price
func GetCmdQuerySpotPrice() *cobra.Command {
	return &cobra.Command{
		Use:   "spot-price [pool-id] [direction]",
		Short: "Query the pre-fee price of the input asset in units of the output asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			price, err := backend.AMMKeeper().SpotPrice(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"pool_id": args[0], "direction": dir.String(), "price": price.String()})
		},
	}
}

// GetCmdQuoteSwap returns the command to simulate a swap
func GetCmdQuoteSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote-swap [pool-id] [direction] [amount-in]",
		Short: "Simulate a swap without executing it",
		Long: `Simulate a swap against the current reserves.

Example:
  $ ammd query amm quote-swap usdc-atom x 10000`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			amountIn, err := parseAmount("amount-in", args[2])
			if err != nil {
				return err
			}
			minOut, _ := cmd.Flags().GetUint64(FlagMinOut)

			res, err := backend.AMMKeeper().QuoteSwap(cmd.Context(), args[0], dir, amountIn, minOut)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().Uint64(FlagMinOut, 0, "Minimum output amount to check against")
	return cmd
}

// GetCmdQuoteDeposit returns the command to price a deposit
func GetCmdQuoteDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote-deposit [pool-id] [shares]",
		Short: "Show the assets a deposit of the given shares would take",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}
			maxX, _ := cmd.Flags().GetUint64(FlagMaxX)
			maxY, _ := cmd.Flags().GetUint64(FlagMaxY)

			res, err := backend.AMMKeeper().QuoteDeposit(cmd.Context(), args[0], shares, maxX, maxY)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().Uint64(FlagMaxX, ^uint64(0), "Maximum amount of asset X")
	cmd.Flags().Uint64(FlagMaxY, ^uint64(0), "Maximum amount of asset Y")
	return cmd
}

// GetCmdQuoteWithdraw returns the command to price a withdraw
func GetCmdQuoteWithdraw() *cobra.Command {
	return &cobra.Command{
		Use:   "quote-withdraw [pool-id] [shares]",
		Short: "Show the assets burning the given shares would pay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}

			res, err := backend.AMMKeeper().QuoteWithdraw(cmd.Context(), args[0], shares, 0, 0)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// GetCmdQueryBalances returns the command to list an account's balances
func GetCmdQueryBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "balances [account]",
		Short: "Query every asset balance of an account, vaults included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd, backend.Balances(args[0]))
		},
	}
}
