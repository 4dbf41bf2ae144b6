package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// GetTxCmd returns the transaction commands for the amm module
func GetTxCmd() *cobra.Command {
	ammTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "AMM transaction subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	ammTxCmd.AddCommand(
		CmdInitializePool(),
		CmdDeposit(),
		CmdSwap(),
		CmdWithdraw(),
		CmdUpdateFee(),
	)

	return ammTxCmd
}

// CmdInitializePool returns a CLI command handler for creating an empty pool
func CmdInitializePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-pool [pool-id] [asset-x] [asset-y]",
		Short: "Create an empty constant-product pool",
		Long: `Create an empty pool for an asset pair. The first deposit sets the price.

Example:
  $ ammd tx amm init-pool usdc-atom usdc atom --fee-bps 30 --authority admin --from admin`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			poolID := args[0]
			from, _ := cmd.Flags().GetString(FlagFrom)
			feeBps, _ := cmd.Flags().GetUint16(FlagFeeBps)
			if d, ok := backend.(FeeDefaulter); ok && !cmd.Flags().Changed(FlagFeeBps) {
				feeBps = d.DefaultFeeBps()
			}
			precision, _ := cmd.Flags().GetUint8(FlagPrecision)
			authority, _ := cmd.Flags().GetString(FlagAuthority)
			shareAsset, _ := cmd.Flags().GetString(FlagShareAsset)
			vault, _ := cmd.Flags().GetString(FlagVault)

			if shareAsset == "" {
				shareAsset = "lp/" + poolID
			}
			if vault == "" {
				vault = "vault/" + poolID
			}

			msg := &types.MsgInitializePool{
				Creator:    from,
				PoolID:     poolID,
				AssetX:     args[1],
				AssetY:     args[2],
				ShareAsset: shareAsset,
				Vault:      vault,
				FeeBps:     feeBps,
				Precision:  precision,
				Authority:  authority,
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			res, err := backend.MsgServer().InitializePool(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().AddFlagSet(FlagSetInitializePool())
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeposit returns a CLI command handler for adding liquidity
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [shares] [max-x] [max-y]",
		Short: "Mint LP shares by depositing both assets",
		Long: `Mint the given number of LP shares. The deposit fails if it would take more
than max-x or max-y. Into an empty pool exactly max-x and max-y are deposited.

Example:
  $ ammd tx amm deposit usdc-atom 1000000 1000000 2000000 --from alice`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}
			maxX, err := parseAmount("max-x", args[2])
			if err != nil {
				return err
			}
			maxY, err := parseAmount("max-y", args[3])
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString(FlagFrom)

			msg := &types.MsgDeposit{
				Depositor: from,
				PoolID:    args[0],
				Shares:    shares,
				MaxX:      maxX,
				MaxY:      maxY,
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			res, err := backend.MsgServer().Deposit(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwap returns a CLI command handler for swapping one pool asset for the other
func CmdSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [pool-id] [direction] [amount-in]",
		Short: "Swap one pool asset for the other",
		Long: `Swap amount-in of the input asset. Direction is x_to_y (or x) to pay asset X,
y_to_x (or y) to pay asset Y.

Example:
  $ ammd tx amm swap usdc-atom x 10000 --min-out 9800 --from bob`,
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
			from, _ := cmd.Flags().GetString(FlagFrom)

			msg := &types.MsgSwap{
				Trader:    from,
				PoolID:    args[0],
				Direction: dir,
				AmountIn:  amountIn,
				MinOut:    minOut,
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			res, err := backend.MsgServer().Swap(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().Uint64(FlagMinOut, 0, "Minimum output amount (slippage protection)")
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns a CLI command handler for removing liquidity
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [shares]",
		Short: "Burn LP shares for a proportional part of the reserves",
		Long: `Burn LP shares and receive both assets. The withdraw fails if it would pay
less than --min-x or --min-y.

Example:
  $ ammd tx amm withdraw usdc-atom 500000 --min-x 490000 --min-y 980000 --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}
			minX, _ := cmd.Flags().GetUint64(FlagMinX)
			minY, _ := cmd.Flags().GetUint64(FlagMinY)
			from, _ := cmd.Flags().GetString(FlagFrom)

			msg := &types.MsgWithdraw{
				Withdrawer: from,
				PoolID:     args[0],
				Shares:     shares,
				MinX:       minX,
				MinY:       minY,
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			res, err := backend.MsgServer().Withdraw(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().Uint64(FlagMinX, 0, "Minimum amount of asset X to receive")
	cmd.Flags().Uint64(FlagMinY, 0, "Minimum amount of asset Y to receive")
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateFee returns a CLI command handler for changing a pool's fee
func CmdUpdateFee() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-fee [pool-id] [fee-bps]",
		Short: "Change a pool's swap fee (pool authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := GetBackend(cmd)
			if err != nil {
				return err
			}

			fee, err := parseAmount("fee-bps", args[1])
			if err != nil {
				return err
			}
			if fee > uint64(types.MaxFeeBps) {
				return fmt.Errorf("fee-bps must be at most %d", types.MaxFeeBps)
			}
			from, _ := cmd.Flags().GetString(FlagFrom)

			msg := &types.MsgUpdateFee{
				Authority: from,
				PoolID:    args[0],
				FeeBps:    uint16(fee),
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			res, err := backend.MsgServer().UpdateFee(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}
