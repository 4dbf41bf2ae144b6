package cli

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Flag constants for amm CLI commands
const (
	// Signing account of a transaction
	FlagFrom = "from"

	// Pool creation flags
	FlagFeeBps     = "fee-bps"
	FlagPrecision  = "precision"
	FlagAuthority  = "authority"
	FlagShareAsset = "share-asset"
	FlagVault      = "vault"

	// Slippage bounds
	FlagMinOut = "min-out"
	FlagMaxX   = "max-x"
	FlagMaxY   = "max-y"
	FlagMinX   = "min-x"
	FlagMinY   = "min-y"
)

// AddTxFlagsToCmd adds the flags shared by every transaction command.
func AddTxFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().String(FlagFrom, "", "Account that signs the operation")
	_ = cmd.MarkFlagRequired(FlagFrom)
}

// FlagSetInitializePool returns the flags for pool creation.
func FlagSetInitializePool() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)

	fs.Uint16(FlagFeeBps, types.DefaultFeeBps, "Swap fee in basis points (0-10000)")
	fs.Uint8(FlagPrecision, 0, "Decimal digits of the share ratio scale (0 selects the node default)")
	fs.String(FlagAuthority, "", "Account allowed to change the fee; empty makes the fee immutable")
	fs.String(FlagShareAsset, "", "LP share asset identity (default lp/<pool-id>)")
	fs.String(FlagVault, "", "Custody account holding the reserves (default vault/<pool-id>)")

	return fs
}
