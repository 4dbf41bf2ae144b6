package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Invariant checks module state and reports a message plus whether it is broken.
type Invariant func(ctx context.Context) (string, bool)

// BalanceReader is implemented by ledgers that can report balances. The
// vault invariant only runs when the keeper's ledger provides it.
type BalanceReader interface {
	Balance(account, asset string) uint64
}

// SupplyReader is implemented by share registries that track supply.
type SupplyReader interface {
	Supply(shareAsset string) uint64
}

// HoldingsReader reports whether any account holds a nonzero amount of asset.
type HoldingsReader interface {
	HasHolders(asset string) bool
}

// ValidatePoolInvariant checks that a swap from before to after does not
// shrink reserveX * reserveY.
func ValidatePoolInvariant(before, after types.Pool) error {
	oldK := math.NewIntFromUint64(before.ReserveX).Mul(math.NewIntFromUint64(before.ReserveY))
	newK := math.NewIntFromUint64(after.ReserveX).Mul(math.NewIntFromUint64(after.ReserveY))

	if newK.LT(oldK) {
		return types.ErrInvariantViolation.Wrapf(
			"constant product invariant violated: old_k=%s, new_k=%s",
			oldK.String(), newK.String(),
		)
	}
	return nil
}

// RegisteredInvariants lists every invariant by route name.
func RegisteredInvariants(k Keeper) map[string]Invariant {
	return map[string]Invariant{
		"pool-state":     PoolStateInvariant(k),
		"vault-reserves": VaultReservesInvariant(k),
		"share-supply":   ShareSupplyInvariant(k),
	}
}

// AllInvariants runs all invariants of the AMM module
func AllInvariants(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		res, stop := PoolStateInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = VaultReservesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ShareSupplyInvariant(k)(ctx)
	}
}

// PoolStateInvariant checks every stored pool is well-formed and either
// fully empty or fully funded.
func PoolStateInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return formatInvariant("pool-state", fmt.Sprintf("cannot read pools: %v\n", err)), true
		}
		for _, pool := range pools {
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.ID, err)
			}
		}

		broken := count != 0
		return formatInvariant("pool-state",
			fmt.Sprintf("found %d invalid pools\n%s", count, msg),
		), broken
	}
}

// VaultReservesInvariant checks that each vault holds at least the reserves
// its pool records.
func VaultReservesInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		reader, ok := k.ledger.(BalanceReader)
		if !ok {
			return formatInvariant("vault-reserves", "ledger does not report balances\n"), false
		}

		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return formatInvariant("vault-reserves", fmt.Sprintf("cannot read pools: %v\n", err)), true
		}
		for _, pool := range pools {
			balanceX := reader.Balance(pool.Vault, pool.AssetX)
			balanceY := reader.Balance(pool.Vault, pool.AssetY)
			if balanceX < pool.ReserveX || balanceY < pool.ReserveY {
				count++
				msg += fmt.Sprintf("pool %s: vault holds %d/%d, reserves are %d/%d\n",
					pool.ID, balanceX, balanceY, pool.ReserveX, pool.ReserveY)
			}
		}

		broken := count != 0
		return formatInvariant("vault-reserves",
			fmt.Sprintf("found %d under-collateralized pools\n%s", count, msg),
		), broken
	}
}

// ShareSupplyInvariant checks that each pool's LP supply matches the share
// registry.
func ShareSupplyInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		reader, ok := k.shares.(SupplyReader)
		if !ok {
			return formatInvariant("share-supply", "share registry does not report supply\n"), false
		}

		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return formatInvariant("share-supply", fmt.Sprintf("cannot read pools: %v\n", err)), true
		}
		for _, pool := range pools {
			if supply := reader.Supply(pool.ShareAsset); supply != pool.LPSupply {
				count++
				msg += fmt.Sprintf("pool %s: registry supply %d, pool lp supply %d\n",
					pool.ID, supply, pool.LPSupply)
			}
		}

		broken := count != 0
		return formatInvariant("share-supply",
			fmt.Sprintf("found %d pools with mismatched share supply\n%s", count, msg),
		), broken
	}
}

func formatInvariant(route, msg string) string {
	return fmt.Sprintf("%s: %s invariant\n%s", types.ModuleName, route, msg)
}
