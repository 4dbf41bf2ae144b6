package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Quotes run the same computation and checks as the operations against the
// current pool, without taking the pool lock or touching the ledger.

// QuoteDeposit returns what Deposit would take for lpDelta shares.
func (k Keeper) QuoteDeposit(ctx context.Context, poolID string, lpDelta, maxX, maxY uint64) (types.DepositResult, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.DepositResult{}, err
	}
	res, _, err := planDeposit(*pool, lpDelta, maxX, maxY)
	return res, err
}

// QuoteSwap returns what Swap would pay for amountIn.
func (k Keeper) QuoteSwap(ctx context.Context, poolID string, dir types.Direction, amountIn, minOut uint64) (types.SwapResult, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.SwapResult{}, err
	}
	res, _, err := planSwap(*pool, dir, amountIn, minOut)
	return res, err
}

// QuoteWithdraw returns what Withdraw would pay for lpBurn shares.
func (k Keeper) QuoteWithdraw(ctx context.Context, poolID string, lpBurn, minX, minY uint64) (types.WithdrawResult, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.WithdrawResult{}, err
	}
	res, _, err := planWithdraw(*pool, lpBurn, minX, minY)
	return res, err
}

// SpotPrice returns the marginal price of the input asset of dir, in units
// of the output asset, before fees.
func (k Keeper) SpotPrice(ctx context.Context, poolID string, dir types.Direction) (math.LegacyDec, error) {
	if err := dir.Validate(); err != nil {
		return math.LegacyDec{}, err
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if pool.IsEmpty() {
		return math.LegacyDec{}, types.ErrEmptyPool.Wrapf("pool %s has no price", poolID)
	}

	reserveIn, reserveOut := pool.Reserves(dir)
	out := math.LegacyNewDecFromInt(math.NewIntFromUint64(reserveOut))
	in := math.LegacyNewDecFromInt(math.NewIntFromUint64(reserveIn))
	return out.Quo(in), nil
}
