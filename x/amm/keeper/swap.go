package keeper

import (
	"context"

	"github.com/paw-chain/cpamm/x/amm/curve"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// Swap exchanges amountIn of the input asset selected by dir for at least
// minOut of the other asset.
//
// The output is priced on the fee-reduced input while the input reserve
// grows by the full amountIn, so the fee stays in the pool for LPs.
func (k Keeper) Swap(ctx context.Context, poolID, trader string, dir types.Direction, amountIn, minOut uint64) (res types.SwapResult, err error) {
	scope := k.begin(ctx, opSwap, poolID)
	defer func() { k.finish(scope, err) }()

	if trader == "" {
		return res, types.ErrUnauthorized.Wrap("trader cannot be empty")
	}

	unlock := k.locks.lock(poolID)
	defer unlock()

	pool, err := k.GetPool(scope.ctx, poolID)
	if err != nil {
		return res, err
	}

	res, updated, err := planSwap(*pool, dir, amountIn, minOut)
	if err != nil {
		return types.SwapResult{}, err
	}

	// Independent check of the product on the wide decimal type.
	if err := ValidatePoolInvariant(*pool, updated); err != nil {
		scope.logger.Error("swap would break constant product",
			types.AttributeKeyPoolID, poolID,
			"error", err,
		)
		return types.SwapResult{}, err
	}

	assetIn, assetOut := pool.Assets(dir)

	var plan transferPlan
	plan.add(k.debitStep(*pool, trader, assetIn, res.AmountIn))
	plan.add(k.creditStep(*pool, trader, assetOut, res.AmountOut))
	if err := k.execute(scope, plan); err != nil {
		return types.SwapResult{}, err
	}

	if err := k.SetPool(scope.ctx, updated); err != nil {
		return types.SwapResult{}, err
	}

	k.recordPool(updated)
	k.metrics.SwapVolume.WithLabelValues(poolID, assetIn).Add(float64(res.AmountIn))
	k.metrics.SwapFeesCollected.WithLabelValues(poolID, assetIn).Add(float64(res.Fee))
	scope.logger.Info(types.EventTypeSwap,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyAccount, trader,
		types.AttributeKeyDirection, dir.String(),
		types.AttributeKeyAmountIn, res.AmountIn,
		types.AttributeKeyAmountOut, res.AmountOut,
		types.AttributeKeyFee, res.Fee,
	)
	return res, nil
}

// planSwap computes a swap against pool without side effects.
func planSwap(pool types.Pool, dir types.Direction, amountIn, minOut uint64) (types.SwapResult, types.Pool, error) {
	if err := dir.Validate(); err != nil {
		return types.SwapResult{}, pool, err
	}
	if amountIn == 0 {
		return types.SwapResult{}, pool, types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if pool.IsEmpty() {
		return types.SwapResult{}, pool, types.ErrEmptyPool.Wrapf("pool %s has no liquidity", pool.ID)
	}

	reserveIn, reserveOut := pool.Reserves(dir)
	quote, err := curve.SwapOutput(amountIn, reserveIn, reserveOut, pool.FeeBps)
	if err != nil {
		return types.SwapResult{}, pool, err
	}

	if quote.AmountOut < minOut {
		return types.SwapResult{}, pool, types.ErrSlippageExceeded.Wrapf(
			"expected at least %d, got %d", minOut, quote.AmountOut)
	}
	if quote.AmountOut == 0 {
		return types.SwapResult{}, pool, types.ErrInvalidAmount.Wrapf(
			"swap of %d rounds to zero output", amountIn)
	}

	updated := pool
	if dir == types.XToY {
		updated.ReserveX, updated.ReserveY = quote.NewReserveIn, quote.NewReserveOut
	} else {
		updated.ReserveY, updated.ReserveX = quote.NewReserveIn, quote.NewReserveOut
	}
	if err := updated.Validate(); err != nil {
		return types.SwapResult{}, pool, err
	}

	return types.SwapResult{
		Direction:        dir,
		AmountIn:         quote.AmountIn,
		AmountInAfterFee: quote.AmountInAfterFee,
		Fee:              quote.Fee,
		AmountOut:        quote.AmountOut,
	}, updated, nil
}
