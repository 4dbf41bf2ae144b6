package keeper

import (
	"context"
	"math/bits"

	"github.com/paw-chain/cpamm/x/amm/curve"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// Deposit mints lpDelta shares to depositor in exchange for reserve amounts
// no greater than maxX and maxY. Into an empty pool the amounts are exactly
// (maxX, maxY) and set the initial price.
func (k Keeper) Deposit(ctx context.Context, poolID, depositor string, lpDelta, maxX, maxY uint64) (res types.DepositResult, err error) {
	scope := k.begin(ctx, opDeposit, poolID)
	defer func() { k.finish(scope, err) }()

	if depositor == "" {
		return res, types.ErrUnauthorized.Wrap("depositor cannot be empty")
	}

	unlock := k.locks.lock(poolID)
	defer unlock()

	pool, err := k.GetPool(scope.ctx, poolID)
	if err != nil {
		return res, err
	}

	res, updated, err := planDeposit(*pool, lpDelta, maxX, maxY)
	if err != nil {
		return types.DepositResult{}, err
	}

	var plan transferPlan
	plan.add(k.debitStep(*pool, depositor, pool.AssetX, res.AmountX))
	plan.add(k.debitStep(*pool, depositor, pool.AssetY, res.AmountY))
	plan.add(k.mintStep(*pool, depositor, res.Shares))
	if err := k.execute(scope, plan); err != nil {
		return types.DepositResult{}, err
	}

	if err := k.SetPool(scope.ctx, updated); err != nil {
		return types.DepositResult{}, err
	}

	k.recordPool(updated)
	scope.logger.Info(types.EventTypeDeposit,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyAccount, depositor,
		types.AttributeKeyAmountX, res.AmountX,
		types.AttributeKeyAmountY, res.AmountY,
		types.AttributeKeyShares, res.Shares,
		"bootstrap", pool.IsEmpty(),
	)
	return res, nil
}

// planDeposit computes a deposit against pool without side effects and
// returns the pool as it would be stored afterwards.
func planDeposit(pool types.Pool, lpDelta, maxX, maxY uint64) (types.DepositResult, types.Pool, error) {
	if lpDelta == 0 {
		return types.DepositResult{}, pool, types.ErrInvalidAmount.Wrap("shares to mint must be positive")
	}

	var dx, dy uint64
	if pool.LPSupply == 0 && pool.ReserveX == 0 {
		if maxX == 0 || maxY == 0 {
			return types.DepositResult{}, pool, types.ErrInvalidAmount.Wrapf(
				"bootstrap deposit into %s needs both assets, got %d/%d", pool.ID, maxX, maxY)
		}
		dx, dy = maxX, maxY
	} else {
		var err error
		dx, dy, err = curve.SharesToReserves(pool.ReserveX, pool.ReserveY, pool.LPSupply, lpDelta, pool.Precision)
		if err != nil {
			return types.DepositResult{}, pool, err
		}
	}

	if dx > maxX || dy > maxY {
		return types.DepositResult{}, pool, types.ErrSlippageExceeded.Wrapf(
			"deposit requires %d/%d, limits are %d/%d", dx, dy, maxX, maxY)
	}

	updated := pool
	var err error
	if updated.ReserveX, err = checkedAdd(pool.ReserveX, dx, "reserve x"); err != nil {
		return types.DepositResult{}, pool, err
	}
	if updated.ReserveY, err = checkedAdd(pool.ReserveY, dy, "reserve y"); err != nil {
		return types.DepositResult{}, pool, err
	}
	if updated.LPSupply, err = checkedAdd(pool.LPSupply, lpDelta, "lp supply"); err != nil {
		return types.DepositResult{}, pool, err
	}
	if err := updated.Validate(); err != nil {
		return types.DepositResult{}, pool, err
	}

	return types.DepositResult{AmountX: dx, AmountY: dy, Shares: lpDelta}, updated, nil
}

// Withdraw burns lpBurn of withdrawer's shares and pays out at least minX
// and minY of the reserves.
func (k Keeper) Withdraw(ctx context.Context, poolID, withdrawer string, lpBurn, minX, minY uint64) (res types.WithdrawResult, err error) {
	scope := k.begin(ctx, opWithdraw, poolID)
	defer func() { k.finish(scope, err) }()

	if withdrawer == "" {
		return res, types.ErrUnauthorized.Wrap("withdrawer cannot be empty")
	}

	unlock := k.locks.lock(poolID)
	defer unlock()

	pool, err := k.GetPool(scope.ctx, poolID)
	if err != nil {
		return res, err
	}

	res, updated, err := planWithdraw(*pool, lpBurn, minX, minY)
	if err != nil {
		return types.WithdrawResult{}, err
	}

	var plan transferPlan
	plan.add(k.burnStep(*pool, withdrawer, res.Shares))
	plan.add(k.creditStep(*pool, withdrawer, pool.AssetX, res.AmountX))
	plan.add(k.creditStep(*pool, withdrawer, pool.AssetY, res.AmountY))
	if err := k.execute(scope, plan); err != nil {
		return types.WithdrawResult{}, err
	}

	if err := k.SetPool(scope.ctx, updated); err != nil {
		return types.WithdrawResult{}, err
	}

	k.recordPool(updated)
	scope.logger.Info(types.EventTypeWithdraw,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyAccount, withdrawer,
		types.AttributeKeyAmountX, res.AmountX,
		types.AttributeKeyAmountY, res.AmountY,
		types.AttributeKeyShares, res.Shares,
	)
	return res, nil
}

// planWithdraw computes a withdraw against pool without side effects.
func planWithdraw(pool types.Pool, lpBurn, minX, minY uint64) (types.WithdrawResult, types.Pool, error) {
	if pool.IsEmpty() {
		return types.WithdrawResult{}, pool, types.ErrEmptyPool.Wrapf("pool %s has nothing to redeem", pool.ID)
	}
	if lpBurn == 0 {
		return types.WithdrawResult{}, pool, types.ErrInvalidAmount.Wrap("shares to burn must be positive")
	}
	if lpBurn > pool.LPSupply {
		return types.WithdrawResult{}, pool, types.ErrInvalidAmount.Wrapf(
			"burn %d exceeds lp supply %d", lpBurn, pool.LPSupply)
	}

	dx, dy, err := curve.ReservesForBurn(pool.ReserveX, pool.ReserveY, pool.LPSupply, lpBurn, pool.Precision)
	if err != nil {
		return types.WithdrawResult{}, pool, err
	}

	if dx < minX || dy < minY {
		return types.WithdrawResult{}, pool, types.ErrSlippageExceeded.Wrapf(
			"withdraw pays %d/%d, minimums are %d/%d", dx, dy, minX, minY)
	}

	updated := pool
	updated.ReserveX -= dx
	updated.ReserveY -= dy
	updated.LPSupply -= lpBurn
	if err := updated.Validate(); err != nil {
		return types.WithdrawResult{}, pool, err
	}

	return types.WithdrawResult{AmountX: dx, AmountY: dy, Shares: lpBurn}, updated, nil
}

func checkedAdd(a, b uint64, what string) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, types.ErrOverflow.Wrapf("%s %d + %d exceeds 64 bits", what, a, b)
	}
	return sum, nil
}
