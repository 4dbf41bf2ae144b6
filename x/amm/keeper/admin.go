package keeper

import (
	"context"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// UpdateFee sets a pool's swap fee. Only the pool's authority may call it;
// pools created without an authority are immutable.
func (k Keeper) UpdateFee(ctx context.Context, poolID, caller string, feeBps uint16) (err error) {
	scope := k.begin(ctx, opUpdateFee, poolID)
	defer func() { k.finish(scope, err) }()

	if feeBps > types.MaxFeeBps {
		return types.ErrInvalidFee.Wrapf("fee %d bps exceeds %d", feeBps, types.MaxFeeBps)
	}

	unlock := k.locks.lock(poolID)
	defer unlock()

	pool, err := k.GetPool(scope.ctx, poolID)
	if err != nil {
		return err
	}
	if !pool.HasAuthority() {
		return types.ErrUnauthorized.Wrapf("pool %s has no authority", poolID)
	}
	if caller != pool.Authority {
		return types.ErrUnauthorized.Wrapf("%s is not the authority of pool %s", caller, poolID)
	}

	previous := pool.FeeBps
	pool.FeeBps = feeBps
	if err := k.SetPool(scope.ctx, *pool); err != nil {
		return err
	}

	scope.logger.Info(types.EventTypeFeeUpdated,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyAccount, caller,
		"previous_fee_bps", previous,
		types.AttributeKeyFeeBps, feeBps,
	)
	return nil
}
