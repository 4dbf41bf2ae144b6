package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"

	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitializePool creates an empty pool from msg.
func (k Keeper) InitializePool(ctx context.Context, msg types.MsgInitializePool) (_ *types.Pool, err error) {
	scope := k.begin(ctx, opInitialize, msg.PoolID)
	defer func() { k.finish(scope, err) }()

	pool := msg.Pool()
	if pool.Precision == 0 {
		pool.Precision = k.defaultPrecision
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}

	unlockIdentities := k.locks.lockIdentities()
	defer unlockIdentities()
	unlock := k.locks.lock(pool.ID)
	defer unlock()

	if k.HasPool(ctx, pool.ID) {
		return nil, types.ErrPoolAlreadyExists.Wrapf("pool %s", pool.ID)
	}
	if err := k.checkIdentitiesFree(ctx, pool); err != nil {
		return nil, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return nil, err
	}
	count := k.incrementPoolCount(ctx)

	k.metrics.PoolsTotal.Set(float64(count))
	k.recordPool(pool)
	scope.logger.Info(types.EventTypePoolInitialized,
		types.AttributeKeyPoolID, pool.ID,
		"asset_x", pool.AssetX,
		"asset_y", pool.AssetY,
		types.AttributeKeyFeeBps, pool.FeeBps,
		"precision", pool.Precision,
		"authority", pool.Authority,
	)

	return &pool, nil
}

// checkIdentitiesFree rejects a share asset or vault that another pool
// already claims, and a share asset that is already in circulation. Burns are
// keyed by share asset alone, so a shared share asset would let one pool's
// shares redeem another pool's reserves.
func (k Keeper) checkIdentitiesFree(ctx context.Context, pool types.Pool) error {
	if err := k.checkNoConflict(ctx, pool); err != nil {
		return err
	}
	if reader, ok := k.shares.(SupplyReader); ok {
		if supply := reader.Supply(pool.ShareAsset); supply != 0 {
			return types.ErrInvalidPool.Wrapf("share asset %s already has supply %d", pool.ShareAsset, supply)
		}
	}
	if reader, ok := k.shares.(HoldingsReader); ok && reader.HasHolders(pool.ShareAsset) {
		return types.ErrInvalidPool.Wrapf("share asset %s is already held", pool.ShareAsset)
	}
	return nil
}

// checkNoConflict compares pool against every stored pool.
func (k Keeper) checkNoConflict(ctx context.Context, pool types.Pool) error {
	var conflict error
	err := k.IteratePools(ctx, func(other types.Pool) bool {
		conflict = types.IdentityConflict(pool, other)
		return conflict != nil
	})
	if err != nil {
		return err
	}
	return conflict
}

// GetPool returns a pool by ID
func (k Keeper) GetPool(ctx context.Context, poolID string) (*types.Pool, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.PoolKey(poolID))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %s not found", poolID)
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, types.ErrStateCorruption.Wrapf("decode pool %s: %v", poolID, err)
	}
	return &pool, nil
}

// HasPool reports whether poolID exists.
func (k Keeper) HasPool(ctx context.Context, poolID string) bool {
	return k.getStore(ctx).Has(types.PoolKey(poolID))
}

// SetPool validates and stores a pool record. It is the only write path for
// pool state.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(pool)
	if err != nil {
		return types.ErrStateCorruption.Wrapf("encode pool %s: %v", pool.ID, err)
	}
	k.getStore(ctx).Set(types.PoolKey(pool.ID), bz)
	return nil
}

// IteratePools calls cb for every pool in key order until cb returns true.
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return types.ErrStateCorruption.Wrapf("decode pool at %x: %v", iterator.Key(), err)
		}
		if cb(pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	pools := []types.Pool{}
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// PoolCount returns the number of initialized pools.
func (k Keeper) PoolCount(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PoolCountKey)
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setPoolCount(ctx context.Context, count uint64) {
	k.getStore(ctx).Set(types.PoolCountKey, binary.BigEndian.AppendUint64(nil, count))
}

func (k Keeper) incrementPoolCount(ctx context.Context) uint64 {
	count := k.PoolCount(ctx) + 1
	k.setPoolCount(ctx, count)
	return count
}

// RecordPoolMetrics sets the pool gauges from stored state.
func (k Keeper) RecordPoolMetrics(ctx context.Context) error {
	k.metrics.PoolsTotal.Set(float64(k.PoolCount(ctx)))
	return k.IteratePools(ctx, func(pool types.Pool) bool {
		k.recordPool(pool)
		return false
	})
}

// recordPool refreshes the pool gauges.
func (k Keeper) recordPool(pool types.Pool) {
	k.metrics.PoolReserves.WithLabelValues(pool.ID, pool.AssetX).Set(float64(pool.ReserveX))
	k.metrics.PoolReserves.WithLabelValues(pool.ID, pool.AssetY).Set(float64(pool.ReserveY))
	k.metrics.LPTokenSupply.WithLabelValues(pool.ID).Set(float64(pool.LPSupply))
}
