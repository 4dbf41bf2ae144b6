package keeper

import (
	"context"

	"cosmossdk.io/store/cachekv"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitGenesis loads pools from gs. Pools are written to a cache branch and
// flushed only when every pool was accepted.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	branch := cachekv.NewStore(k.getStore(ctx))
	bctx := withStore(ctx, branch)

	count := k.PoolCount(bctx)
	for _, pool := range gs.Pools {
		if k.HasPool(bctx, pool.ID) {
			return types.ErrPoolAlreadyExists.Wrapf("genesis pool %s", pool.ID)
		}
		if err := k.checkNoConflict(bctx, pool); err != nil {
			return types.ErrInvalidGenesis.Wrapf("pool %s: %v", pool.ID, err)
		}
		if err := k.SetPool(bctx, pool); err != nil {
			return types.ErrInvalidGenesis.Wrapf("pool %s: %v", pool.ID, err)
		}
		count++
	}
	k.setPoolCount(bctx, count)

	branch.Write()

	if err := k.RecordPoolMetrics(ctx); err != nil {
		return err
	}
	k.logger.Info("initialized genesis", "pools", len(gs.Pools))
	return nil
}

// ExportGenesis returns the module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{Pools: pools}, nil
}
