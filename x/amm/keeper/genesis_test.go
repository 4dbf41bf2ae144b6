package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func genesisPool(id string, reserveX, reserveY, lpSupply uint64) types.Pool {
	return types.Pool{
		ID:         id,
		AssetX:     keepertest.AssetX,
		AssetY:     keepertest.AssetY,
		ShareAsset: "lp/" + id,
		Vault:      "vault/" + id,
		ReserveX:   reserveX,
		ReserveY:   reserveY,
		LPSupply:   lpSupply,
		FeeBps:     30,
		Precision:  types.DefaultPrecision,
		Authority:  keepertest.Admin,
	}
}

func TestGenesisRoundTrip(t *testing.T) {
	f := keepertest.AMMKeeper(t)

	gs := types.GenesisState{Pools: []types.Pool{
		genesisPool("a", 1_000, 2_000, 1_000),
		genesisPool("b", 0, 0, 0),
	}}
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, gs))
	require.Equal(t, uint64(2), f.Keeper.PoolCount(f.Ctx))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, gs.Pools, exported.Pools)
}

func TestGenesisDefaultIsEmpty(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, *types.DefaultGenesis()))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Empty(t, exported.Pools)
}

func TestGenesisIsAllOrNothing(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	f.InitTestPool(t, "b", 30)

	gs := types.GenesisState{Pools: []types.Pool{
		genesisPool("a", 1_000, 2_000, 1_000),
		genesisPool("b", 1_000, 2_000, 1_000),
	}}
	err := f.Keeper.InitGenesis(f.Ctx, gs)
	require.ErrorIs(t, err, types.ErrPoolAlreadyExists)

	require.False(t, f.Keeper.HasPool(f.Ctx, "a"), "pool a must not be written when b is rejected")
	require.Equal(t, uint64(1), f.Keeper.PoolCount(f.Ctx))
}

func TestGenesisRejectsInvalidState(t *testing.T) {
	f := keepertest.AMMKeeper(t)

	err := f.Keeper.InitGenesis(f.Ctx, types.GenesisState{Pools: []types.Pool{
		genesisPool("a", 1_000, 0, 1_000),
	}})
	require.ErrorIs(t, err, types.ErrInvalidGenesis)
	require.Contains(t, err.Error(), "partially funded")

	err = f.Keeper.InitGenesis(f.Ctx, types.GenesisState{Pools: []types.Pool{
		genesisPool("a", 1_000, 2_000, 1_000),
		genesisPool("a", 1_000, 2_000, 1_000),
	}})
	require.ErrorIs(t, err, types.ErrInvalidGenesis)
	require.Zero(t, f.Keeper.PoolCount(f.Ctx))
}

func TestGenesisRejectsClaimedIdentities(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	stored := f.InitTestPool(t, "a", 30)

	clash := genesisPool("b", 1_000, 2_000, 1_000)
	clash.ShareAsset = stored.ShareAsset
	err := f.Keeper.InitGenesis(f.Ctx, types.GenesisState{Pools: []types.Pool{
		genesisPool("c", 1_000, 2_000, 1_000),
		clash,
	}})
	require.ErrorIs(t, err, types.ErrInvalidGenesis)
	require.ErrorContains(t, err, "belongs to pool a")
	require.False(t, f.Keeper.HasPool(f.Ctx, "c"))
	require.Equal(t, uint64(1), f.Keeper.PoolCount(f.Ctx))
}
