package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestInitializePool(t *testing.T) {
	f := keepertest.AMMKeeper(t)

	pool := f.InitTestPool(t, "pool-1", 30)
	require.True(t, pool.IsEmpty())
	require.Equal(t, types.DefaultPrecision, pool.Precision)
	require.Equal(t, uint64(1), f.Keeper.PoolCount(f.Ctx))

	stored, err := f.Keeper.GetPool(f.Ctx, "pool-1")
	require.NoError(t, err)
	require.Equal(t, pool, *stored)

	_, err = f.Keeper.InitializePool(f.Ctx, types.MsgInitializePool{
		Creator:    keepertest.Admin,
		PoolID:     "pool-1",
		AssetX:     "other",
		AssetY:     keepertest.AssetY,
		ShareAsset: "lp/other",
		Vault:      "vault/other",
	})
	require.ErrorIs(t, err, types.ErrPoolAlreadyExists)
	require.Equal(t, uint64(1), f.Keeper.PoolCount(f.Ctx))
}

func TestInitializePoolValidation(t *testing.T) {
	base := types.MsgInitializePool{
		Creator:    keepertest.Admin,
		PoolID:     "pool-1",
		AssetX:     keepertest.AssetX,
		AssetY:     keepertest.AssetY,
		ShareAsset: "lp/pool-1",
		Vault:      "vault/pool-1",
		FeeBps:     30,
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgInitializePool)
		wantErr error
	}{
		{name: "same asset twice", mutate: func(m *types.MsgInitializePool) { m.AssetY = m.AssetX }, wantErr: types.ErrInvalidPool},
		{name: "share asset reuses reserve asset", mutate: func(m *types.MsgInitializePool) { m.ShareAsset = m.AssetX }, wantErr: types.ErrInvalidPool},
		{name: "fee above 100%", mutate: func(m *types.MsgInitializePool) { m.FeeBps = types.MaxFeeBps + 1 }, wantErr: types.ErrInvalidFee},
		{name: "precision too large", mutate: func(m *types.MsgInitializePool) { m.Precision = types.MaxPrecision + 1 }, wantErr: types.ErrInvalidPrecision},
		{name: "missing vault", mutate: func(m *types.MsgInitializePool) { m.Vault = "" }, wantErr: types.ErrInvalidPool},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.AMMKeeper(t)
			msg := base
			tc.mutate(&msg)

			_, err := f.Keeper.InitializePool(f.Ctx, msg)
			require.ErrorIs(t, err, tc.wantErr)
			require.False(t, f.Keeper.HasPool(f.Ctx, msg.PoolID))
			require.Zero(t, f.Keeper.PoolCount(f.Ctx))
		})
	}
}

func TestGetAllPoolsOrdered(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	for _, id := range []string{"c", "a", "b"} {
		f.InitTestPool(t, id, 30)
	}

	pools, err := f.Keeper.GetAllPools(f.Ctx)
	require.NoError(t, err)
	require.Len(t, pools, 3)
	require.Equal(t, "a", pools[0].ID)
	require.Equal(t, "b", pools[1].ID)
	require.Equal(t, "c", pools[2].ID)

	var seen []string
	require.NoError(t, f.Keeper.IteratePools(f.Ctx, func(pool types.Pool) bool {
		seen = append(seen, pool.ID)
		return len(seen) == 2
	}))
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestPoolsAreIndependent(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	a := f.CreateTestPool(t, "a", 1_000_000, 1_000_000, 1_000_000, 30)
	b := f.CreateTestPool(t, "b", 1_000_000, 1_000_000, 1_000_000, 30)

	_, err := f.Keeper.Swap(f.Ctx, a.ID, keepertest.Trader, types.XToY, 10_000, 0)
	require.NoError(t, err)

	stored, err := f.Keeper.GetPool(f.Ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b, *stored)
	require.Equal(t, uint64(1_000_000), f.Bank.Balance(b.Vault, keepertest.AssetX))
}

func TestInitializePoolRejectsClaimedIdentities(t *testing.T) {
	next := types.MsgInitializePool{
		Creator:    keepertest.Admin,
		PoolID:     "pool-b",
		AssetX:     keepertest.AssetX,
		AssetY:     keepertest.AssetY,
		ShareAsset: "lp/pool-b",
		Vault:      "vault/pool-b",
		FeeBps:     30,
	}

	tests := []struct {
		name   string
		setup  func(t *testing.T, f keepertest.Fixture)
		mutate func(*types.MsgInitializePool)
	}{
		{
			name:   "share asset of another pool",
			mutate: func(m *types.MsgInitializePool) { m.ShareAsset = "lp/pool-a" },
		},
		{
			name:   "reserve asset of another pool",
			mutate: func(m *types.MsgInitializePool) {
				m.AssetX, m.AssetY, m.ShareAsset = "osmo", "juno", keepertest.AssetY
			},
		},
		{
			name:   "reserve asset is another pool's share asset",
			mutate: func(m *types.MsgInitializePool) { m.AssetX = "lp/pool-a" },
		},
		{
			name:   "vault of another pool",
			mutate: func(m *types.MsgInitializePool) { m.Vault = "vault/pool-a" },
		},
		{
			name: "share asset already held",
			setup: func(t *testing.T, f keepertest.Fixture) {
				require.NoError(t, f.Bank.Fund(f.Ctx, keepertest.Trader, "lp/pool-b", 1))
			},
		},
		{
			name: "share asset already minted",
			setup: func(t *testing.T, f keepertest.Fixture) {
				require.NoError(t, f.Bank.Mint(f.Ctx, "lp/pool-b", keepertest.Trader, 1))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.AMMKeeper(t)
			f.CreateTestPool(t, "pool-a", 1_000_000, 1_000_000, 1_000_000, 30)
			if tc.setup != nil {
				tc.setup(t, f)
			}
			msg := next
			if tc.mutate != nil {
				tc.mutate(&msg)
			}

			_, err := f.Keeper.InitializePool(f.Ctx, msg)
			require.ErrorIs(t, err, types.ErrInvalidPool)
			require.False(t, f.Keeper.HasPool(f.Ctx, msg.PoolID))
			require.Equal(t, uint64(1), f.Keeper.PoolCount(f.Ctx))
		})
	}
}

func TestSharesOfOnePoolCannotRedeemAnother(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	a := f.CreateTestPool(t, "pool-a", 1_000_000, 1_000_000, 1_000_000, 30)

	_, err := f.Keeper.InitializePool(f.Ctx, types.MsgInitializePool{
		Creator:    keepertest.Trader,
		PoolID:     "pool-b",
		AssetX:     keepertest.AssetX,
		AssetY:     keepertest.AssetY,
		ShareAsset: a.ShareAsset,
		Vault:      "vault/pool-b",
	})
	require.ErrorIs(t, err, types.ErrInvalidPool)

	_, err = f.Keeper.Deposit(f.Ctx, "pool-b", keepertest.Trader, 1_000_000, 1, 1)
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	_, err = f.Keeper.Withdraw(f.Ctx, a.ID, keepertest.Trader, 1_000_000, 0, 0)
	require.ErrorIs(t, err, types.ErrInsufficientShares)
	require.Equal(t, uint64(1_000_000), f.Bank.Balance(a.Vault, keepertest.AssetX))
}
