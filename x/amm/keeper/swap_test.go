package keeper_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestSwapReferenceExample(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)

	res, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.XToY, 10_000, 9_871)
	require.NoError(t, err)
	require.Equal(t, types.SwapResult{
		Direction:        types.XToY,
		AmountIn:         10_000,
		AmountInAfterFee: 9_970,
		Fee:              30,
		AmountOut:        9_871,
	}, res)

	stored, err := f.Keeper.GetPool(f.Ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1_010_000), stored.ReserveX)
	require.Equal(t, uint64(990_129), stored.ReserveY)
	require.Equal(t, uint64(1_000_000), stored.LPSupply)

	require.Equal(t, keepertest.FundedAmount-10_000, f.Bank.Balance(keepertest.Trader, keepertest.AssetX))
	require.Equal(t, keepertest.FundedAmount+9_871, f.Bank.Balance(keepertest.Trader, keepertest.AssetY))
	require.Equal(t, uint64(1_010_000), f.Bank.Balance(pool.Vault, keepertest.AssetX))
	require.Equal(t, uint64(990_129), f.Bank.Balance(pool.Vault, keepertest.AssetY))
}

func TestSwapYToX(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)

	res, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.YToX, 10_000, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(9_871), res.AmountOut)

	stored, err := f.Keeper.GetPool(f.Ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(990_129), stored.ReserveX)
	require.Equal(t, uint64(1_010_000), stored.ReserveY)
	require.Equal(t, keepertest.FundedAmount+9_871, f.Bank.Balance(keepertest.Trader, keepertest.AssetX))
}

func TestSwapSlippageLeavesStateUntouched(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)
	snap := takeSnapshot(t, f, pool)
	f.Bank.Reset()

	_, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.XToY, 10_000, 9_872)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
	require.True(t, types.IsRetryable(err))

	requireUnchanged(t, f, snap)
	require.Empty(t, f.Bank.Calls(), "rejected swap must not reach the ledger")
}

func TestSwapErrors(t *testing.T) {
	tests := []struct {
		name     string
		poolID   string
		trader   string
		dir      types.Direction
		amountIn uint64
		wantErr  error
	}{
		{name: "unknown pool", poolID: "missing", trader: keepertest.Trader, dir: types.XToY, amountIn: 100, wantErr: types.ErrPoolNotFound},
		{name: "zero input", poolID: "pool-1", trader: keepertest.Trader, dir: types.XToY, amountIn: 0, wantErr: types.ErrInvalidAmount},
		{name: "unknown direction", poolID: "pool-1", trader: keepertest.Trader, dir: types.Direction(9), amountIn: 100, wantErr: types.ErrInvalidDirection},
		{name: "output rounds to zero", poolID: "pool-1", trader: keepertest.Trader, dir: types.XToY, amountIn: 1, wantErr: types.ErrInvalidAmount},
		{name: "trader cannot pay", poolID: "pool-1", trader: keepertest.Trader, dir: types.XToY, amountIn: keepertest.FundedAmount + 1, wantErr: types.ErrInsufficientFunds},
		{name: "empty trader", poolID: "pool-1", trader: "", dir: types.XToY, amountIn: 100, wantErr: types.ErrUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := keepertest.AMMKeeper(t)
			pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)
			snap := takeSnapshot(t, f, pool)

			_, err := f.Keeper.Swap(f.Ctx, tc.poolID, tc.trader, tc.dir, tc.amountIn, 0)
			require.ErrorIs(t, err, tc.wantErr)
			requireUnchanged(t, f, snap)
		})
	}
}

func TestSwapEmptyPool(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.InitTestPool(t, "pool-1", 30)

	_, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.XToY, 1_000, 0)
	require.ErrorIs(t, err, types.ErrEmptyPool)
}

func TestSwapCanceledContext(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)
	snap := takeSnapshot(t, f, pool)

	_, err := f.Keeper.Swap(canceledContext(f.Ctx), pool.ID, keepertest.Trader, types.XToY, 10_000, 0)
	require.Error(t, err)
	requireUnchanged(t, f, snap)
}

func TestSwapFeeStaysInPool(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 100)

	kBefore := pool.ReserveX * pool.ReserveY
	for i := 0; i < 20; i++ {
		dir := types.XToY
		if i%2 == 1 {
			dir = types.YToX
		}
		_, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, dir, 25_000, 0)
		require.NoError(t, err)
	}

	stored, err := f.Keeper.GetPool(f.Ctx, pool.ID)
	require.NoError(t, err)
	require.Greater(t, stored.ReserveX*stored.ReserveY, kBefore)

	// Burning every share pays out the accumulated fees.
	res, err := f.Keeper.Withdraw(f.Ctx, pool.ID, keepertest.Provider, stored.LPSupply, 0, 0)
	require.NoError(t, err)
	require.Greater(t, res.AmountX+res.AmountY, uint64(2_000_000))
}

func TestSwapMetrics(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "pool-1", 1_000_000, 1_000_000, 1_000_000, 30)
	m := f.Keeper.Metrics()

	_, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.XToY, 10_000, 0)
	require.NoError(t, err)
	_, err = f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, types.XToY, 10_000, 1_000_000)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	require.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("swap", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("swap", "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SlippageRejections.WithLabelValues(pool.ID, "swap")))
	require.Equal(t, 10_000.0, testutil.ToFloat64(m.SwapVolume.WithLabelValues(pool.ID, keepertest.AssetX)))
	require.Equal(t, 30.0, testutil.ToFloat64(m.SwapFeesCollected.WithLabelValues(pool.ID, keepertest.AssetX)))
	require.Equal(t, 1_010_000.0, testutil.ToFloat64(m.PoolReserves.WithLabelValues(pool.ID, keepertest.AssetX)))
	require.Equal(t, 990_129.0, testutil.ToFloat64(m.PoolReserves.WithLabelValues(pool.ID, keepertest.AssetY)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PoolsTotal))

	count, err := testutil.GatherAndCount(f.Registry, "cpamm_amm_operations_total")
	require.NoError(t, err)
	require.Equal(t, 4, count, "initialize, deposit, swap success and swap failed")
}
