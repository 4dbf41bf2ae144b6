package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/types"
)

func validPool() types.Pool {
	return types.Pool{
		ID:         "pool-usdc-atom",
		AssetX:     "usdc",
		AssetY:     "atom",
		ShareAsset: "lp/pool-usdc-atom",
		Vault:      "vault/pool-usdc-atom",
		FeeBps:     types.DefaultFeeBps,
		Precision:  types.DefaultPrecision,
	}
}

func TestPoolValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Pool)
		wantErr error
	}{
		{"empty pool", func(*types.Pool) {}, nil},
		{"funded pool", func(p *types.Pool) { p.ReserveX, p.ReserveY, p.LPSupply = 1, 2, 3 }, nil},
		{"missing id", func(p *types.Pool) { p.ID = "  " }, types.ErrInvalidPool},
		{"missing asset", func(p *types.Pool) { p.AssetY = "" }, types.ErrInvalidPool},
		{"identical assets", func(p *types.Pool) { p.AssetY = p.AssetX }, types.ErrInvalidPool},
		{"missing share asset", func(p *types.Pool) { p.ShareAsset = "" }, types.ErrInvalidPool},
		{"share asset collides", func(p *types.Pool) { p.ShareAsset = p.AssetX }, types.ErrInvalidPool},
		{"missing vault", func(p *types.Pool) { p.Vault = "" }, types.ErrInvalidPool},
		{"fee too high", func(p *types.Pool) { p.FeeBps = types.MaxFeeBps + 1 }, types.ErrInvalidFee},
		{"fee at max", func(p *types.Pool) { p.FeeBps = types.MaxFeeBps }, nil},
		{"zero precision", func(p *types.Pool) { p.Precision = 0 }, types.ErrInvalidPrecision},
		{"precision too high", func(p *types.Pool) { p.Precision = types.MaxPrecision + 1 }, types.ErrInvalidPrecision},
		{"reserve without supply", func(p *types.Pool) { p.ReserveX, p.ReserveY = 1, 1 }, types.ErrInvariantViolation},
		{"supply without reserves", func(p *types.Pool) { p.LPSupply = 1 }, types.ErrInvariantViolation},
		{"one reserve empty", func(p *types.Pool) { p.ReserveX, p.LPSupply = 5, 5 }, types.ErrInvariantViolation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := validPool()
			tc.mutate(&pool)
			err := pool.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPoolDirectionAccessors(t *testing.T) {
	pool := validPool()
	pool.ReserveX, pool.ReserveY = 100, 200

	in, out := pool.Reserves(types.XToY)
	require.Equal(t, uint64(100), in)
	require.Equal(t, uint64(200), out)
	in, out = pool.Reserves(types.YToX)
	require.Equal(t, uint64(200), in)
	require.Equal(t, uint64(100), out)

	assetIn, assetOut := pool.Assets(types.YToX)
	require.Equal(t, "atom", assetIn)
	require.Equal(t, "usdc", assetOut)

	require.False(t, pool.IsEmpty())
	require.False(t, pool.HasAuthority())
	require.Contains(t, pool.String(), "pool-usdc-atom")
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"x_to_y", "X", "xy"} {
		d, err := types.ParseDirection(s)
		require.NoError(t, err)
		require.Equal(t, types.XToY, d)
	}
	for _, s := range []string{"y_to_x", " y ", "YX"} {
		d, err := types.ParseDirection(s)
		require.NoError(t, err)
		require.Equal(t, types.YToX, d)
	}

	_, err := types.ParseDirection("sideways")
	require.ErrorIs(t, err, types.ErrInvalidDirection)

	require.ErrorIs(t, types.Direction(0).Validate(), types.ErrInvalidDirection)
	require.Equal(t, "y_to_x", types.YToX.String())
}

func TestErrorClassification(t *testing.T) {
	require.True(t, types.IsArithmetic(types.ErrOverflow.Wrap("mul")))
	require.False(t, types.IsArithmetic(types.ErrSlippageExceeded))

	require.True(t, types.IsRetryable(types.ErrSlippageExceeded.Wrap("min out")))
	require.True(t, types.IsRetryable(types.ErrInsufficientFunds))
	require.False(t, types.IsRetryable(types.ErrOverflow))
	require.False(t, types.IsRetryable(nil))
}

func TestKeysAreDisjoint(t *testing.T) {
	require.NotEqual(t, types.BalanceKey("ab", "c"), types.BalanceKey("a", "bc"))
	require.Equal(t, types.PoolKeyPrefix[0], types.PoolKey("p")[0])
	require.Equal(t, types.ShareSupplyPrefix[0], types.ShareSupplyKey("lp")[0])
}
