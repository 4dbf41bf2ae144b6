package curve_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/curve"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestScale(t *testing.T) {
	s, err := curve.Scale(6)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), s.Uint64())

	s, err = curve.Scale(types.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000_000_000_000), s.Uint64())

	_, err = curve.Scale(0)
	require.ErrorIs(t, err, types.ErrInvalidPrecision)
	_, err = curve.Scale(types.MaxPrecision + 1)
	require.ErrorIs(t, err, types.ErrInvalidPrecision)
}

func TestSharesToReserves(t *testing.T) {
	tests := []struct {
		name      string
		reserveX  uint64
		reserveY  uint64
		lpSupply  uint64
		lpDelta   uint64
		precision uint8
		wantX     uint64
		wantY     uint64
		wantErr   error
	}{
		{
			name:     "exact proportional deposit",
			reserveX: 1_000_000, reserveY: 2_000_000, lpSupply: 1_000_000, lpDelta: 1_000, precision: 6,
			wantX: 1_000, wantY: 2_000,
		},
		{
			name:     "doubling supply doubles reserves",
			reserveX: 1_000, reserveY: 2_000, lpSupply: 500, lpDelta: 500, precision: 6,
			wantX: 1_000, wantY: 2_000,
		},
		{
			name:     "ratio rounds up",
			reserveX: 10, reserveY: 10, lpSupply: 3, lpDelta: 1, precision: 1,
			// ratio = ceil(40/3) = 14, dx = ceil(10*14/10) - 10
			wantX: 4, wantY: 4,
		},
		{
			name:     "smallest delta still costs one unit",
			reserveX: 1_000_000, reserveY: 1_000_000, lpSupply: 1_000_000_000, lpDelta: 1, precision: 6,
			wantX: 1, wantY: 1,
		},
		{
			name:     "zero supply",
			reserveX: 1, reserveY: 1, lpSupply: 0, lpDelta: 1, precision: 6,
			wantErr: types.ErrOverflow,
		},
		{
			name:     "invalid precision",
			reserveX: 1, reserveY: 1, lpSupply: 1, lpDelta: 1, precision: 0,
			wantErr: types.ErrInvalidPrecision,
		},
		{
			name:     "product exceeds 128 bits",
			reserveX: math.MaxUint64, reserveY: math.MaxUint64, lpSupply: 1, lpDelta: math.MaxUint64, precision: 18,
			wantErr: types.ErrOverflow,
		},
		{
			name:     "delta exceeds 64 bits",
			reserveX: math.MaxUint64, reserveY: 1, lpSupply: 1, lpDelta: 2, precision: 6,
			wantErr: types.ErrOverflow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy, err := curve.SharesToReserves(tc.reserveX, tc.reserveY, tc.lpSupply, tc.lpDelta, tc.precision)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantX, dx)
			require.Equal(t, tc.wantY, dy)
		})
	}
}

func TestReservesForBurn(t *testing.T) {
	tests := []struct {
		name      string
		reserveX  uint64
		reserveY  uint64
		lpSupply  uint64
		lpBurn    uint64
		precision uint8
		wantX     uint64
		wantY     uint64
		wantErr   error
	}{
		{
			name:     "payout rounds down",
			reserveX: 1_001_000, reserveY: 2_002_000, lpSupply: 1_001_000, lpBurn: 1_000, precision: 6,
			wantX: 999, wantY: 1_999,
		},
		{
			name:     "half of the pool",
			reserveX: 1_000, reserveY: 4_000, lpSupply: 2_000, lpBurn: 1_000, precision: 6,
			wantX: 500, wantY: 2_000,
		},
		{
			name:     "full burn drains reserves",
			reserveX: 1_234, reserveY: 5_678, lpSupply: 99, lpBurn: 99, precision: 6,
			wantX: 1_234, wantY: 5_678,
		},
		{
			name:     "dust burn pays nothing",
			reserveX: 10, reserveY: 10, lpSupply: 1_000_000, lpBurn: 1, precision: 6,
			wantX: 0, wantY: 0,
		},
		{
			name:     "burn above supply underflows",
			reserveX: 10, reserveY: 10, lpSupply: 5, lpBurn: 6, precision: 6,
			wantErr: types.ErrOverflow,
		},
		{
			name:     "zero supply divides by zero",
			reserveX: 10, reserveY: 10, lpSupply: 0, lpBurn: 0, precision: 6,
			wantErr: types.ErrOverflow,
		},
		{
			name:     "max values stay in range",
			reserveX: math.MaxUint64, reserveY: math.MaxUint64, lpSupply: math.MaxUint64, lpBurn: math.MaxUint64, precision: 6,
			wantX: math.MaxUint64, wantY: math.MaxUint64,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy, err := curve.ReservesForBurn(tc.reserveX, tc.reserveY, tc.lpSupply, tc.lpBurn, tc.precision)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantX, dx)
			require.Equal(t, tc.wantY, dy)
		})
	}
}

func TestPartialBurnNeverEmptiesReserves(t *testing.T) {
	dx, dy, err := curve.ReservesForBurn(3, 7, 1_000, 999, 6)
	require.NoError(t, err)
	require.Less(t, dx, uint64(3))
	require.Less(t, dy, uint64(7))
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	const (
		reserveX = 1_000_000
		reserveY = 2_000_000
		supply   = 1_000_000
		delta    = 1_000
	)

	dx, dy, err := curve.SharesToReserves(reserveX, reserveY, supply, delta, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), dx)
	require.Equal(t, uint64(2_000), dy)

	wx, wy, err := curve.ReservesForBurn(reserveX+dx, reserveY+dy, supply+delta, delta, 6)
	require.NoError(t, err)
	require.Equal(t, dx-1, wx)
	require.Equal(t, dy-1, wy)
}
