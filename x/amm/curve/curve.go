// Package curve holds the pure constant-product math: conversions between
// LP-share deltas and reserve deltas, and the swap output formula.
//
// Every intermediate is a checked 128-bit value. Any step that overflows,
// underflows or divides by zero fails with types.ErrOverflow; nothing wraps
// or truncates silently.
//
// Rounding: every division in SharesToReserves and ReservesForBurn rounds up.
// A depositor therefore pays at least the exact proportional amount, and a
// withdrawer receives at most the exact proportional amount, so a deposit
// followed by a withdraw of the same shares never returns more than it took.
package curve

import (
	"github.com/paw-chain/cpamm/x/amm/types"
)

// SharesToReserves returns the reserve amounts a depositor must contribute
// to mint lpDelta new shares while keeping reserveX/reserveY unchanged.
//
//	ratio = (lpSupply + lpDelta) * scale / lpSupply
//	dx    = reserveX * ratio / scale - reserveX
//
// lpSupply must be positive; bootstrap deposits do not use this function.
func SharesToReserves(reserveX, reserveY, lpSupply, lpDelta uint64, precision uint8) (dx, dy uint64, err error) {
	scale, err := Scale(precision)
	if err != nil {
		return 0, 0, err
	}
	if lpSupply == 0 {
		return 0, 0, types.ErrOverflow.Wrap("division by zero: lp supply is zero")
	}

	newSupply, err := add(wide(lpSupply), wide(lpDelta))
	if err != nil {
		return 0, 0, err
	}
	num, err := mul(newSupply, scale)
	if err != nil {
		return 0, 0, err
	}
	ratio, err := ceilDiv(num, wide(lpSupply))
	if err != nil {
		return 0, 0, err
	}

	if dx, err = growth(reserveX, ratio, scale); err != nil {
		return 0, 0, err
	}
	if dy, err = growth(reserveY, ratio, scale); err != nil {
		return 0, 0, err
	}
	return dx, dy, nil
}

// ReservesForBurn returns the reserve amounts paid out for retiring lpBurn
// shares.
//
//	ratio = (lpSupply - lpBurn) * scale / lpSupply
//	dx    = reserveX - reserveX * ratio / scale
func ReservesForBurn(reserveX, reserveY, lpSupply, lpBurn uint64, precision uint8) (dx, dy uint64, err error) {
	scale, err := Scale(precision)
	if err != nil {
		return 0, 0, err
	}
	if lpSupply == 0 {
		return 0, 0, types.ErrOverflow.Wrap("division by zero: lp supply is zero")
	}

	remaining, err := sub(wide(lpSupply), wide(lpBurn))
	if err != nil {
		return 0, 0, err
	}
	num, err := mul(remaining, scale)
	if err != nil {
		return 0, 0, err
	}
	ratio, err := ceilDiv(num, wide(lpSupply))
	if err != nil {
		return 0, 0, err
	}

	if dx, err = shrink(reserveX, ratio, scale); err != nil {
		return 0, 0, err
	}
	if dy, err = shrink(reserveY, ratio, scale); err != nil {
		return 0, 0, err
	}
	return dx, dy, nil
}

// growth returns ceil(reserve * ratio / scale) - reserve.
func growth(reserve uint64, ratio, scale *Word) (uint64, error) {
	scaled, err := scaleReserve(reserve, ratio, scale)
	if err != nil {
		return 0, err
	}
	delta, err := sub(scaled, wide(reserve))
	if err != nil {
		return 0, err
	}
	return narrow(delta, "reserve delta")
}

// shrink returns reserve - ceil(reserve * ratio / scale).
func shrink(reserve uint64, ratio, scale *Word) (uint64, error) {
	scaled, err := scaleReserve(reserve, ratio, scale)
	if err != nil {
		return 0, err
	}
	delta, err := sub(wide(reserve), scaled)
	if err != nil {
		return 0, err
	}
	return narrow(delta, "reserve delta")
}

func scaleReserve(reserve uint64, ratio, scale *Word) (*Word, error) {
	product, err := mul(wide(reserve), ratio)
	if err != nil {
		return nil, err
	}
	return ceilDiv(product, scale)
}
