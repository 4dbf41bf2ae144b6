package curve

import (
	"github.com/paw-chain/cpamm/x/amm/types"
)

// SwapQuote is the full breakdown of one swap against fixed reserves.
type SwapQuote struct {
	AmountIn         uint64
	AmountInAfterFee uint64
	Fee              uint64
	// K is reserveIn * reserveOut before the swap.
	K         *Word
	AmountOut uint64

	// Reserves after applying the swap. The input reserve grows by the
	// full AmountIn, fee included.
	NewReserveIn  uint64
	NewReserveOut uint64
}

// ApplyFee returns amountIn * (10000 - feeBps) / 10000, rounded down.
func ApplyFee(amountIn uint64, feeBps uint16) (uint64, error) {
	if feeBps > types.MaxFeeBps {
		return 0, types.ErrInvalidFee.Wrapf("fee %d bps exceeds %d", feeBps, types.MaxFeeBps)
	}
	num, err := mul(wide(amountIn), wide(types.BasisPointDivisor-uint64(feeBps)))
	if err != nil {
		return 0, err
	}
	after, err := floorDiv(num, wide(types.BasisPointDivisor))
	if err != nil {
		return 0, err
	}
	return narrow(after, "amount after fee")
}

// SwapOutput prices amountIn against (reserveIn, reserveOut):
//
//	k         = reserveIn * reserveOut
//	newIn     = reserveIn + amountInAfterFee
//	newOut    = k / newIn
//	amountOut = reserveOut - newOut
//
// The output uses the fee-reduced input while the returned NewReserveIn adds
// the full amountIn.
func SwapOutput(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (SwapQuote, error) {
	if amountIn == 0 {
		return SwapQuote{}, types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if reserveIn == 0 || reserveOut == 0 {
		return SwapQuote{}, types.ErrInsufficientLiquidity.Wrapf("reserves %d/%d", reserveIn, reserveOut)
	}

	after, err := ApplyFee(amountIn, feeBps)
	if err != nil {
		return SwapQuote{}, err
	}

	k, err := mul(wide(reserveIn), wide(reserveOut))
	if err != nil {
		return SwapQuote{}, err
	}
	newIn, err := add(wide(reserveIn), wide(after))
	if err != nil {
		return SwapQuote{}, err
	}
	newOut, err := floorDiv(k, newIn)
	if err != nil {
		return SwapQuote{}, err
	}
	if newOut.IsZero() {
		return SwapQuote{}, types.ErrInsufficientLiquidity.Wrapf(
			"swap of %d would drain output reserve %d", amountIn, reserveOut)
	}
	out, err := sub(wide(reserveOut), newOut)
	if err != nil {
		return SwapQuote{}, err
	}
	amountOut, err := narrow(out, "amount out")
	if err != nil {
		return SwapQuote{}, err
	}

	grown, err := add(wide(reserveIn), wide(amountIn))
	if err != nil {
		return SwapQuote{}, err
	}
	newReserveIn, err := narrow(grown, "input reserve")
	if err != nil {
		return SwapQuote{}, err
	}

	newReserveOut := reserveOut - amountOut

	// Flooring newOut favors the trader, so tiny pools can lose product.
	productAfter, err := mul(wide(newReserveIn), wide(newReserveOut))
	if err != nil {
		return SwapQuote{}, err
	}
	if productAfter.Lt(k) {
		return SwapQuote{}, types.ErrInvariantViolation.Wrapf(
			"product would fall from %s to %s", k.Dec(), productAfter.Dec())
	}

	return SwapQuote{
		AmountIn:         amountIn,
		AmountInAfterFee: after,
		Fee:              amountIn - after,
		K:                k,
		AmountOut:        amountOut,
		NewReserveIn:     newReserveIn,
		NewReserveOut:    newReserveOut,
	}, nil
}
