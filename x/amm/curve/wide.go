package curve

import (
	"github.com/holiman/uint256"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// WideBits is the width of every intermediate value. Results above it are
// reported as overflow even though the backing word is larger.
const WideBits = 128

// Word is the backing type of intermediate values.
type Word = uint256.Int

func wide(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func checkWidth(z *uint256.Int, op string) error {
	if z.BitLen() > WideBits {
		return types.ErrOverflow.Wrapf("%s exceeds %d bits", op, WideBits)
	}
	return nil
}

// add returns a + b.
func add(a, b *uint256.Int) (*uint256.Int, error) {
	z, carry := new(uint256.Int).AddOverflow(a, b)
	if carry {
		return nil, types.ErrOverflow.Wrap("addition")
	}
	if err := checkWidth(z, "addition"); err != nil {
		return nil, err
	}
	return z, nil
}

// sub returns a - b, failing on underflow.
func sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, borrow := new(uint256.Int).SubOverflow(a, b)
	if borrow {
		return nil, types.ErrOverflow.Wrapf("subtraction underflow: %s - %s", a.Dec(), b.Dec())
	}
	return z, nil
}

// mul returns a * b.
func mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, over := new(uint256.Int).MulOverflow(a, b)
	if over {
		return nil, types.ErrOverflow.Wrap("multiplication")
	}
	if err := checkWidth(z, "multiplication"); err != nil {
		return nil, err
	}
	return z, nil
}

// floorDiv returns a / b rounded down.
func floorDiv(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, types.ErrOverflow.Wrap("division by zero")
	}
	return new(uint256.Int).Div(a, b), nil
}

// ceilDiv returns a / b rounded up.
func ceilDiv(a, b *uint256.Int) (*uint256.Int, error) {
	q, err := floorDiv(a, b)
	if err != nil {
		return nil, err
	}
	if !new(uint256.Int).Mod(a, b).IsZero() {
		return add(q, wide(1))
	}
	return q, nil
}

// narrow converts z back to 64 bits.
func narrow(z *uint256.Int, what string) (uint64, error) {
	if !z.IsUint64() {
		return 0, types.ErrOverflow.Wrapf("%s %s does not fit in 64 bits", what, z.Dec())
	}
	return z.Uint64(), nil
}

// Scale returns 10^precision.
func Scale(precision uint8) (*uint256.Int, error) {
	if err := types.ValidatePrecision(precision); err != nil {
		return nil, err
	}
	return new(uint256.Int).Exp(wide(10), wide(uint64(precision))), nil
}
