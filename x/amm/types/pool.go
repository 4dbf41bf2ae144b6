package types

import (
	"fmt"
	"strings"
)

// Pool is the persisted record of one constant-product pool.
type Pool struct {
	ID         string `json:"id"`
	AssetX     string `json:"asset_x"`
	AssetY     string `json:"asset_y"`
	ShareAsset string `json:"share_asset"`
	Vault      string `json:"vault"`

	ReserveX uint64 `json:"reserve_x"`
	ReserveY uint64 `json:"reserve_y"`
	LPSupply uint64 `json:"lp_supply"`

	FeeBps    uint16 `json:"fee_bps"`
	Precision uint8  `json:"precision"`
	Authority string `json:"authority,omitempty"`
}

// IsEmpty reports whether the pool holds no reserves and no shares.
func (p Pool) IsEmpty() bool {
	return p.ReserveX == 0 && p.ReserveY == 0 && p.LPSupply == 0
}

// HasAuthority reports whether a privileged authority was configured.
func (p Pool) HasAuthority() bool {
	return p.Authority != ""
}

// Reserves returns (reserveIn, reserveOut) for a swap in direction dir.
func (p Pool) Reserves(dir Direction) (uint64, uint64) {
	if dir == YToX {
		return p.ReserveY, p.ReserveX
	}
	return p.ReserveX, p.ReserveY
}

// Assets returns (assetIn, assetOut) for a swap in direction dir.
func (p Pool) Assets(dir Direction) (string, string) {
	if dir == YToX {
		return p.AssetY, p.AssetX
	}
	return p.AssetX, p.AssetY
}

// ValidateIdentity checks the identity and configuration fields.
func (p Pool) ValidateIdentity() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidPool.Wrap("pool id cannot be empty")
	}
	if p.AssetX == "" || p.AssetY == "" {
		return ErrInvalidPool.Wrap("asset identities cannot be empty")
	}
	if p.AssetX == p.AssetY {
		return ErrInvalidPool.Wrapf("identical assets %s", p.AssetX)
	}
	if p.ShareAsset == "" {
		return ErrInvalidPool.Wrap("share asset cannot be empty")
	}
	if p.ShareAsset == p.AssetX || p.ShareAsset == p.AssetY {
		return ErrInvalidPool.Wrapf("share asset %s collides with a reserve asset", p.ShareAsset)
	}
	if p.Vault == "" {
		return ErrInvalidPool.Wrap("vault cannot be empty")
	}
	if p.FeeBps > MaxFeeBps {
		return ErrInvalidFee.Wrapf("fee %d bps exceeds %d", p.FeeBps, MaxFeeBps)
	}
	return ValidatePrecision(p.Precision)
}

// Validate checks identity plus the funded-or-empty invariant: either all of
// ReserveX, ReserveY and LPSupply are zero or none of them are.
func (p Pool) Validate() error {
	if err := p.ValidateIdentity(); err != nil {
		return err
	}

	funded := 0
	for _, v := range []uint64{p.ReserveX, p.ReserveY, p.LPSupply} {
		if v > 0 {
			funded++
		}
	}
	if funded != 0 && funded != 3 {
		return ErrInvariantViolation.Wrapf(
			"pool %s partially funded: reserve_x=%d reserve_y=%d lp_supply=%d",
			p.ID, p.ReserveX, p.ReserveY, p.LPSupply,
		)
	}
	return nil
}

// IdentityConflict reports whether p claims a share asset or vault of other.
// A share asset must not be any other pool's share or reserve asset, and no
// two pools share a vault.
func IdentityConflict(p, other Pool) error {
	switch p.ShareAsset {
	case other.ShareAsset:
		return ErrInvalidPool.Wrapf("share asset %s belongs to pool %s", p.ShareAsset, other.ID)
	case other.AssetX, other.AssetY:
		return ErrInvalidPool.Wrapf("share asset %s is a reserve asset of pool %s", p.ShareAsset, other.ID)
	}
	if other.ShareAsset == p.AssetX || other.ShareAsset == p.AssetY {
		return ErrInvalidPool.Wrapf("reserve asset %s is the share asset of pool %s", other.ShareAsset, other.ID)
	}
	if p.Vault == other.Vault {
		return ErrInvalidPool.Wrapf("vault %s belongs to pool %s", p.Vault, other.ID)
	}
	return nil
}

func (p Pool) String() string {
	return fmt.Sprintf("Pool{%s %s/%s reserves=%d/%d lp=%d fee=%dbps precision=%d}",
		p.ID, p.AssetX, p.AssetY, p.ReserveX, p.ReserveY, p.LPSupply, p.FeeBps, p.Precision)
}

// ValidatePrecision checks the decimal digits of a pool ratio scale.
func ValidatePrecision(precision uint8) error {
	if precision == 0 || precision > MaxPrecision {
		return ErrInvalidPrecision.Wrapf("precision %d outside [1, %d]", precision, MaxPrecision)
	}
	return nil
}

// Direction selects the input asset of a swap.
type Direction uint8

const (
	// XToY swaps asset X in for asset Y out.
	XToY Direction = iota + 1
	// YToX swaps asset Y in for asset X out.
	YToX
)

// Validate checks dir is one of the two swap directions.
func (d Direction) Validate() error {
	if d != XToY && d != YToX {
		return ErrInvalidDirection.Wrapf("unknown direction %d", d)
	}
	return nil
}

func (d Direction) String() string {
	switch d {
	case XToY:
		return "x_to_y"
	case YToX:
		return "y_to_x"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection parses the String form of a Direction. "x" and "y" name the
// input asset.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x_to_y", "x", "xy":
		return XToY, nil
	case "y_to_x", "y", "yx":
		return YToX, nil
	default:
		return 0, ErrInvalidDirection.Wrapf("cannot parse %q", s)
	}
}

// DepositResult reports the amounts moved by a deposit.
type DepositResult struct {
	AmountX uint64 `json:"amount_x"`
	AmountY uint64 `json:"amount_y"`
	Shares  uint64 `json:"shares"`
}

// SwapResult reports the amounts moved by a swap.
type SwapResult struct {
	Direction        Direction `json:"direction"`
	AmountIn         uint64    `json:"amount_in"`
	AmountInAfterFee uint64    `json:"amount_in_after_fee"`
	Fee              uint64    `json:"fee"`
	AmountOut        uint64    `json:"amount_out"`
}

// WithdrawResult reports the amounts moved by a withdraw.
type WithdrawResult struct {
	AmountX uint64 `json:"amount_x"`
	AmountY uint64 `json:"amount_y"`
	Shares  uint64 `json:"shares"`
}
