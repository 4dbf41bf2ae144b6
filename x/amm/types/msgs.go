package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// MsgInitializePool creates an empty pool. Identities are injected by the
// caller; derivation from the asset pair happens outside this module.
type MsgInitializePool struct {
	Creator    string `json:"creator"`
	PoolID     string `json:"pool_id"`
	AssetX     string `json:"asset_x"`
	AssetY     string `json:"asset_y"`
	ShareAsset string `json:"share_asset"`
	Vault      string `json:"vault"`
	FeeBps     uint16 `json:"fee_bps"`
	// Precision of 0 selects the keeper default.
	Precision uint8  `json:"precision"`
	Authority string `json:"authority,omitempty"`
}

// Pool returns the empty pool described by msg. Precision is taken as-is.
func (msg MsgInitializePool) Pool() Pool {
	return Pool{
		ID:         msg.PoolID,
		AssetX:     msg.AssetX,
		AssetY:     msg.AssetY,
		ShareAsset: msg.ShareAsset,
		Vault:      msg.Vault,
		FeeBps:     msg.FeeBps,
		Precision:  msg.Precision,
		Authority:  msg.Authority,
	}
}

// ValidateBasic performs stateless checks.
func (msg MsgInitializePool) ValidateBasic() error {
	if strings.TrimSpace(msg.Creator) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "creator cannot be empty")
	}
	pool := msg.Pool()
	if pool.Precision == 0 {
		pool.Precision = DefaultPrecision
	}
	return pool.ValidateIdentity()
}

// MsgInitializePoolResponse returns the created pool.
type MsgInitializePoolResponse struct {
	Pool Pool `json:"pool"`
}

// MsgDeposit mints Shares to Depositor in exchange for at most MaxX and MaxY.
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	PoolID    string `json:"pool_id"`
	Shares    uint64 `json:"shares"`
	MaxX      uint64 `json:"max_x"`
	MaxY      uint64 `json:"max_y"`
}

// ValidateBasic performs stateless checks.
func (msg MsgDeposit) ValidateBasic() error {
	if strings.TrimSpace(msg.Depositor) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "depositor cannot be empty")
	}
	if msg.PoolID == "" {
		return errorsmod.Wrap(ErrInvalidPool, "pool id cannot be empty")
	}
	if msg.Shares == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "shares must be positive")
	}
	return nil
}

// MsgDepositResponse returns the amounts taken.
type MsgDepositResponse struct {
	DepositResult
}

// MsgSwap exchanges AmountIn of the input asset for at least MinOut of the other.
type MsgSwap struct {
	Trader    string    `json:"trader"`
	PoolID    string    `json:"pool_id"`
	Direction Direction `json:"direction"`
	AmountIn  uint64    `json:"amount_in"`
	MinOut    uint64    `json:"min_out"`
}

// ValidateBasic performs stateless checks.
func (msg MsgSwap) ValidateBasic() error {
	if strings.TrimSpace(msg.Trader) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "trader cannot be empty")
	}
	if msg.PoolID == "" {
		return errorsmod.Wrap(ErrInvalidPool, "pool id cannot be empty")
	}
	if err := msg.Direction.Validate(); err != nil {
		return err
	}
	if msg.AmountIn == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "amount in must be positive")
	}
	return nil
}

// MsgSwapResponse returns the executed swap.
type MsgSwapResponse struct {
	SwapResult
}

// MsgWithdraw burns Shares from Withdrawer for at least MinX and MinY.
type MsgWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	PoolID     string `json:"pool_id"`
	Shares     uint64 `json:"shares"`
	MinX       uint64 `json:"min_x"`
	MinY       uint64 `json:"min_y"`
}

// ValidateBasic performs stateless checks.
func (msg MsgWithdraw) ValidateBasic() error {
	if strings.TrimSpace(msg.Withdrawer) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "withdrawer cannot be empty")
	}
	if msg.PoolID == "" {
		return errorsmod.Wrap(ErrInvalidPool, "pool id cannot be empty")
	}
	if msg.Shares == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "shares must be positive")
	}
	return nil
}

// MsgWithdrawResponse returns the amounts paid out.
type MsgWithdrawResponse struct {
	WithdrawResult
}

// MsgUpdateFee changes a pool's fee. Only the pool authority may send it.
type MsgUpdateFee struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
	FeeBps    uint16 `json:"fee_bps"`
}

// ValidateBasic performs stateless checks.
func (msg MsgUpdateFee) ValidateBasic() error {
	if strings.TrimSpace(msg.Authority) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "authority cannot be empty")
	}
	if msg.PoolID == "" {
		return errorsmod.Wrap(ErrInvalidPool, "pool id cannot be empty")
	}
	if msg.FeeBps > MaxFeeBps {
		return errorsmod.Wrapf(ErrInvalidFee, "fee %d bps exceeds %d", msg.FeeBps, MaxFeeBps)
	}
	return nil
}

// MsgUpdateFeeResponse is empty.
type MsgUpdateFeeResponse struct{}
