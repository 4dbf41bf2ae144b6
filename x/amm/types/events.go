package types

// Event types for the AMM module
const (
	EventTypePoolInitialized = "pool_initialized"
	EventTypeDeposit         = "deposit"
	EventTypeSwap            = "swap"
	EventTypeWithdraw        = "withdraw"
	EventTypeFeeUpdated      = "fee_updated"
)

// Event attribute keys
const (
	AttributeKeyPoolID    = "pool_id"
	AttributeKeyAccount   = "account"
	AttributeKeyDirection = "direction"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyAmountX   = "amount_x"
	AttributeKeyAmountY   = "amount_y"
	AttributeKeyShares    = "shares"
	AttributeKeyFee       = "fee"
	AttributeKeyFeeBps    = "fee_bps"
	AttributeKeyOpID      = "op_id"
)
