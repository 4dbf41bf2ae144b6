package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	// Checked arithmetic: any add, mul, sub or div left the representable range.
	ErrOverflow = errorsmod.Register(ModuleName, 1, "arithmetic overflow")

	ErrInvalidAmount         = errorsmod.Register(ModuleName, 2, "invalid amount")
	ErrSlippageExceeded      = errorsmod.Register(ModuleName, 3, "slippage exceeded")
	ErrInsufficientShares    = errorsmod.Register(ModuleName, 4, "insufficient shares")
	ErrInsufficientFunds     = errorsmod.Register(ModuleName, 5, "insufficient funds")
	ErrInsufficientLiquidity = errorsmod.Register(ModuleName, 6, "insufficient liquidity in pool")
	ErrEmptyPool             = errorsmod.Register(ModuleName, 7, "pool is empty")
	ErrPoolNotFound          = errorsmod.Register(ModuleName, 8, "pool not found")
	ErrPoolAlreadyExists     = errorsmod.Register(ModuleName, 9, "pool already exists")
	ErrInvalidPool           = errorsmod.Register(ModuleName, 10, "invalid pool")
	ErrInvalidFee            = errorsmod.Register(ModuleName, 11, "invalid fee")
	ErrInvalidPrecision      = errorsmod.Register(ModuleName, 12, "invalid precision")
	ErrInvalidDirection      = errorsmod.Register(ModuleName, 13, "invalid swap direction")
	ErrUnauthorized          = errorsmod.Register(ModuleName, 14, "unauthorized")
	ErrInvariantViolation    = errorsmod.Register(ModuleName, 15, "pool invariant violated")
	ErrStateCorruption       = errorsmod.Register(ModuleName, 16, "state corruption")
	ErrInvalidGenesis        = errorsmod.Register(ModuleName, 17, "invalid genesis state")
)

// IsArithmetic reports whether err came from a checked arithmetic step.
// Resubmitting the same request cannot succeed.
func IsArithmetic(err error) bool {
	return errors.Is(err, ErrOverflow)
}

// IsRetryable reports whether the caller may resubmit with adjusted
// parameters: slippage bounds, or balances that can be topped up.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrSlippageExceeded),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientShares),
		errors.Is(err, ErrInsufficientLiquidity):
		return true
	default:
		return false
	}
}
