package types

import "context"

// MsgServer is the typed entry point for every state-changing operation.
type MsgServer interface {
	InitializePool(context.Context, *MsgInitializePool) (*MsgInitializePoolResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	UpdateFee(context.Context, *MsgUpdateFee) (*MsgUpdateFeeResponse, error)
}
