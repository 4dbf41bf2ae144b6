package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/cpamm/x/amm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the amm MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// InitializePool handles the creation of an empty pool
func (ms msgServer) InitializePool(goCtx context.Context, msg *types.MsgInitializePool) (*types.MsgInitializePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("InitializePool: validate: %w", err)
	}

	pool, err := ms.Keeper.InitializePool(goCtx, *msg)
	if err != nil {
		return nil, fmt.Errorf("InitializePool: %w", err)
	}

	return &types.MsgInitializePoolResponse{Pool: *pool}, nil
}

// Deposit handles adding liquidity to a pool
func (ms msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Deposit: validate: %w", err)
	}

	res, err := ms.Keeper.Deposit(goCtx, msg.PoolID, msg.Depositor, msg.Shares, msg.MaxX, msg.MaxY)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	return &types.MsgDepositResponse{DepositResult: res}, nil
}

// Swap handles a token swap
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Swap: validate: %w", err)
	}

	res, err := ms.Keeper.Swap(goCtx, msg.PoolID, msg.Trader, msg.Direction, msg.AmountIn, msg.MinOut)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	return &types.MsgSwapResponse{SwapResult: res}, nil
}

// Withdraw handles removing liquidity from a pool
func (ms msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Withdraw: validate: %w", err)
	}

	res, err := ms.Keeper.Withdraw(goCtx, msg.PoolID, msg.Withdrawer, msg.Shares, msg.MinX, msg.MinY)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	return &types.MsgWithdrawResponse{WithdrawResult: res}, nil
}

// UpdateFee handles a privileged fee change
func (ms msgServer) UpdateFee(goCtx context.Context, msg *types.MsgUpdateFee) (*types.MsgUpdateFeeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateFee: validate: %w", err)
	}

	if err := ms.Keeper.UpdateFee(goCtx, msg.PoolID, msg.Authority, msg.FeeBps); err != nil {
		return nil, fmt.Errorf("UpdateFee: %w", err)
	}

	return &types.MsgUpdateFeeResponse{}, nil
}
