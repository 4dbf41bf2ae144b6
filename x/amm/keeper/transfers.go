package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// transferStep is one ledger movement and the movement that reverses it.
type transferStep struct {
	name   string
	amount uint64
	do     func(ctx context.Context) error
	undo   func(ctx context.Context) error
}

// transferPlan runs ledger movements in order. When a step fails, the steps
// already applied are reversed newest first so the ledger ends where it
// started. Pool state is written only after the whole plan succeeded.
type transferPlan struct {
	steps []transferStep
}

// add appends step unless it moves nothing.
func (p *transferPlan) add(step transferStep) {
	if step.amount == 0 {
		return
	}
	p.steps = append(p.steps, step)
}

func (k Keeper) debitStep(pool types.Pool, account, asset string, amount uint64) transferStep {
	return transferStep{
		amount: amount,
		name:   fmt.Sprintf("debit %d %s from %s", amount, asset, account),
		do: func(ctx context.Context) error {
			return k.ledger.Debit(ctx, pool.Vault, account, asset, amount)
		},
		undo: func(ctx context.Context) error {
			return k.ledger.Credit(ctx, pool.Vault, account, asset, amount)
		},
	}
}

func (k Keeper) creditStep(pool types.Pool, account, asset string, amount uint64) transferStep {
	return transferStep{
		amount: amount,
		name:   fmt.Sprintf("credit %d %s to %s", amount, asset, account),
		do: func(ctx context.Context) error {
			return k.ledger.Credit(ctx, pool.Vault, account, asset, amount)
		},
		undo: func(ctx context.Context) error {
			return k.ledger.Debit(ctx, pool.Vault, account, asset, amount)
		},
	}
}

func (k Keeper) mintStep(pool types.Pool, account string, amount uint64) transferStep {
	return transferStep{
		amount: amount,
		name:   fmt.Sprintf("mint %d %s to %s", amount, pool.ShareAsset, account),
		do: func(ctx context.Context) error {
			return k.shares.Mint(ctx, pool.ShareAsset, account, amount)
		},
		undo: func(ctx context.Context) error {
			return k.shares.Burn(ctx, pool.ShareAsset, account, amount)
		},
	}
}

func (k Keeper) burnStep(pool types.Pool, account string, amount uint64) transferStep {
	return transferStep{
		amount: amount,
		name:   fmt.Sprintf("burn %d %s from %s", amount, pool.ShareAsset, account),
		do: func(ctx context.Context) error {
			return k.shares.Burn(ctx, pool.ShareAsset, account, amount)
		},
		undo: func(ctx context.Context) error {
			return k.shares.Mint(ctx, pool.ShareAsset, account, amount)
		},
	}
}

// execute applies the plan.
func (k Keeper) execute(s *opScope, plan transferPlan) error {
	// Compensation must run even if the caller's context was canceled
	// mid-plan.
	undoCtx := context.WithoutCancel(s.ctx)

	for i, step := range plan.steps {
		if err := step.do(s.ctx); err != nil {
			k.compensate(undoCtx, s, plan.steps[:i])
			return errorsmod.Wrapf(err, "%s", step.name)
		}
	}
	return nil
}

func (k Keeper) compensate(ctx context.Context, s *opScope, applied []transferStep) {
	for i := len(applied) - 1; i >= 0; i-- {
		step := applied[i]
		if err := step.undo(ctx); err != nil {
			k.metrics.Compensations.WithLabelValues(s.op, statusFailed).Inc()
			s.logger.Error("failed to revert ledger movement",
				types.AttributeKeyPoolID, s.poolID,
				"step", step.name,
				"revert_error", err,
			)
			continue
		}
		k.metrics.Compensations.WithLabelValues(s.op, statusSuccess).Inc()
	}
}
