package keeper

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/cpamm/app/telemetry"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// opScope carries the per-operation correlation id, logger and span.
type opScope struct {
	ctx    context.Context
	op     string
	poolID string
	id     string
	logger log.Logger
	span   trace.Span
	start  time.Time
}

func (k Keeper) begin(ctx context.Context, op, poolID string) *opScope {
	id := uuid.NewString()
	ctx, span := telemetry.StartModuleSpan(ctx, types.ModuleName, op)
	telemetry.AddSpanAttributes(span,
		attribute.String(types.AttributeKeyPoolID, poolID),
		attribute.String(types.AttributeKeyOpID, id),
	)

	return &opScope{
		ctx:    ctx,
		op:     op,
		poolID: poolID,
		id:     id,
		logger: k.logger.With(types.AttributeKeyOpID, id, "operation", op),
		span:   span,
		start:  time.Now(),
	}
}

func (k Keeper) finish(s *opScope, err error) {
	elapsed := time.Since(s.start)
	k.metrics.OperationLatency.WithLabelValues(s.op).Observe(elapsed.Seconds())
	telemetry.RecordModuleOperation(s.ctx, types.ModuleName, s.op, err, elapsed)

	status := statusSuccess
	if err != nil {
		status = statusFailed
		if errors.Is(err, types.ErrSlippageExceeded) {
			k.metrics.SlippageRejections.WithLabelValues(s.poolID, s.op).Inc()
		}
		telemetry.RecordError(s.span, err)
		s.logger.Debug("operation rejected",
			types.AttributeKeyPoolID, s.poolID,
			"error", err,
			"retryable", types.IsRetryable(err),
			"arithmetic", types.IsArithmetic(err),
		)
	} else {
		telemetry.SetSpanStatus(s.span, true, "")
	}
	k.metrics.OperationsTotal.WithLabelValues(s.op, status).Inc()
	s.span.End()
}
