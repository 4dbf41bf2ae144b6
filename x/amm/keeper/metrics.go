package keeper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels
const (
	opInitialize = "initialize"
	opDeposit    = "deposit"
	opSwap       = "swap"
	opWithdraw   = "withdraw"
	opUpdateFee  = "update_fee"

	statusSuccess = "success"
	statusFailed  = "failed"
)

// AMMMetrics holds all Prometheus metrics for the AMM module
type AMMMetrics struct {
	OperationsTotal    *prometheus.CounterVec
	OperationLatency   *prometheus.HistogramVec
	SlippageRejections *prometheus.CounterVec
	Compensations      *prometheus.CounterVec

	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec

	PoolReserves  *prometheus.GaugeVec
	LPTokenSupply *prometheus.GaugeVec
	PoolsTotal    prometheus.Gauge
}

// NewAMMMetrics creates the metrics and registers them on reg. A nil reg
// leaves them unregistered, which tests rely on to build many keepers.
func NewAMMMetrics(reg prometheus.Registerer) *AMMMetrics {
	factory := promauto.With(reg)

	return &AMMMetrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "operations_total",
				Help:      "Total number of pool operations by outcome",
			},
			[]string{"operation", "status"},
		),
		OperationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "operation_latency_seconds",
				Help:      "Pool operation latency in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"operation"},
		),
		SlippageRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "slippage_rejections_total",
				Help:      "Operations rejected by a caller supplied bound",
			},
			[]string{"pool_id", "operation"},
		),
		Compensations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "compensations_total",
				Help:      "Ledger movements undone after a later step failed",
			},
			[]string{"operation", "status"},
		),
		SwapVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "swap_volume_total",
				Help:      "Total swap input volume in base units",
			},
			[]string{"pool_id", "asset"},
		),
		SwapFeesCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "swap_fees_collected_total",
				Help:      "Total swap fees retained by pools",
			},
			[]string{"pool_id", "asset"},
		),
		PoolReserves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "pool_reserves",
				Help:      "Current pool reserves",
			},
			[]string{"pool_id", "asset"},
		),
		LPTokenSupply: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "lp_token_supply",
				Help:      "Outstanding LP shares per pool",
			},
			[]string{"pool_id"},
		),
		PoolsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "pools_total",
				Help:      "Number of initialized pools",
			},
		),
	}
}
