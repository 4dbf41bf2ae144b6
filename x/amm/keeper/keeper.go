package keeper

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	store            storetypes.KVStore
	ledger           types.Ledger
	shares           types.ShareRegistry
	logger           log.Logger
	metrics          *AMMMetrics
	locks            *poolLocks
	defaultPrecision uint8
}

// NewKeeper creates a new amm Keeper instance. A zero defaultPrecision
// selects types.DefaultPrecision; a nil metrics gets an unregistered set.
func NewKeeper(
	store storetypes.KVStore,
	ledger types.Ledger,
	shares types.ShareRegistry,
	logger log.Logger,
	metrics *AMMMetrics,
	defaultPrecision uint8,
) *Keeper {
	if defaultPrecision == 0 {
		defaultPrecision = types.DefaultPrecision
	}
	if err := types.ValidatePrecision(defaultPrecision); err != nil {
		panic(fmt.Sprintf("invalid default precision: %v", err))
	}
	if metrics == nil {
		metrics = NewAMMMetrics(nil)
	}

	return &Keeper{
		store:            store,
		ledger:           ledger,
		shares:           shares,
		logger:           logger.With("module", "x/"+types.ModuleName),
		metrics:          metrics,
		locks:            &poolLocks{},
		defaultPrecision: defaultPrecision,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// Metrics returns the keeper's Prometheus collectors.
func (k Keeper) Metrics() *AMMMetrics {
	return k.metrics
}

// DefaultPrecision is used by InitializePool when the message leaves it unset.
func (k Keeper) DefaultPrecision() uint8 {
	return k.defaultPrecision
}

type branchStoreKey struct{}

// withStore routes every store access made with the returned context to s.
func withStore(ctx context.Context, s storetypes.KVStore) context.Context {
	return context.WithValue(ctx, branchStoreKey{}, s)
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if s, ok := ctx.Value(branchStoreKey{}).(storetypes.KVStore); ok {
		return s
	}
	return k.store
}

// poolLocks serializes operations on the same pool. Different pools never
// contend, except pool creation, which also holds identities while it checks
// share assets and vaults across all pools.
type poolLocks struct {
	m          sync.Map
	identities sync.Mutex
}

func (l *poolLocks) lockIdentities() (unlock func()) {
	l.identities.Lock()
	return l.identities.Unlock
}

func (l *poolLocks) lock(poolID string) (unlock func()) {
	v, _ := l.m.LoadOrStore(poolID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
