package keeper

import (
	"context"

	"cosmossdk.io/log"
	"cosmossdk.io/store/dbadapter"
	"cosmossdk.io/store/prefix"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/ledger"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// Pre-funded test accounts
const (
	Provider = "provider"
	Trader   = "trader"
	Admin    = "admin"

	AssetX = "usdc"
	AssetY = "atom"

	// FundedAmount is the starting balance of every asset for every test account.
	FundedAmount uint64 = 5_000_000_000
)

// TestingT is satisfied by *testing.T, *testing.B and *rapid.T.
type TestingT interface {
	require.TestingT
	Helper()
}

// Fixture bundles a keeper with its collaborators.
type Fixture struct {
	Keeper   *keeper.Keeper
	Bank     *MockBank
	Registry *prometheus.Registry
	Ctx      context.Context
}

// AMMKeeper creates a test keeper for the AMM module over an in-memory
// database with pre-funded accounts.
func AMMKeeper(t TestingT) Fixture {
	t.Helper()

	db := dbm.NewMemDB()
	root := &dbadapter.Store{DB: db}

	bank := NewMockBank(ledger.NewBank(prefix.NewStore(root, []byte("bank/")), log.NewNopLogger()))
	registry := prometheus.NewRegistry()

	k := keeper.NewKeeper(
		prefix.NewStore(root, []byte(types.StoreKey+"/")),
		bank,
		bank,
		log.NewNopLogger(),
		keeper.NewAMMMetrics(registry),
		types.DefaultPrecision,
	)

	ctx := context.Background()
	for _, account := range []string{Provider, Trader, Admin} {
		for _, asset := range []string{AssetX, AssetY} {
			require.NoError(t, bank.Fund(ctx, account, asset, FundedAmount))
		}
	}

	return Fixture{Keeper: k, Bank: bank, Registry: registry, Ctx: ctx}
}

// InitTestPool creates an empty AssetX/AssetY pool with Admin as authority.
func (f Fixture) InitTestPool(t TestingT, poolID string, feeBps uint16) types.Pool {
	t.Helper()

	pool, err := f.Keeper.InitializePool(f.Ctx, types.MsgInitializePool{
		Creator:    Admin,
		PoolID:     poolID,
		AssetX:     AssetX,
		AssetY:     AssetY,
		ShareAsset: "lp/" + poolID,
		Vault:      "vault/" + poolID,
		FeeBps:     feeBps,
		Authority:  Admin,
	})
	require.NoError(t, err)
	return *pool
}

// CreateTestPool creates a pool and bootstraps it from Provider with the
// given reserves, minting shares LP units.
func (f Fixture) CreateTestPool(t TestingT, poolID string, reserveX, reserveY, shares uint64, feeBps uint16) types.Pool {
	t.Helper()

	f.InitTestPool(t, poolID, feeBps)
	_, err := f.Keeper.Deposit(f.Ctx, poolID, Provider, shares, reserveX, reserveY)
	require.NoError(t, err)

	pool, err := f.Keeper.GetPool(f.Ctx, poolID)
	require.NoError(t, err)
	return *pool
}
