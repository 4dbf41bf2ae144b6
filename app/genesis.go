package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cosmossdk.io/math"
	"cosmossdk.io/store/cachekv"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/ledger"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// GenesisState is the initial state of a node: ledger holdings plus pools.
// Holdings of a pool's share asset are minted so the share supply is tracked.
type GenesisState struct {
	Balances []ledger.Balance   `json:"balances"`
	AMM      types.GenesisState `json:"amm"`
}

// NewDefaultGenesisState returns a genesis with no balances and no pools.
func NewDefaultGenesisState() GenesisState {
	return GenesisState{
		Balances: []ledger.Balance{},
		AMM:      *types.DefaultGenesis(),
	}
}

// Validate checks that every pool's vault holds its reserves and that share
// holdings add up to each pool's LP supply.
func (gs GenesisState) Validate() error {
	if err := gs.AMM.Validate(); err != nil {
		return err
	}

	held := make(map[[2]string]uint64)
	seen := make(map[[2]string]struct{})
	for _, b := range gs.Balances {
		if b.Account == "" || b.Asset == "" {
			return types.ErrInvalidGenesis.Wrap("balance needs account and asset")
		}
		key := [2]string{b.Account, b.Asset}
		if _, dup := seen[key]; dup {
			return types.ErrInvalidGenesis.Wrapf("duplicate balance %s/%s", b.Account, b.Asset)
		}
		seen[key] = struct{}{}
		held[key] = b.Amount
	}

	for _, pool := range gs.AMM.Pools {
		if x := held[[2]string{pool.Vault, pool.AssetX}]; x < pool.ReserveX {
			return types.ErrInvalidGenesis.Wrapf("vault %s holds %d %s, pool %s reserves %d",
				pool.Vault, x, pool.AssetX, pool.ID, pool.ReserveX)
		}
		if y := held[[2]string{pool.Vault, pool.AssetY}]; y < pool.ReserveY {
			return types.ErrInvalidGenesis.Wrapf("vault %s holds %d %s, pool %s reserves %d",
				pool.Vault, y, pool.AssetY, pool.ID, pool.ReserveY)
		}

		shares := math.ZeroUint()
		for _, b := range gs.Balances {
			if b.Asset == pool.ShareAsset {
				shares = shares.Add(math.NewUint(b.Amount))
			}
		}
		if !shares.Equal(math.NewUint(pool.LPSupply)) {
			return types.ErrInvalidGenesis.Wrapf("pool %s lp supply %d, holders own %s",
				pool.ID, pool.LPSupply, shares)
		}
	}
	return nil
}

// LoadGenesisFile reads and validates a genesis document.
func LoadGenesisFile(path string) (GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return GenesisState{}, fmt.Errorf("read genesis: %w", err)
	}

	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return GenesisState{}, types.ErrInvalidGenesis.Wrapf("decode %s: %v", path, err)
	}
	if gs.AMM.Pools == nil {
		gs.AMM.Pools = []types.Pool{}
	}
	if err := gs.Validate(); err != nil {
		return GenesisState{}, err
	}
	return gs, nil
}

// InitGenesis loads gs into a fresh node. Pools and balances are written to
// one cache branch of the node store and flushed only after every invariant
// holds, so a rejected genesis leaves the store untouched.
func (app *App) InitGenesis(ctx context.Context, gs GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	shareAssets := make(map[string]struct{}, len(gs.AMM.Pools))
	for _, pool := range gs.AMM.Pools {
		shareAssets[pool.ShareAsset] = struct{}{}
	}

	branch := cachekv.NewStore(app.root)
	bank, k := newModules(branch, app.logger, nil, app.cfg.Pool.DefaultPrecision)

	if err := k.InitGenesis(ctx, gs.AMM); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		var err error
		if _, isShare := shareAssets[b.Asset]; isShare {
			err = bank.Mint(ctx, b.Asset, b.Account, b.Amount)
		} else {
			err = bank.Fund(ctx, b.Account, b.Asset, b.Amount)
		}
		if err != nil {
			return types.ErrInvalidGenesis.Wrapf("balance %s/%s: %v", b.Account, b.Asset, err)
		}
	}
	if msg, broken := keeper.AllInvariants(*k)(ctx); broken {
		return types.ErrInvalidGenesis.Wrap(msg)
	}

	branch.Write()
	if err := app.Keeper.RecordPoolMetrics(ctx); err != nil {
		return err
	}

	app.logger.Info("loaded genesis", "balances", len(gs.Balances), "pools", len(gs.AMM.Pools))
	return nil
}

// ExportGenesis dumps the node state in the form InitGenesis accepts.
func (app *App) ExportGenesis(ctx context.Context) (GenesisState, error) {
	amm, err := app.Keeper.ExportGenesis(ctx)
	if err != nil {
		return GenesisState{}, err
	}
	balances, err := app.Bank.AllBalances()
	if err != nil {
		return GenesisState{}, err
	}
	if balances == nil {
		balances = []ledger.Balance{}
	}
	return GenesisState{Balances: balances, AMM: *amm}, nil
}
