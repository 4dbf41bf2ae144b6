package keeper_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestConcurrentOperations(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pools := []types.Pool{
		f.CreateTestPool(t, "a", 100_000_000, 100_000_000, 100_000_000, 30),
		f.CreateTestPool(t, "b", 50_000_000, 200_000_000, 10_000_000, 5),
	}

	const (
		workers = 8
		rounds  = 50
	)

	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds*2)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				pool := pools[(w+i)%len(pools)]
				dir := types.XToY
				if (w+i)%3 == 0 {
					dir = types.YToX
				}
				if _, err := f.Keeper.Swap(f.Ctx, pool.ID, keepertest.Trader, dir, 1_000+uint64(i), 0); err != nil {
					errs <- err
				}
				if w%2 == 0 {
					if _, err := f.Keeper.Deposit(f.Ctx, pool.ID, keepertest.Provider, 1_000, keepertest.FundedAmount, keepertest.FundedAmount); err != nil {
						errs <- err
					}
				} else if _, err := f.Keeper.Withdraw(f.Ctx, pool.ID, keepertest.Provider, 500, 0, 0); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	msg, broken := keeper.AllInvariants(*f.Keeper)(f.Ctx)
	require.False(t, broken, msg)

	for _, pool := range pools {
		stored, err := f.Keeper.GetPool(f.Ctx, pool.ID)
		require.NoError(t, err)
		require.Equal(t, stored.ReserveX, f.Bank.Balance(stored.Vault, stored.AssetX))
		require.Equal(t, stored.ReserveY, f.Bank.Balance(stored.Vault, stored.AssetY))
		require.Equal(t, stored.LPSupply, f.Bank.Supply(stored.ShareAsset))
	}

	requireConserved(t, f, pools)
}

// requireConserved checks no reserve asset was created or destroyed.
func requireConserved(t require.TestingT, f keepertest.Fixture, pools []types.Pool) {
	for _, asset := range []string{keepertest.AssetX, keepertest.AssetY} {
		var total uint64
		for _, account := range []string{keepertest.Provider, keepertest.Trader, keepertest.Admin} {
			total += f.Bank.Balance(account, asset)
		}
		for _, pool := range pools {
			total += f.Bank.Balance(pool.Vault, asset)
		}
		require.Equal(t, 3*keepertest.FundedAmount, total, asset)
	}
}
