// Package ledger is a KV-backed custody ledger and LP-share registry.
//
// It stands in for the hosting platform's bank so the AMM keeper can be run
// end to end by the ammd binary and by tests. Balances of user accounts and
// pool vaults live in the same keyspace; share tokens are ordinary assets
// with a tracked supply.
package ledger

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

var (
	_ types.Ledger        = (*Bank)(nil)
	_ types.ShareRegistry = (*Bank)(nil)
)

// Bank implements types.Ledger and types.ShareRegistry over a KV store.
type Bank struct {
	mu     sync.Mutex
	store  storetypes.KVStore
	logger log.Logger
}

// NewBank returns a bank persisting under the ledger prefixes of parent.
func NewBank(parent storetypes.KVStore, logger log.Logger) *Bank {
	return &Bank{
		store:  parent,
		logger: logger.With("module", "x/amm/ledger"),
	}
}

// Balance returns account's balance of asset.
func (b *Bank) Balance(account, asset string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance(account, asset)
}

// Supply returns the outstanding supply of a share asset.
func (b *Bank) Supply(shareAsset string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return decode(b.store.Get(types.ShareSupplyKey(shareAsset)))
}

// Fund credits amount of asset to account out of thin air. It backs the
// faucet command and test setup.
func (b *Bank) Fund(ctx context.Context, account, asset string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if account == "" || asset == "" {
		return types.ErrInvalidAmount.Wrap("account and asset are required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := checkedAdd(b.balance(account, asset), amount)
	if err != nil {
		return err
	}
	b.setBalance(account, asset, next)
	b.logger.Debug("funded account", "account", account, "asset", asset, "amount", amount)
	return nil
}

// Debit moves amount of asset from account into vault.
func (b *Bank) Debit(ctx context.Context, vault, account, asset string, amount uint64) error {
	return b.move(ctx, account, vault, asset, amount)
}

// Credit moves amount of asset from vault to account.
func (b *Bank) Credit(ctx context.Context, vault, account, asset string, amount uint64) error {
	return b.move(ctx, vault, account, asset, amount)
}

// Mint issues amount share units to account.
func (b *Bank) Mint(ctx context.Context, shareAsset, account string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	supplyKey := types.ShareSupplyKey(shareAsset)
	supply, err := checkedAdd(decode(b.store.Get(supplyKey)), amount)
	if err != nil {
		return err
	}
	balance, err := checkedAdd(b.balance(account, shareAsset), amount)
	if err != nil {
		return err
	}

	b.store.Set(supplyKey, encode(supply))
	b.setBalance(account, shareAsset, balance)
	return nil
}

// Burn retires amount share units held by account.
func (b *Bank) Burn(ctx context.Context, shareAsset, account string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	held := b.balance(account, shareAsset)
	if held < amount {
		return types.ErrInsufficientShares.Wrapf("%s holds %d %s, burning %d", account, held, shareAsset, amount)
	}
	supplyKey := types.ShareSupplyKey(shareAsset)
	supply := decode(b.store.Get(supplyKey))
	if supply < amount {
		return types.ErrStateCorruption.Wrapf("supply %d of %s below burn %d", supply, shareAsset, amount)
	}

	b.store.Set(supplyKey, encode(supply-amount))
	b.setBalance(account, shareAsset, held-amount)
	return nil
}

// HasHolders reports whether any account holds asset. It scans every
// balance.
func (b *Bank) HasHolders(asset string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	iterator := storetypes.KVStorePrefixIterator(b.store, types.BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.BalanceKeyPrefix):]
		if _, held, ok := bytes.Cut(key, []byte{0x00}); ok && string(held) == asset {
			return true
		}
	}
	return false
}

// Balances lists every non-zero balance of account.
func (b *Bank) Balances(account string) map[string]uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]uint64)
	store := prefix.NewStore(b.store, types.AccountBalancesPrefix(account))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		out[string(iterator.Key())] = decode(iterator.Value())
	}
	return out
}

// Balance is one (account, asset) holding.
type Balance struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Amount  uint64 `json:"amount"`
}

// AllBalances lists every non-zero holding ordered by account then asset.
// Account identities never contain a zero byte.
func (b *Bank) AllBalances() ([]Balance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	store := prefix.NewStore(b.store, types.BalanceKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	var out []Balance
	for ; iterator.Valid(); iterator.Next() {
		account, asset, ok := bytes.Cut(iterator.Key(), []byte{0x00})
		if !ok {
			return nil, types.ErrStateCorruption.Wrapf("malformed balance key %x", iterator.Key())
		}
		out = append(out, Balance{
			Account: string(account),
			Asset:   string(asset),
			Amount:  decode(iterator.Value()),
		})
	}
	return out, nil
}

func (b *Bank) move(ctx context.Context, from, to, asset string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from == to {
		return types.ErrInvalidAmount.Wrapf("transfer from %s to itself", from)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	fromBalance := b.balance(from, asset)
	if fromBalance < amount {
		return types.ErrInsufficientFunds.Wrapf("%s has %d %s, needs %d", from, fromBalance, asset, amount)
	}
	toBalance, err := checkedAdd(b.balance(to, asset), amount)
	if err != nil {
		return err
	}

	b.setBalance(from, asset, fromBalance-amount)
	b.setBalance(to, asset, toBalance)
	return nil
}

func (b *Bank) balance(account, asset string) uint64 {
	return decode(b.store.Get(types.BalanceKey(account, asset)))
}

func (b *Bank) setBalance(account, asset string, amount uint64) {
	key := types.BalanceKey(account, asset)
	if amount == 0 {
		b.store.Delete(key)
		return
	}
	b.store.Set(key, encode(amount))
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, types.ErrOverflow.Wrapf("balance %d + %d", a, b)
	}
	return sum, nil
}

func encode(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func decode(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
