package types

import (
	"context"
)

// Ledger moves reserve assets between user accounts and pool custody.
// Implementations must fail atomically, leaving both balances untouched,
// when the source lacks the amount (wrap ErrInsufficientFunds).
type Ledger interface {
	// Debit moves amount of asset from account into vault.
	Debit(ctx context.Context, vault, account, asset string, amount uint64) error
	// Credit moves amount of asset from vault to account.
	Credit(ctx context.Context, vault, account, asset string, amount uint64) error
}

// ShareRegistry issues and retires LP-share units.
// Burn must fail when account holds fewer than amount (wrap ErrInsufficientShares).
type ShareRegistry interface {
	Mint(ctx context.Context, shareAsset, account string, amount uint64) error
	Burn(ctx context.Context, shareAsset, account string, amount uint64) error
}

// BankKeeper is a collaborator providing both ledger and share registry.
type BankKeeper interface {
	Ledger
	ShareRegistry
}
