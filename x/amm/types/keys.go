package types

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

const (
	// BasisPointDivisor is 100% expressed in basis points.
	BasisPointDivisor uint64 = 10_000

	// MaxFeeBps is the largest fee a pool may charge.
	MaxFeeBps uint16 = 10_000

	// DefaultFeeBps is 0.3%.
	DefaultFeeBps uint16 = 30

	// DefaultPrecision matches the 6 decimal LP share mint.
	DefaultPrecision uint8 = 6

	// MaxPrecision keeps 10^precision below 2^60.
	MaxPrecision uint8 = 18
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01} // prefix for pool records
	PoolCountKey      = []byte{0x02} // key for the number of pools
	BalanceKeyPrefix  = []byte{0x10} // prefix for ledger balances
	ShareSupplyPrefix = []byte{0x11} // prefix for share token supply
)

// keySeparator splits variable length key components.
const keySeparator = byte(0x00)

// PoolKey returns the store key for a pool record
func PoolKey(poolID string) []byte {
	key := make([]byte, 0, len(PoolKeyPrefix)+len(poolID))
	key = append(key, PoolKeyPrefix...)
	return append(key, poolID...)
}

// BalanceKey returns the ledger key for account's balance of asset.
func BalanceKey(account, asset string) []byte {
	key := make([]byte, 0, len(BalanceKeyPrefix)+len(account)+1+len(asset))
	key = append(key, BalanceKeyPrefix...)
	key = append(key, account...)
	key = append(key, keySeparator)
	return append(key, asset...)
}

// AccountBalancesPrefix returns the prefix under which all of account's
// balances are stored, keyed by asset.
func AccountBalancesPrefix(account string) []byte {
	key := make([]byte, 0, len(BalanceKeyPrefix)+len(account)+1)
	key = append(key, BalanceKeyPrefix...)
	key = append(key, account...)
	return append(key, keySeparator)
}

// ShareSupplyKey returns the ledger key for the outstanding supply of a share asset.
func ShareSupplyKey(shareAsset string) []byte {
	key := make([]byte, 0, len(ShareSupplyPrefix)+len(shareAsset))
	key = append(key, ShareSupplyPrefix...)
	return append(key, shareAsset...)
}
