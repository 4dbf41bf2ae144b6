package types

import (
	"encoding/json"
)

// GenesisState is the exported set of pools.
type GenesisState struct {
	Pools []Pool `json:"pools"`
}

// DefaultGenesis returns an empty genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Pools: []Pool{}}
}

// Validate ensures every pool is well-formed and no two pools share an ID,
// a share asset or a vault.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Pools))
	for i, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("pool %d (%s): %v", i, pool.ID, err)
		}
		if _, dup := seen[pool.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool id %s", pool.ID)
		}
		seen[pool.ID] = struct{}{}
		for _, other := range gs.Pools[:i] {
			if err := IdentityConflict(pool, other); err != nil {
				return ErrInvalidGenesis.Wrapf("pool %d (%s): %v", i, pool.ID, err)
			}
		}
	}
	return nil
}

// ParseGenesis decodes and validates a JSON genesis document.
func ParseGenesis(bz []byte) (*GenesisState, error) {
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, ErrInvalidGenesis.Wrapf("decode: %v", err)
	}
	if gs.Pools == nil {
		gs.Pools = []Pool{}
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return &gs, nil
}
