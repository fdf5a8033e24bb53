// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
)

// Platform groups chains that share an execution environment and therefore a
// native address format.
type Platform string

const (
	Evm       Platform = "Evm"
	SolanaVM  Platform = "Solana"
	Cosmwasm  Platform = "Cosmwasm"
	BtcVM     Platform = "Btc"
	AlgoVM    Platform = "Algorand"
	SuiVM     Platform = "Sui"
	AptosVM   Platform = "Aptos"
	OsmosisVM Platform = "Osmosis"
	Wormhole  Platform = "Wormchain"
	NearVM    Platform = "Near"
)

var platformChains = map[Platform][]ID{
	Evm: {
		Ethereum, Bsc, Polygon, Avalanche, Oasis, Aurora, Fantom, Karura, Acala,
		Klaytn, Celo, Moonbeam, Neon, Arbitrum, Optimism, Gnosis, Base, Sepolia,
	},
	SolanaVM:  {Solana, Pythnet},
	Cosmwasm:  {Terra, Terra2, Injective, Xpla, Sei},
	BtcVM:     {Btc},
	AlgoVM:    {Algorand},
	SuiVM:     {Sui},
	AptosVM:   {Aptos},
	OsmosisVM: {Osmosis},
	Wormhole:  {Wormchain},
	NearVM:    {Near},
}

var chainPlatform = func() map[ID]Platform {
	m := make(map[ID]Platform)
	for p, chains := range platformChains {
		for _, c := range chains {
			m[c] = p
		}
	}
	return m
}()

// Platform returns the platform the chain runs on.
func (id ID) Platform() (Platform, error) {
	p, ok := chainPlatform[id]
	if !ok {
		return "", fmt.Errorf("%w: %d has no platform", ErrUnknownChainID, uint16(id))
	}
	return p, nil
}

// Chains returns the chains of a platform.
func (p Platform) Chains() []ID {
	out := make([]ID, len(platformChains[p]))
	copy(out, platformChains[p])
	return out
}

// InPlatform reports whether id runs on p.
func InPlatform(id ID, p Platform) bool {
	return chainPlatform[id] == p
}

// evmChainIDs maps the EVM chains to their EIP-155 chain id on mainnet.
var evmChainIDs = map[ID]uint64{
	Ethereum:  1,
	Bsc:       56,
	Polygon:   137,
	Avalanche: 43114,
	Oasis:     42262,
	Aurora:    1313161554,
	Fantom:    250,
	Karura:    686,
	Acala:     787,
	Klaytn:    8217,
	Celo:      42220,
	Moonbeam:  1284,
	Neon:      245022934,
	Arbitrum:  42161,
	Optimism:  10,
	Gnosis:    100,
	Base:      8453,
	Sepolia:   11155111,
}

// EvmChainID returns the EIP-155 chain id of an EVM chain.
func EvmChainID(id ID) (uint64, bool) {
	n, ok := evmChainIDs[id]
	return n, ok
}
