// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain defines the numeric chain identifiers used on the wire and
// their grouping into platforms.
package chain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownChainID is returned when a numeric chain id or chain name is not
// part of the recognized table.
var ErrUnknownChainID = errors.New("unknown chain id")

// ID is a wire-level chain identifier.
type ID uint16

// Unset is chain id 0. It is not a chain: on the wire it addresses every
// chain at once and is only accepted where a payload explicitly allows it.
const Unset ID = 0

const (
	Solana    ID = 1
	Ethereum  ID = 2
	Terra     ID = 3
	Bsc       ID = 4
	Polygon   ID = 5
	Avalanche ID = 6
	Oasis     ID = 7
	Algorand  ID = 8
	Aurora    ID = 9
	Fantom    ID = 10
	Karura    ID = 11
	Acala     ID = 12
	Klaytn    ID = 13
	Celo      ID = 14
	Near      ID = 15
	Moonbeam  ID = 16
	Neon      ID = 17
	Terra2    ID = 18
	Injective ID = 19
	Osmosis   ID = 20
	Sui       ID = 21
	Aptos     ID = 22
	Arbitrum  ID = 23
	Optimism  ID = 24
	Gnosis    ID = 25
	Pythnet   ID = 26
	Xpla      ID = 28
	Btc       ID = 29
	Base      ID = 30
	Sei       ID = 32
	Wormchain ID = 3104
	Sepolia   ID = 10002
)

var names = map[ID]string{
	Solana:    "Solana",
	Ethereum:  "Ethereum",
	Terra:     "Terra",
	Bsc:       "Bsc",
	Polygon:   "Polygon",
	Avalanche: "Avalanche",
	Oasis:     "Oasis",
	Algorand:  "Algorand",
	Aurora:    "Aurora",
	Fantom:    "Fantom",
	Karura:    "Karura",
	Acala:     "Acala",
	Klaytn:    "Klaytn",
	Celo:      "Celo",
	Near:      "Near",
	Moonbeam:  "Moonbeam",
	Neon:      "Neon",
	Terra2:    "Terra2",
	Injective: "Injective",
	Osmosis:   "Osmosis",
	Sui:       "Sui",
	Aptos:     "Aptos",
	Arbitrum:  "Arbitrum",
	Optimism:  "Optimism",
	Gnosis:    "Gnosis",
	Pythnet:   "Pythnet",
	Xpla:      "Xpla",
	Btc:       "Btc",
	Base:      "Base",
	Sei:       "Sei",
	Wormchain: "Wormchain",
	Sepolia:   "Sepolia",
}

var ids = func() map[string]ID {
	m := make(map[string]ID, len(names))
	for id, name := range names {
		m[name] = id
	}
	return m
}()

// IsKnown reports whether id is a recognized chain. Unset is not a chain.
func (id ID) IsKnown() bool {
	_, ok := names[id]
	return ok
}

// String returns the chain name, "Unset" for chain id 0, or the number for
// unknown ids.
func (id ID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	if id == Unset {
		return "Unset"
	}
	return fmt.Sprintf("ID(%d)", uint16(id))
}

// FromUint validates a raw wire value as a recognized chain id.
func FromUint(n uint64) (ID, error) {
	if n > 0xffff || !ID(n).IsKnown() {
		return Unset, fmt.Errorf("%w: %d", ErrUnknownChainID, n)
	}
	return ID(n), nil
}

// FromName returns the chain with the given name.
func FromName(name string) (ID, error) {
	id, ok := ids[name]
	if !ok {
		return Unset, fmt.Errorf("%w: %q", ErrUnknownChainID, name)
	}
	return id, nil
}

// All returns every recognized chain in ascending id order.
func All() []ID {
	out := make([]ID, 0, len(names))
	for id := range names {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalText encodes the chain as its name.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText accepts a chain name.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := FromName(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
