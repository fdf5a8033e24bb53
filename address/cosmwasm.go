// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/luxfi/vaa/chain"
)

const accountSize = 20

var cosmwasmPrefixes = map[chain.ID]string{
	chain.Terra:     "terra",
	chain.Terra2:    "terra",
	chain.Injective: "inj",
	chain.Xpla:      "xpla",
	chain.Sei:       "sei",
}

// CosmwasmAddress is a bech32 address. Accounts are 20 bytes and contracts
// are 32 bytes.
type CosmwasmAddress struct {
	Prefix string
	Data   []byte
}

func (a CosmwasmAddress) String() string {
	conv, err := bech32.ConvertBits(a.Data, 8, 5, true)
	if err != nil {
		return ""
	}
	s, err := bech32.Encode(a.Prefix, conv)
	if err != nil {
		return ""
	}
	return s
}

func (a CosmwasmAddress) Bytes() []byte {
	return bytes.Clone(a.Data)
}

// Universal left-pads account addresses to 32 bytes.
func (a CosmwasmAddress) Universal() Universal {
	var u Universal
	copy(u[UniversalSize-len(a.Data):], a.Data)
	return u
}

func cosmwasmPrefix(c chain.ID) (string, error) {
	prefix, ok := cosmwasmPrefixes[c]
	if !ok {
		return "", fmt.Errorf("%w: no bech32 prefix for %s", ErrNoNativeCodec, c)
	}
	return prefix, nil
}

type cosmwasmCodec struct{}

func (cosmwasmCodec) FromUniversal(c chain.ID, u Universal) (Native, error) {
	prefix, err := cosmwasmPrefix(c)
	if err != nil {
		return nil, err
	}
	data := u[:]
	if bytes.Equal(u[:UniversalSize-accountSize], make([]byte, UniversalSize-accountSize)) {
		data = u[UniversalSize-accountSize:]
	}
	return CosmwasmAddress{Prefix: prefix, Data: bytes.Clone(data)}, nil
}

func (cosmwasmCodec) Parse(c chain.ID, s string) (Native, error) {
	prefix, err := cosmwasmPrefix(c)
	if err != nil {
		return nil, err
	}
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if hrp != prefix {
		return nil, fmt.Errorf("%w: prefix %q, expected %q", ErrInvalidAddress, hrp, prefix)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(raw) != accountSize && len(raw) != UniversalSize {
		return nil, fmt.Errorf("%w: %d byte cosmwasm address", ErrInvalidAddress, len(raw))
	}
	return CosmwasmAddress{Prefix: prefix, Data: raw}, nil
}
