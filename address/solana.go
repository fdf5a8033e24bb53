// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/luxfi/vaa/chain"
)

// SolanaAddress is a 32-byte ed25519 public key or program derived address.
type SolanaAddress [UniversalSize]byte

func (a SolanaAddress) String() string {
	return base58.Encode(a[:])
}

func (a SolanaAddress) Bytes() []byte {
	return Universal(a).Bytes()
}

func (a SolanaAddress) Universal() Universal {
	return Universal(a)
}

type solanaCodec struct{}

func (solanaCodec) FromUniversal(_ chain.ID, u Universal) (Native, error) {
	return SolanaAddress(u), nil
}

func (solanaCodec) Parse(_ chain.ID, s string) (Native, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != UniversalSize {
		return nil, fmt.Errorf("%w: solana address must be %d bytes, got %d", ErrInvalidAddress, UniversalSize, len(b))
	}
	var a SolanaAddress
	copy(a[:], b)
	return a, nil
}
