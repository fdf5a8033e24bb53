// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/vaa/chain"
)

const evmPadding = UniversalSize - common.AddressLength

// EvmAddress is a 20-byte EVM account address.
type EvmAddress common.Address

func (a EvmAddress) String() string {
	return common.Address(a).Hex()
}

func (a EvmAddress) Bytes() []byte {
	return common.Address(a).Bytes()
}

// Universal left-pads the address with 12 zero bytes.
func (a EvmAddress) Universal() Universal {
	var u Universal
	copy(u[evmPadding:], a[:])
	return u
}

// EvmFromUniversal returns the EVM address held by u. The 12 leading padding
// bytes must be zero.
func EvmFromUniversal(u Universal) (EvmAddress, error) {
	for _, b := range u[:evmPadding] {
		if b != 0 {
			return EvmAddress{}, fmt.Errorf("%w: %s is not a padded evm address", ErrInvalidAddress, u)
		}
	}
	var a EvmAddress
	copy(a[:], u[evmPadding:])
	return a, nil
}

type evmCodec struct{}

func (evmCodec) FromUniversal(_ chain.ID, u Universal) (Native, error) {
	return EvmFromUniversal(u)
}

func (evmCodec) Parse(_ chain.ID, s string) (Native, error) {
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("%w: %q is not an evm address", ErrInvalidAddress, s)
	}
	return EvmAddress(common.HexToAddress(s)), nil
}
