// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"fmt"

	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
)

// ChainOption restricts the values accepted by a chain item.
type ChainOption func(*chainConfig)

type chainConfig struct {
	allowNull bool
	platform  chain.Platform
}

// AllowNull accepts chain id 0 as chain.Unset.
func AllowNull() ChainOption {
	return func(c *chainConfig) { c.allowNull = true }
}

// OnPlatform accepts only chains of platform p.
func OnPlatform(p chain.Platform) ChainOption {
	return func(c *chainConfig) { c.platform = p }
}

// ChainConversion maps a 2-byte wire value to a chain.ID, rejecting unknown
// chains.
func ChainConversion(opts ...ChainOption) *layout.Conversion {
	var cfg chainConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	check := func(id chain.ID) error {
		if id == chain.Unset {
			if cfg.allowNull {
				return nil
			}
			return fmt.Errorf("%w: 0", chain.ErrUnknownChainID)
		}
		if !id.IsKnown() {
			return fmt.Errorf("%w: %d", chain.ErrUnknownChainID, uint16(id))
		}
		if cfg.platform != "" && !chain.InPlatform(id, cfg.platform) {
			return fmt.Errorf("%w: %s is not a %s chain", layout.ErrSchemaViolation, id, cfg.platform)
		}
		return nil
	}
	return layout.Convert(
		func(raw uint64) (chain.ID, error) {
			if raw > 0xffff {
				return chain.Unset, fmt.Errorf("%w: %d", chain.ErrUnknownChainID, raw)
			}
			id := chain.ID(raw)
			return id, check(id)
		},
		func(id chain.ID) (uint64, error) {
			return uint64(id), check(id)
		},
	)
}

// ChainItem is a 2-byte chain id field.
func ChainItem(name string, opts ...ChainOption) layout.UintItem {
	return layout.UintItem{Name: name, Size: 2, Custom: ChainConversion(opts...)}
}

var universalConversion = layout.Convert(
	address.UniversalFromBytes,
	func(u address.Universal) ([]byte, error) { return u.Bytes(), nil },
)

// UniversalAddressItem is a 32-byte universal address field.
func UniversalAddressItem(name string) layout.BytesItem {
	return layout.BytesItem{Name: name, Size: address.UniversalSize, Custom: universalConversion}
}

var signatureConversion = layout.Convert(
	SignatureFromBytes,
	func(s Signature) ([]byte, error) { return s.Bytes(), nil },
)

// SignatureItem is a 65-byte recoverable signature field.
func SignatureItem(name string) layout.BytesItem {
	return layout.BytesItem{Name: name, Size: SignatureSize, Custom: signatureConversion}
}

// Uint256Item is a 32-byte unsigned integer field decoded as *uint256.Int.
func Uint256Item(name string) layout.UintItem {
	return layout.UintItem{Name: name, Size: 32}
}

var (
	guardianSignatureLayout = layout.MustNew(
		layout.UintItem{Name: "guardianIndex", Size: 1},
		SignatureItem("signature"),
	)

	headerLayout = layout.MustNew(
		layout.UintItem{Name: "version", Size: 1, Custom: layout.Const(uint64(Version))},
		layout.UintItem{Name: "guardianSet", Size: 4},
		layout.ArrayItem{Name: "signatures", LengthSize: 1, Elements: guardianSignatureLayout},
	)

	envelopeLayout = layout.MustNew(
		layout.UintItem{Name: "timestamp", Size: 4},
		layout.UintItem{Name: "nonce", Size: 4},
		ChainItem("emitterChain"),
		UniversalAddressItem("emitterAddress"),
		layout.UintItem{Name: "sequence", Size: 8},
		layout.UintItem{Name: "consistencyLevel", Size: 1},
	)
)
