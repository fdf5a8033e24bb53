// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"bytes"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
)

const moduleSize = 32

var actionFields = map[Action]layout.Layout{
	UpgradeContract: layout.MustNew(
		vaa.UniversalAddressItem("newContract"),
	),
	RegisterChain: layout.MustNew(
		vaa.ChainItem("foreignChain"),
		vaa.UniversalAddressItem("foreignAddress"),
	),
	RecoverChainId: layout.MustNew(
		vaa.Uint256Item("evmChainId"),
		vaa.ChainItem("newChainId", vaa.OnPlatform(chain.Evm)),
	),
	GuardianSetUpgrade: layout.MustNew(
		layout.UintItem{Name: "guardianSet", Size: 4},
		layout.ArrayItem{Name: "guardians", LengthSize: 1, Elements: layout.MustNew(
			layout.BytesItem{Name: "address", Size: common.AddressLength, Custom: evmAddressConversion},
		)},
	),
	SetMessageFee: layout.MustNew(
		vaa.Uint256Item("messageFee"),
	),
	TransferFees: layout.MustNew(
		vaa.Uint256Item("amount"),
		vaa.UniversalAddressItem("recipient"),
	),
	UpdateDefaultProvider: layout.MustNew(
		vaa.UniversalAddressItem("defaultProvider"),
	),
}

var evmAddressConversion = layout.Convert(
	func(b []byte) (common.Address, error) { return common.BytesToAddress(b), nil },
	func(a common.Address) ([]byte, error) { return a.Bytes(), nil },
)

// encodeModule right-justifies the wire name of m in 32 zero bytes.
func encodeModule(m Module) []byte {
	b := make([]byte, moduleSize)
	name := m.WireName()
	copy(b[moduleSize-len(name):], name)
	return b
}

// decodeModule returns the ASCII suffix following the last zero byte.
func decodeModule(b []byte) string {
	return string(b[bytes.LastIndexByte(b, 0)+1:])
}

func moduleConversion(m Module) *layout.Conversion {
	return layout.Convert(
		func(b []byte) (Module, error) {
			if got := decodeModule(b); got != m.WireName() {
				return "", fmt.Errorf("%w: module %q, expected %q", layout.ErrFixedValueMismatch, got, m.WireName())
			}
			return m, nil
		},
		func(got Module) ([]byte, error) {
			if got != m {
				return nil, fmt.Errorf("%w: module %s, expected %s", layout.ErrFixedValueMismatch, got, m)
			}
			return encodeModule(m), nil
		},
	)
}

func actionConversion(m Module, a Action) *layout.Conversion {
	return layout.Convert(
		func(n uint64) (Action, error) {
			if n > 0xff {
				return "", fmt.Errorf("%w: action %d", layout.ErrSchemaViolation, n)
			}
			got, err := ActionByNumber(m, uint8(n))
			if err != nil {
				return "", fmt.Errorf("%w: %w", layout.ErrSchemaViolation, err)
			}
			if got != a {
				return "", fmt.Errorf("%w: action %d is %s, expected %s", layout.ErrFixedValueMismatch, n, got, a)
			}
			return a, nil
		},
		func(got Action) (uint64, error) {
			if got != a {
				return 0, fmt.Errorf("%w: action %s, expected %s", layout.ErrFixedValueMismatch, got, a)
			}
			n, err := ActionNumber(m, a)
			return uint64(n), err
		},
	)
}

func chainConversion(a Action) *layout.Conversion {
	inner := vaa.ChainConversion(vaa.AllowNull())
	return &layout.Conversion{
		Decode: func(raw any) (any, error) {
			if n, ok := raw.(uint64); ok && n == 0 && !a.AllowsNull() {
				return nil, fmt.Errorf("%w: %s", ErrDisallowedNullChain, a)
			}
			return inner.Decode(raw)
		},
		Encode: func(v any) (any, error) {
			if id, ok := v.(chain.ID); ok && id == chain.Unset && !a.AllowsNull() {
				return nil, fmt.Errorf("%w: %s", ErrDisallowedNullChain, a)
			}
			return inner.Encode(v)
		},
	}
}

func headerItems(m Module, a Action) []layout.Item {
	return []layout.Item{
		layout.BytesItem{Name: "module", Size: moduleSize, Custom: moduleConversion(m)},
		layout.UintItem{Name: "action", Size: 1, Custom: actionConversion(m, a)},
		layout.UintItem{Name: "chain", Size: 2, Custom: chainConversion(a)},
	}
}

// PayloadLayout returns the layout of a governance payload: the module,
// action and chain header followed by the fields of the action.
func PayloadLayout(m Module, a Action) (layout.Layout, error) {
	if _, err := ActionNumber(m, a); err != nil {
		return layout.Layout{}, err
	}
	header, err := layout.New(headerItems(m, a)...)
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Concat(header, actionFields[a])
}

// Register adds every governance payload to r.
func Register(r *vaa.Registry) error {
	for _, m := range modules {
		for _, a := range moduleActions[m] {
			l, err := PayloadLayout(m, a)
			if err != nil {
				return err
			}
			if err := r.Register(Literal(m, a), l); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	for _, m := range modules {
		for _, a := range moduleActions[m] {
			l, err := PayloadLayout(m, a)
			if err != nil {
				panic(err)
			}
			vaa.MustRegister(Literal(m, a), l)
		}
	}
}
