// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package relayer

import (
	"github.com/holiman/uint256"

	"github.com/luxfi/vaa/layout"
)

// evmExecutionInfoLayout is the ABI encoding of (uint8 version, uint256
// gasLimit, uint256 targetChainRefundPerGasUnused) with version 0.
var evmExecutionInfoLayout = layout.MustNew(
	layout.UintItem{Name: "version", Size: 32, Custom: layout.Const(uint64(0))},
	layout.UintItem{Name: "gasLimit", Size: 32},
	layout.UintItem{Name: "targetChainRefundPerGasUnused", Size: 32},
)

// EvmExecutionInfo is the execution info of a delivery to an EVM chain.
type EvmExecutionInfo struct {
	GasLimit                      *uint256.Int
	TargetChainRefundPerGasUnused *uint256.Int
}

// ParseEvmExecutionInfo decodes the execution info of an EVM delivery.
func ParseEvmExecutionInfo(b []byte) (*EvmExecutionInfo, error) {
	rec, err := layout.Deserialize(evmExecutionInfoLayout, b)
	if err != nil {
		return nil, err
	}
	gasLimit, err := layout.Get[*uint256.Int](rec, "gasLimit")
	if err != nil {
		return nil, err
	}
	refund, err := layout.Get[*uint256.Int](rec, "targetChainRefundPerGasUnused")
	if err != nil {
		return nil, err
	}
	return &EvmExecutionInfo{GasLimit: gasLimit, TargetChainRefundPerGasUnused: refund}, nil
}

// Bytes encodes the execution info.
func (e *EvmExecutionInfo) Bytes() ([]byte, error) {
	return layout.Serialize(evmExecutionInfoLayout, layout.Record{
		"gasLimit":                      e.GasLimit,
		"targetChainRefundPerGasUnused": e.TargetChainRefundPerGasUnused,
	})
}
