// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package relayer defines the generic relayer payloads and registers them
// with the default payload registry.
package relayer

import (
	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/layout"
)

// Payload literals.
const (
	DeliveryInstruction   = "DeliveryInstruction"
	RedeliveryInstruction = "RedeliveryInstruction"
	DeliveryOverride      = "DeliveryOverride"
)

// VaaKeyVersion is the domain value of the version tag of a VAA key.
const VaaKeyVersion = "Key"

func amountItem(name string) layout.UintItem {
	return vaa.Uint256Item(name)
}

// executionInfoItem is an opaque, 4-byte length-prefixed execution info blob.
// Its content depends on the target chain; see ParseEvmExecutionInfo.
func executionInfoItem(name string) layout.BytesItem {
	return layout.BytesItem{Name: name, LengthSize: 4}
}

// VaaKeyLayout identifies a VAA by emitter and sequence.
var VaaKeyLayout = layout.MustNew(
	layout.UintItem{Name: "version", Size: 1, Custom: layout.ConstAs(uint64(1), VaaKeyVersion)},
	vaa.ChainItem("chain"),
	vaa.UniversalAddressItem("emitterAddress"),
	layout.UintItem{Name: "sequence", Size: 8},
)

var layouts = map[string]layout.Layout{
	DeliveryInstruction: layout.MustNew(
		layout.UintItem{Name: "payloadId", Size: 1, Custom: layout.Const(uint64(1))},
		vaa.ChainItem("targetChain"),
		vaa.UniversalAddressItem("targetAddress"),
		layout.BytesItem{Name: "payload", LengthSize: 4},
		amountItem("requestedReceiverValue"),
		amountItem("extraReceiverValue"),
		executionInfoItem("executionInfo"),
		vaa.ChainItem("refundChain"),
		vaa.UniversalAddressItem("refundAddress"),
		vaa.UniversalAddressItem("refundDeliveryProvider"),
		vaa.UniversalAddressItem("sourceDeliveryProvider"),
		vaa.UniversalAddressItem("senderAddress"),
		layout.ArrayItem{Name: "vaaKeys", LengthSize: 1, Elements: VaaKeyLayout},
	),
	RedeliveryInstruction: layout.MustNew(
		layout.UintItem{Name: "payloadId", Size: 1, Custom: layout.Const(uint64(2))},
		layout.ObjectItem{Name: "deliveryVaaKey", Layout: VaaKeyLayout},
		vaa.ChainItem("targetChain"),
		amountItem("newRequestedReceiverValue"),
		executionInfoItem("newEncodedExecutionInfo"),
		vaa.UniversalAddressItem("newSourceDeliveryProvider"),
		vaa.UniversalAddressItem("newSenderAddress"),
	),
	DeliveryOverride: layout.MustNew(
		layout.UintItem{Name: "version", Size: 1, Custom: layout.Const(uint64(1))},
		amountItem("receiverValue"),
		executionInfoItem("newEncodedExecutionInfo"),
		layout.BytesItem{Name: "redeliveryHash", Size: 32},
	),
}

// Literals returns the relayer payload literals.
func Literals() []string {
	return []string{DeliveryInstruction, RedeliveryInstruction, DeliveryOverride}
}

// Register adds the relayer payloads to r.
func Register(r *vaa.Registry) error {
	for _, literal := range Literals() {
		if err := r.Register(literal, layouts[literal]); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	for _, literal := range Literals() {
		vaa.MustRegister(literal, layouts[literal])
	}
}
