// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
)

var headerFields = []string{"module", "action", "chain"}

// Payload is the typed view of a decoded governance payload. Fields holds the
// action specific values keyed by field name.
type Payload struct {
	Module Module
	Action Action
	Chain  chain.ID
	Fields layout.Record
}

// Literal returns the payload literal the payload is registered under.
func (p *Payload) Literal() string {
	return Literal(p.Module, p.Action)
}

// Record returns the payload as a record accepted by the codec.
func (p *Payload) Record() layout.Record {
	rec := make(layout.Record, len(p.Fields)+len(headerFields))
	for k, v := range p.Fields {
		rec[k] = v
	}
	rec["module"] = p.Module
	rec["action"] = p.Action
	rec["chain"] = p.Chain
	return rec
}

// NewPayload builds the record of a governance payload. The fields must match
// the layout of the action.
func NewPayload(m Module, a Action, c chain.ID, fields layout.Record) (layout.Record, error) {
	if _, err := ActionNumber(m, a); err != nil {
		return nil, err
	}
	for _, name := range headerFields {
		if _, ok := fields[name]; ok {
			return nil, fmt.Errorf("%w: field %q is part of the governance header", layout.ErrSchemaViolation, name)
		}
	}
	p := &Payload{Module: m, Action: a, Chain: c, Fields: fields}
	return p.Record(), nil
}

// Parse returns the typed view of a decoded governance payload record.
func Parse(rec layout.Record) (*Payload, error) {
	m, err := layout.Get[Module](rec, "module")
	if err != nil {
		return nil, err
	}
	a, err := layout.Get[Action](rec, "action")
	if err != nil {
		return nil, err
	}
	c, err := layout.Get[chain.ID](rec, "chain")
	if err != nil {
		return nil, err
	}
	fields := make(layout.Record, len(rec))
	for k, v := range rec {
		fields[k] = v
	}
	for _, name := range headerFields {
		delete(fields, name)
	}
	return &Payload{Module: m, Action: a, Chain: c, Fields: fields}, nil
}

// FromVAA returns the governance payload carried by v.
func FromVAA(v *vaa.VAA) (*Payload, error) {
	rec, ok := v.Payload.(layout.Record)
	if !ok {
		return nil, fmt.Errorf("%w: payload %q is %T, not a governance record", layout.ErrSchemaViolation, v.PayloadLiteral, v.Payload)
	}
	p, err := Parse(rec)
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", v.PayloadLiteral, err)
	}
	if p.Literal() != v.PayloadLiteral {
		return nil, fmt.Errorf("%w: payload decodes as %q, registered as %q", layout.ErrFixedValueMismatch, p.Literal(), v.PayloadLiteral)
	}
	return p, nil
}

// GuardianSetUpgradeBody is the content of a CoreBridge GuardianSetUpgrade.
type GuardianSetUpgradeBody struct {
	GuardianSet uint32
	Guardians   []common.Address
}

// GuardianSetUpgradeOf extracts the new guardian set from p.
func GuardianSetUpgradeOf(p *Payload) (*GuardianSetUpgradeBody, error) {
	if p.Module != CoreBridge || p.Action != GuardianSetUpgrade {
		return nil, fmt.Errorf("%w: %s is not a guardian set upgrade", layout.ErrSchemaViolation, p.Literal())
	}
	index, err := layout.Get[uint64](p.Fields, "guardianSet")
	if err != nil {
		return nil, err
	}
	guardians, err := layout.Get[[]layout.Record](p.Fields, "guardians")
	if err != nil {
		return nil, err
	}
	body := &GuardianSetUpgradeBody{
		GuardianSet: uint32(index),
		Guardians:   make([]common.Address, len(guardians)),
	}
	for i, g := range guardians {
		if body.Guardians[i], err = layout.Get[common.Address](g, "address"); err != nil {
			return nil, fmt.Errorf("guardians: [%d]: %w", i, err)
		}
	}
	return body, nil
}

// GuardianSetUpgradePayload builds the record of a guardian set upgrade.
func GuardianSetUpgradePayload(index uint32, guardians []common.Address) layout.Record {
	elems := make([]layout.Record, len(guardians))
	for i, g := range guardians {
		elems[i] = layout.Record{"address": g}
	}
	p := &Payload{
		Module: CoreBridge,
		Action: GuardianSetUpgrade,
		Chain:  chain.Unset,
		Fields: layout.Record{
			"guardianSet": uint64(index),
			"guardians":   elems,
		},
	}
	return p.Record()
}

// RegisterChainPayload builds the record of a RegisterChain action of m.
func RegisterChainPayload(m Module, target chain.ID, foreignChain chain.ID, foreignAddress address.Universal) (layout.Record, error) {
	return NewPayload(m, RegisterChain, target, layout.Record{
		"foreignChain":   foreignChain,
		"foreignAddress": foreignAddress,
	})
}

// SetMessageFeePayload builds the record of a CoreBridge SetMessageFee.
func SetMessageFeePayload(target chain.ID, fee *uint256.Int) (layout.Record, error) {
	return NewPayload(CoreBridge, SetMessageFee, target, layout.Record{
		"messageFee": fee,
	})
}

// RecoverChainIdPayload builds a RecoverChainId action of m assigning newChain
// its EIP-155 chain id.
func RecoverChainIdPayload(m Module, target chain.ID, newChain chain.ID) (layout.Record, error) {
	evmChainID, ok := chain.EvmChainID(newChain)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no EVM chain id", layout.ErrSchemaViolation, newChain)
	}
	return NewPayload(m, RecoverChainId, target, layout.Record{
		"evmChainId": uint256.NewInt(evmChainID),
		"newChainId": newChain,
	})
}
