// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vaa encodes, decodes and hashes guardian-signed cross-chain
// messages (VAAs). The variable payload section is decoded through a
// registry of payload shapes keyed by payload literal.
package vaa

import (
	"fmt"
	"sort"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
)

// Version is the only supported header version.
const Version = 1

// Header carries the guardian signatures.
type Header struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []GuardianSignature
}

// Envelope carries the message metadata that is hashed together with the
// payload.
type Envelope struct {
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     chain.ID
	EmitterAddress   address.Universal
	Sequence         uint64
	ConsistencyLevel uint8
}

// VAA is a decoded message. Payload holds the value produced by the shape
// registered under PayloadLiteral: a layout.Record for layout shapes, the
// conversion output otherwise.
type VAA struct {
	Header
	Envelope

	PayloadLiteral string
	Payload        any
	// Hash is the hash of the body (envelope and payload).
	Hash common.Hash
}

// ID returns the body hash as an ids.ID.
func (v *VAA) ID() ids.ID {
	return ids.ID(v.Hash)
}

// AddSignature inserts a guardian signature keeping the signatures in
// ascending guardian order. A second signature from the same guardian is
// rejected.
func (v *VAA) AddSignature(index uint8, sig Signature) error {
	i := sort.Search(len(v.Signatures), func(i int) bool {
		return v.Signatures[i].GuardianIndex >= index
	})
	if i < len(v.Signatures) && v.Signatures[i].GuardianIndex == index {
		return fmt.Errorf("%w: guardian %d already signed", ErrUnorderedSignatures, index)
	}
	v.Signatures = append(v.Signatures, GuardianSignature{})
	copy(v.Signatures[i+1:], v.Signatures[i:])
	v.Signatures[i] = GuardianSignature{GuardianIndex: index, Signature: sig}
	return nil
}

// Signers returns the guardian indices that signed, in order.
func (v *VAA) Signers() []uint8 {
	out := make([]uint8, len(v.Signatures))
	for i, s := range v.Signatures {
		out[i] = s.GuardianIndex
	}
	return out
}

func (v *VAA) String() string {
	return fmt.Sprintf(
		"VAA(%s/%s/%d, %s, %d signatures)",
		v.EmitterChain,
		v.EmitterAddress,
		v.Sequence,
		v.PayloadLiteral,
		len(v.Signatures),
	)
}
