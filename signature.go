// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// SignatureSize is the length of an encoded recoverable ECDSA signature.
const SignatureSize = 65

// Signature is a recoverable secp256k1 signature. V is the recovery id.
type Signature struct {
	R uint256.Int
	S uint256.Int
	V uint8
}

// SignatureFromBytes decodes r‖s‖v.
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureSize {
		return s, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	s.R.SetBytes(b[:32])
	s.S.SetBytes(b[32:64])
	s.V = b[64]
	return s, nil
}

// Bytes encodes the signature as r‖s‖v.
func (s Signature) Bytes() []byte {
	b := make([]byte, SignatureSize)
	r := s.R.Bytes32()
	sv := s.S.Bytes32()
	copy(b[:32], r[:])
	copy(b[32:64], sv[:])
	b[64] = s.V
	return b
}

// Recover returns the address of the key that produced the signature over
// digest.
func (s Signature) Recover(digest common.Hash) (common.Address, error) {
	pub, err := crypto.SigToPub(digest[:], s.Bytes())
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return common.Address(crypto.PubkeyToAddress(*pub)), nil
}

// GuardianSignature is a signature attributed to a position in the guardian
// set.
type GuardianSignature struct {
	GuardianIndex uint8
	Signature     Signature
}

func checkOrdered(sigs []GuardianSignature) error {
	for i := 1; i < len(sigs); i++ {
		if sigs[i].GuardianIndex <= sigs[i-1].GuardianIndex {
			return fmt.Errorf(
				"%w: guardian index %d at position %d follows %d",
				ErrUnorderedSignatures,
				sigs[i].GuardianIndex,
				i,
				sigs[i-1].GuardianIndex,
			)
		}
	}
	return nil
}
