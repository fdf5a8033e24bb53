// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/math/set"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/vms/evm"
)

// Errors returned by the signer backend.
var (
	ErrNoSigners       = errors.New("no signers specified")
	ErrUnknownSigner   = errors.New("no signer for guardian")
	ErrInvalidGuardian = errors.New("invalid guardian index")
	ErrAddressMismatch = errors.New("signer address does not match guardian")
	ErrDuplicateSigner = errors.New("guardian listed twice")
	ErrAlreadySigned   = errors.New("guardian already signed")
)

// Signer is an interface for signing VAA digests
type Signer interface {
	// Sign signs a digest
	Sign(digest common.Hash) (vaa.Signature, error)

	// Address returns the address of the signing key
	Address() common.Address
}

// LocalSigner signs with a secp256k1 key held in memory
type LocalSigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewLocalSigner creates a new local signer
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{
		key:  key,
		addr: common.Address(crypto.PubkeyToAddress(key.PublicKey)),
	}
}

// LocalSignerFromHex creates a local signer from a hex encoded private key.
func LocalSignerFromHex(s string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewLocalSigner(key), nil
}

// Sign signs a digest
func (s *LocalSigner) Sign(digest common.Hash) (vaa.Signature, error) {
	raw, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return vaa.Signature{}, err
	}
	return vaa.SignatureFromBytes(raw)
}

// Address returns the address of the signing key
func (s *LocalSigner) Address() common.Address {
	return s.addr
}

// Backend holds the signers of a guardian set and attaches their signatures
// to VAAs.
type Backend struct {
	guardians []common.Address
	signers   map[uint8]Signer
}

// NewBackend creates a new signer backend for a guardian set
func NewBackend(guardians []common.Address) *Backend {
	return &Backend{
		guardians: guardians,
		signers:   make(map[uint8]Signer),
	}
}

// AddSigner adds a signer for a guardian
func (b *Backend) AddSigner(index uint8, signer Signer) error {
	if int(index) >= len(b.guardians) {
		return fmt.Errorf("%w: %d", ErrInvalidGuardian, index)
	}
	if signer.Address() != b.guardians[index] {
		return fmt.Errorf("%w: guardian %d", ErrAddressMismatch, index)
	}
	b.signers[index] = signer
	return nil
}

// Sign signs v with the given guardians and inserts the signatures in
// ascending guardian order. On error v is left unchanged.
func (b *Backend) Sign(ctx context.Context, v *vaa.VAA, indices []uint8) error {
	if len(indices) == 0 {
		return ErrNoSigners
	}

	signed := set.NewSet[uint8](len(v.Signatures))
	for _, idx := range v.Signers() {
		signed.Add(idx)
	}
	seen := set.NewSet[uint8](len(indices))
	for _, idx := range indices {
		if seen.Contains(idx) {
			return fmt.Errorf("%w: %d", ErrDuplicateSigner, idx)
		}
		seen.Add(idx)
		if signed.Contains(idx) {
			return fmt.Errorf("%w: %d", ErrAlreadySigned, idx)
		}
		if _, ok := b.signers[idx]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownSigner, idx)
		}
	}

	digest := evm.SigningDigest(v)
	sigs := make([]vaa.Signature, len(indices))
	for i, idx := range indices {
		if err := ctx.Err(); err != nil {
			return err
		}
		sig, err := b.signers[idx].Sign(digest)
		if err != nil {
			return fmt.Errorf("guardian %d: %w", idx, err)
		}
		sigs[i] = sig
	}

	out := *v
	out.Signatures = append([]vaa.GuardianSignature(nil), v.Signatures...)
	for i, idx := range indices {
		if err := out.AddSignature(idx, sigs[i]); err != nil {
			return err
		}
	}
	v.Signatures = out.Signatures
	return nil
}

// Guardians returns the guardian set
func (b *Backend) Guardians() []common.Address {
	return b.guardians
}
