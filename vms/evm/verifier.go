// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package evm verifies VAA signatures the way the EVM core contract does.
package evm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"go.uber.org/zap"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/governance"
)

var _ vaa.Verifier = (*Verifier)(nil)

// Errors returned when verifying signatures against a guardian set.
var (
	ErrNoSignatures       = errors.New("no signatures")
	ErrUnknownGuardian    = errors.New("guardian index outside guardian set")
	ErrSignerMismatch     = errors.New("signature does not match guardian")
	ErrUnknownGuardianSet = errors.New("unknown guardian set")
	ErrGuardianSetExists  = errors.New("guardian set already installed")
)

// SigningDigest returns the digest guardians sign on EVM chains: the keccak256
// of the body hash. The core contract hashes the body twice, so signatures
// recovered against the plain body hash do not match.
func SigningDigest(v *vaa.VAA) common.Hash {
	return common.Hash(crypto.Keccak256Hash(v.Hash[:]))
}

// RecoverSigners returns the address recovered from each signature, in
// signature order.
func RecoverSigners(v *vaa.VAA) ([]common.Address, error) {
	digest := SigningDigest(v)
	out := make([]common.Address, len(v.Signatures))
	for i, sig := range v.Signatures {
		addr, err := sig.Signature.Recover(digest)
		if err != nil {
			return nil, fmt.Errorf("signature %d (guardian %d): %w", i, sig.GuardianIndex, err)
		}
		out[i] = addr
	}
	return out, nil
}

// VerifySignatures checks that every signature of v recovers to the guardian
// at its index. It does not check for quorum.
func VerifySignatures(v *vaa.VAA, guardians []common.Address) error {
	if len(v.Signatures) == 0 {
		return ErrNoSignatures
	}
	signers, err := RecoverSigners(v)
	if err != nil {
		return err
	}
	for i, sig := range v.Signatures {
		idx := int(sig.GuardianIndex)
		if idx >= len(guardians) {
			return fmt.Errorf("%w: index %d, set has %d guardians", ErrUnknownGuardian, idx, len(guardians))
		}
		if signers[i] != guardians[idx] {
			return fmt.Errorf("%w: guardian %d is %s, recovered %s", ErrSignerMismatch, idx, guardians[idx], signers[i])
		}
	}
	return nil
}

// Verifier verifies VAAs against the guardian sets it has been given.
type Verifier struct {
	lock sync.RWMutex
	sets map[uint32]*GuardianSet
	log  *zap.Logger
}

// NewVerifier returns a verifier with no guardian sets.
func NewVerifier(log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{
		sets: make(map[uint32]*GuardianSet),
		log:  log,
	}
}

// AddGuardianSet installs a guardian set. A guardian set index is write-once.
func (v *Verifier) AddGuardianSet(index uint32, guardians []common.Address) error {
	gs, err := NewGuardianSet(index, guardians)
	if err != nil {
		return err
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	if _, ok := v.sets[index]; ok {
		return fmt.Errorf("%w: %d", ErrGuardianSetExists, index)
	}
	v.sets[index] = gs
	v.log.Info("installed guardian set",
		zap.Uint32("index", index),
		zap.Int("guardians", len(guardians)),
	)
	return nil
}

// GuardianSet returns the guardians of an installed set.
func (v *Verifier) GuardianSet(index uint32) ([]common.Address, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	gs, ok := v.sets[index]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGuardianSet, index)
	}
	return append([]common.Address(nil), gs.Guardians...), nil
}

// Verify checks the signatures of msg against the guardian set it names. It
// does not count signatures against a quorum.
func (v *Verifier) Verify(ctx context.Context, msg *vaa.VAA) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	guardians, err := v.GuardianSet(msg.GuardianSetIndex)
	if err != nil {
		return err
	}
	if err := VerifySignatures(msg, guardians); err != nil {
		v.log.Debug("signature verification failed",
			zap.Stringer("vaa", msg),
			zap.Uint32("guardianSet", msg.GuardianSetIndex),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ApplyGuardianSetUpgrade verifies a CoreBridge GuardianSetUpgrade and
// installs the guardian set it carries.
func (v *Verifier) ApplyGuardianSetUpgrade(ctx context.Context, msg *vaa.VAA) error {
	p, err := governance.FromVAA(msg)
	if err != nil {
		return err
	}
	upgrade, err := governance.GuardianSetUpgradeOf(p)
	if err != nil {
		return err
	}
	if upgrade.GuardianSet != msg.GuardianSetIndex+1 {
		return fmt.Errorf("%w: upgrade from set %d to %d", ErrUnknownGuardianSet, msg.GuardianSetIndex, upgrade.GuardianSet)
	}
	if err := v.Verify(ctx, msg); err != nil {
		return err
	}
	return v.AddGuardianSet(upgrade.GuardianSet, upgrade.Guardians)
}
