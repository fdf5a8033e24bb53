// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package evm

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/governance"
)

func newGuardians(t *testing.T, n int) ([]*ecdsa.PrivateKey, []common.Address) {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, n)
	addrs := make([]common.Address, n)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
		addrs[i] = common.Address(crypto.PubkeyToAddress(key.PublicKey))
	}
	return keys, addrs
}

func sign(t *testing.T, v *vaa.VAA, digest common.Hash, keys []*ecdsa.PrivateKey, indices ...uint8) {
	t.Helper()
	for _, idx := range indices {
		raw, err := crypto.Sign(digest[:], keys[idx])
		require.NoError(t, err)
		sig, err := vaa.SignatureFromBytes(raw)
		require.NoError(t, err)
		require.NoError(t, v.AddSignature(idx, sig))
	}
}

func newVAA(t *testing.T, literal string, payload any) *vaa.VAA {
	t.Helper()
	var emitter address.Universal
	emitter[31] = 4
	v, err := vaa.Create(literal, vaa.Envelope{
		Timestamp:        1,
		Nonce:            2,
		EmitterChain:     chain.Solana,
		EmitterAddress:   emitter,
		Sequence:         3,
		ConsistencyLevel: 1,
	}, payload)
	require.NoError(t, err)
	return v
}

func TestSigningDigest(t *testing.T) {
	v := newVAA(t, vaa.RawBytes, []byte("body"))
	require.Equal(t, common.Hash(crypto.Keccak256Hash(v.Hash[:])), SigningDigest(v))
	require.NotEqual(t, v.Hash, SigningDigest(v))
}

func TestVerifySignatures(t *testing.T) {
	keys, guardians := newGuardians(t, 3)

	tests := []struct {
		name      string
		signers   []uint8
		guardians []common.Address
		plainHash bool
		wantErr   error
	}{
		{name: "all guardians", signers: []uint8{0, 1, 2}, guardians: guardians},
		{name: "subset", signers: []uint8{0, 2}, guardians: guardians},
		{name: "no signatures", guardians: guardians, wantErr: ErrNoSignatures},
		{
			name:      "guardians swapped",
			signers:   []uint8{0, 1},
			guardians: []common.Address{guardians[1], guardians[0], guardians[2]},
			wantErr:   ErrSignerMismatch,
		},
		{name: "index outside set", signers: []uint8{2}, guardians: guardians[:2], wantErr: ErrUnknownGuardian},
		{name: "signed the body hash", signers: []uint8{1}, guardians: guardians, plainHash: true, wantErr: ErrSignerMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			v := newVAA(t, vaa.RawBytes, []byte(tt.name))
			digest := SigningDigest(v)
			if tt.plainHash {
				digest = v.Hash
			}
			sign(t, v, digest, keys, tt.signers...)

			err := VerifySignatures(v, tt.guardians)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}

			recovered, err := RecoverSigners(v)
			require.NoError(err)
			for i, idx := range tt.signers {
				require.Equal(guardians[idx], recovered[i])
			}
		})
	}
}

func TestVerifier(t *testing.T) {
	require := require.New(t)

	keys, guardians := newGuardians(t, 2)
	verifier := NewVerifier(zap.NewNop())
	require.NoError(verifier.AddGuardianSet(0, guardians))
	require.ErrorIs(verifier.AddGuardianSet(0, guardians), ErrGuardianSetExists)

	v := newVAA(t, vaa.RawBytes, []byte{1})
	sign(t, v, SigningDigest(v), keys, 0, 1)
	require.NoError(verifier.Verify(context.Background(), v))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(verifier.Verify(ctx, v), context.Canceled)

	v.GuardianSetIndex = 5
	require.ErrorIs(verifier.Verify(context.Background(), v), ErrUnknownGuardianSet)
}

func TestApplyGuardianSetUpgrade(t *testing.T) {
	require := require.New(t)

	keys, guardians := newGuardians(t, 3)
	_, next := newGuardians(t, 4)

	verifier := NewVerifier(nil)
	require.NoError(verifier.AddGuardianSet(0, guardians))

	literal := governance.Literal(governance.CoreBridge, governance.GuardianSetUpgrade)
	v := newVAA(t, literal, governance.GuardianSetUpgradePayload(1, next))

	require.ErrorIs(verifier.ApplyGuardianSetUpgrade(context.Background(), v), ErrNoSignatures)

	sign(t, v, SigningDigest(v), keys, 0, 2)
	require.NoError(verifier.ApplyGuardianSetUpgrade(context.Background(), v))

	installed, err := verifier.GuardianSet(1)
	require.NoError(err)
	require.Equal(next, installed)

	skip := newVAA(t, literal, governance.GuardianSetUpgradePayload(3, next))
	sign(t, skip, SigningDigest(skip), keys, 1)
	require.ErrorIs(verifier.ApplyGuardianSetUpgrade(context.Background(), skip), ErrUnknownGuardianSet)
}

func TestGuardianSetValidation(t *testing.T) {
	_, guardians := newGuardians(t, 2)

	tests := []struct {
		name      string
		guardians []common.Address
		wantErr   error
	}{
		{name: "valid", guardians: guardians},
		{name: "empty", wantErr: ErrEmptyGuardianSet},
		{name: "zero address", guardians: []common.Address{guardians[0], {}}, wantErr: ErrZeroGuardian},
		{name: "duplicate", guardians: []common.Address{guardians[0], guardians[1], guardians[0]}, wantErr: ErrDuplicateGuardian},
		{name: "too many", guardians: make([]common.Address, MaxGuardians+1), wantErr: ErrTooManyGuardians},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGuardianSet(1, tt.guardians)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
