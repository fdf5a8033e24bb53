// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package signer

import (
	"context"
	"testing"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/vms/evm"
)

func newBackend(t *testing.T, n int) *Backend {
	t.Helper()
	signers := make([]*LocalSigner, n)
	guardians := make([]common.Address, n)
	for i := range signers {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		signers[i] = NewLocalSigner(key)
		guardians[i] = signers[i].Address()
	}
	b := NewBackend(guardians)
	for i, s := range signers {
		require.NoError(t, b.AddSigner(uint8(i), s))
	}
	return b
}

func newVAA(t *testing.T) *vaa.VAA {
	t.Helper()
	v, err := vaa.Create(vaa.RawBytes, vaa.Envelope{
		EmitterChain:   chain.Ethereum,
		EmitterAddress: address.Universal{31: 1},
		Sequence:       1,
	}, []byte("hello"))
	require.NoError(t, err)
	return v
}

func TestBackendSign(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint8
		wantErr error
	}{
		{name: "ordered", indices: []uint8{0, 1, 2}},
		{name: "out of order input is sorted", indices: []uint8{3, 0, 2}},
		{name: "no signers", wantErr: ErrNoSigners},
		{name: "duplicate", indices: []uint8{1, 1}, wantErr: ErrDuplicateSigner},
		{name: "unknown", indices: []uint8{0, 9}, wantErr: ErrUnknownSigner},
	}

	b := newBackend(t, 4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			v := newVAA(t)
			err := b.Sign(context.Background(), v, tt.indices)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr != nil {
				require.Empty(v.Signatures)
				return
			}
			require.Len(v.Signatures, len(tt.indices))
			require.NoError(evm.VerifySignatures(v, b.Guardians()))

			raw, err := vaa.Serialize(v)
			require.NoError(err)
			decoded, err := vaa.Deserialize(vaa.RawBytes, raw)
			require.NoError(err)
			require.NoError(evm.VerifySignatures(decoded, b.Guardians()))
		})
	}
}

func TestAddSigner(t *testing.T) {
	require := require.New(t)

	b := newBackend(t, 2)
	key, err := crypto.GenerateKey()
	require.NoError(err)
	stranger := NewLocalSigner(key)

	require.ErrorIs(b.AddSigner(0, stranger), ErrAddressMismatch)
	require.ErrorIs(b.AddSigner(2, stranger), ErrInvalidGuardian)
}

func TestLocalSignerFromHex(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	s, err := LocalSignerFromHex("0x" + hexKey)
	require.NoError(err)
	require.Equal(common.Address(crypto.PubkeyToAddress(key.PublicKey)), s.Address())

	_, err = LocalSignerFromHex("zz")
	require.Error(err)
}

func TestSignCanceled(t *testing.T) {
	b := newBackend(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, b.Sign(ctx, newVAA(t), []uint8{0}), context.Canceled)
}

func TestSignLeavesVAAUnchangedOnError(t *testing.T) {
	require := require.New(t)

	b := newBackend(t, 3)
	v := newVAA(t)
	require.NoError(b.Sign(context.Background(), v, []uint8{1}))
	before := append([]vaa.GuardianSignature(nil), v.Signatures...)

	err := b.Sign(context.Background(), v, []uint8{0, 1})
	require.ErrorIs(err, ErrAlreadySigned)
	require.Equal([]uint8{1}, v.Signers())
	require.Equal(before, v.Signatures)

	require.NoError(b.Sign(context.Background(), v, []uint8{2, 0}))
	require.Equal([]uint8{0, 1, 2}, v.Signers())
	require.NoError(evm.VerifySignatures(v, b.Guardians()))
}
