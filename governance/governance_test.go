// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"os"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
)

func testEnvelope() vaa.Envelope {
	var emitter address.Universal
	emitter[31] = 4
	return vaa.Envelope{
		Timestamp:        1,
		Nonce:            2,
		EmitterChain:     chain.Solana,
		EmitterAddress:   emitter,
		Sequence:         3,
		ConsistencyLevel: 32,
	}
}

func TestGuardianSetUpgradeFixture(t *testing.T) {
	require := require.New(t)

	b, err := os.ReadFile("testdata/guardian_set_upgrade.hex")
	require.NoError(err)
	hex := strings.TrimSpace(string(b))

	v, err := vaa.DeserializeHex("CoreBridgeGuardianSetUpgrade", hex)
	require.NoError(err)
	require.Equal("CoreBridgeGuardianSetUpgrade", v.PayloadLiteral)
	require.Equal(uint8(1), v.Version)
	require.Equal(uint32(2), v.GuardianSetIndex)
	require.Len(v.Signatures, 13)
	require.Equal(uint32(2651610618), v.Nonce)
	require.Equal(chain.Solana, v.EmitterChain)

	p, err := FromVAA(v)
	require.NoError(err)
	require.Equal(CoreBridge, p.Module)
	require.Equal(GuardianSetUpgrade, p.Action)
	require.Equal(chain.Unset, p.Chain)

	body, err := GuardianSetUpgradeOf(p)
	require.NoError(err)
	require.Equal(uint32(3), body.GuardianSet)
	require.Len(body.Guardians, 19)
	require.Equal(common.HexToAddress("0x58cc3ae5c097b213ce3c81979e1b9f9570746aa5"), body.Guardians[0])

	raw, err := vaa.Serialize(v)
	require.NoError(err)
	require.Equal(strings.ToLower(hex), common.Bytes2Hex(raw))

	rebuilt, err := vaa.SerializePayload(v.PayloadLiteral, GuardianSetUpgradePayload(body.GuardianSet, body.Guardians))
	require.NoError(err)
	original, err := vaa.SerializePayload(v.PayloadLiteral, v.Payload)
	require.NoError(err)
	require.Equal(original, rebuilt)
}

func TestChainNullability(t *testing.T) {
	var contract address.Universal
	contract[31] = 0xee

	tests := []struct {
		name    string
		module  Module
		action  Action
		fields  layout.Record
		wantErr error
	}{
		{
			name:   "register chain addresses every chain",
			module: TokenBridge,
			action: RegisterChain,
			fields: layout.Record{"foreignChain": chain.Ethereum, "foreignAddress": contract},
		},
		{
			name:   "transfer fees addresses every chain",
			module: CoreBridge,
			action: TransferFees,
			fields: layout.Record{"amount": uint64(10), "recipient": contract},
		},
		{
			name:    "upgrade contract needs a chain",
			module:  CoreBridge,
			action:  UpgradeContract,
			fields:  layout.Record{"newContract": contract},
			wantErr: ErrDisallowedNullChain,
		},
		{
			name:    "set message fee needs a chain",
			module:  CoreBridge,
			action:  SetMessageFee,
			fields:  layout.Record{"messageFee": uint256.NewInt(5)},
			wantErr: ErrDisallowedNullChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			rec, err := NewPayload(tt.module, tt.action, chain.Unset, tt.fields)
			require.NoError(err)

			v, err := vaa.Create(Literal(tt.module, tt.action), testEnvelope(), rec)
			if tt.wantErr != nil {
				require.ErrorIs(err, tt.wantErr)
				return
			}
			require.NoError(err)

			raw, err := vaa.Serialize(v)
			require.NoError(err)
			decoded, err := vaa.Deserialize(v.PayloadLiteral, raw)
			require.NoError(err)

			p, err := FromVAA(decoded)
			require.NoError(err)
			require.Equal(chain.Unset, p.Chain)
			require.Equal(tt.module, p.Module)
			require.Equal(tt.action, p.Action)
		})
	}
}

func TestDecodeRejectsNullChain(t *testing.T) {
	require := require.New(t)

	var contract address.Universal
	contract[0] = 1
	rec, err := NewPayload(CoreBridge, UpgradeContract, chain.Ethereum, layout.Record{"newContract": contract})
	require.NoError(err)

	literal := Literal(CoreBridge, UpgradeContract)
	raw, err := vaa.SerializePayload(literal, rec)
	require.NoError(err)
	require.Len(raw, 32+1+2+32)

	raw[33], raw[34] = 0, 0
	_, err = vaa.DeserializePayload(literal, raw)
	require.ErrorIs(err, ErrDisallowedNullChain)

	raw[34] = 27
	_, err = vaa.DeserializePayload(literal, raw)
	require.ErrorIs(err, chain.ErrUnknownChainID)
}

func TestHeaderMismatch(t *testing.T) {
	var contract address.Universal
	contract[0] = 1
	rec, err := NewPayload(CoreBridge, UpgradeContract, chain.Ethereum, layout.Record{"newContract": contract})
	require.NoError(t, err)
	raw, err := vaa.SerializePayload(Literal(CoreBridge, UpgradeContract), rec)
	require.NoError(t, err)

	tests := []struct {
		name    string
		literal string
		mutate  func([]byte)
		wantErr error
	}{
		{
			name:    "module mismatch",
			literal: Literal(TokenBridge, UpgradeContract),
			mutate:  func([]byte) {},
			wantErr: layout.ErrFixedValueMismatch,
		},
		{
			name:    "action mismatch",
			literal: Literal(CoreBridge, GuardianSetUpgrade),
			mutate:  func([]byte) {},
			wantErr: layout.ErrFixedValueMismatch,
		},
		{
			name:    "unknown action number",
			literal: Literal(CoreBridge, UpgradeContract),
			mutate:  func(b []byte) { b[32] = 9 },
			wantErr: layout.ErrSchemaViolation,
		},
		{
			name:    "garbage before module name",
			literal: Literal(CoreBridge, UpgradeContract),
			mutate:  func(b []byte) { b[27] = 'X' },
			wantErr: layout.ErrFixedValueMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), raw...)
			tt.mutate(data)
			_, err := vaa.DeserializePayload(tt.literal, data)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestModuleEncoding(t *testing.T) {
	require := require.New(t)

	for _, m := range Modules() {
		b := encodeModule(m)
		require.Len(b, moduleSize)
		require.Equal(m.WireName(), decodeModule(b))
	}
	require.Equal("Core", string(encodeModule(CoreBridge)[28:]))
	require.Equal(make([]byte, 28), encodeModule(CoreBridge)[:28])

	// A module name without a zero byte is taken whole.
	require.Equal("AB", decodeModule([]byte("AB")))
}

func TestActionTables(t *testing.T) {
	tests := []struct {
		module Module
		action Action
		number uint8
	}{
		{CoreBridge, UpgradeContract, 1},
		{CoreBridge, GuardianSetUpgrade, 2},
		{CoreBridge, SetMessageFee, 3},
		{CoreBridge, TransferFees, 4},
		{CoreBridge, RecoverChainId, 5},
		{TokenBridge, RegisterChain, 1},
		{TokenBridge, UpgradeContract, 2},
		{TokenBridge, RecoverChainId, 3},
		{NftBridge, RegisterChain, 1},
		{NftBridge, UpgradeContract, 2},
		{NftBridge, RecoverChainId, 3},
		{Relayer, RegisterChain, 1},
		{Relayer, UpgradeContract, 2},
		{Relayer, UpdateDefaultProvider, 3},
	}

	for _, tt := range tests {
		t.Run(Literal(tt.module, tt.action), func(t *testing.T) {
			require := require.New(t)

			n, err := ActionNumber(tt.module, tt.action)
			require.NoError(err)
			require.Equal(tt.number, n)

			a, err := ActionByNumber(tt.module, tt.number)
			require.NoError(err)
			require.Equal(tt.action, a)

			_, err = vaa.DefaultRegistry.Resolve(Literal(tt.module, tt.action))
			require.NoError(err)
		})
	}

	require.Len(t, Literals(), len(tests))
	_, err := ActionNumber(TokenBridge, GuardianSetUpgrade)
	require.Error(t, err)
	_, err = ActionByNumber(Relayer, 0)
	require.Error(t, err)
}

func TestRecoverChainIdPlatform(t *testing.T) {
	require := require.New(t)

	literal := Literal(TokenBridge, RecoverChainId)
	rec, err := NewPayload(TokenBridge, RecoverChainId, chain.Ethereum, layout.Record{
		"evmChainId": uint64(1),
		"newChainId": chain.Solana,
	})
	require.NoError(err)
	_, err = vaa.SerializePayload(literal, rec)
	require.ErrorIs(err, layout.ErrSchemaViolation)

	rec["newChainId"] = chain.Ethereum
	raw, err := vaa.SerializePayload(literal, rec)
	require.NoError(err)

	decoded, err := vaa.DeserializePayload(literal, raw)
	require.NoError(err)
	p, err := Parse(decoded.(layout.Record))
	require.NoError(err)
	require.Equal(chain.Ethereum, p.Fields["newChainId"])
	evmChainID, err := layout.Get[*uint256.Int](p.Fields, "evmChainId")
	require.NoError(err)
	require.Equal(uint64(1), evmChainID.Uint64())
}

func TestBuilders(t *testing.T) {
	require := require.New(t)

	var foreign address.Universal
	foreign[31] = 9
	rec, err := RegisterChainPayload(NftBridge, chain.Unset, chain.Sui, foreign)
	require.NoError(err)
	raw, err := vaa.SerializePayload(Literal(NftBridge, RegisterChain), rec)
	require.NoError(err)
	require.Equal("NFTBridge", decodeModule(raw[:32]))

	rec, err = SetMessageFeePayload(chain.Ethereum, uint256.NewInt(1000))
	require.NoError(err)
	_, err = vaa.SerializePayload(Literal(CoreBridge, SetMessageFee), rec)
	require.NoError(err)

	_, err = NewPayload(CoreBridge, SetMessageFee, chain.Ethereum, layout.Record{"chain": chain.Ethereum})
	require.ErrorIs(err, layout.ErrSchemaViolation)

	_, err = GuardianSetUpgradeOf(&Payload{Module: TokenBridge, Action: RegisterChain})
	require.ErrorIs(err, layout.ErrSchemaViolation)
}

func TestRecoverChainIdPayload(t *testing.T) {
	require := require.New(t)

	literal := Literal(TokenBridge, RecoverChainId)
	rec, err := RecoverChainIdPayload(TokenBridge, chain.Base, chain.Base)
	require.NoError(err)
	raw, err := vaa.SerializePayload(literal, rec)
	require.NoError(err)

	decoded, err := vaa.DeserializePayload(literal, raw)
	require.NoError(err)
	p, err := Parse(decoded.(layout.Record))
	require.NoError(err)
	require.Equal(chain.Base, p.Chain)
	evmChainID, err := layout.Get[*uint256.Int](p.Fields, "evmChainId")
	require.NoError(err)
	require.Equal(uint64(8453), evmChainID.Uint64())

	_, err = RecoverChainIdPayload(TokenBridge, chain.Base, chain.Solana)
	require.ErrorIs(err, layout.ErrSchemaViolation)
}
