// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/vaa/chain"
)

func TestParseUniversal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "prefixed", input: "0x" + strings.Repeat("00", 31) + "04"},
		{name: "bare", input: strings.Repeat("ab", 32)},
		{name: "short", input: "0x" + strings.Repeat("00", 20), wantErr: true},
		{name: "long", input: "0x" + strings.Repeat("00", 33), wantErr: true},
		{name: "not hex", input: "0x" + strings.Repeat("zz", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUniversal(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			require.Equal(t, strings.ToLower(strings.TrimPrefix(tt.input, "0x")), strings.TrimPrefix(u.String(), "0x"))
		})
	}
}

func TestUniversalText(t *testing.T) {
	require := require.New(t)

	var u Universal
	u[31] = 4
	text, err := u.MarshalText()
	require.NoError(err)

	var decoded Universal
	require.NoError(decoded.UnmarshalText(text))
	require.Equal(u, decoded)
	require.False(decoded.IsZero())
	require.True(Universal{}.IsZero())
}

func TestEvm(t *testing.T) {
	require := require.New(t)

	const hex = "0x58cc3ae5c097b213ce3c81979e1b9f9570746aa5"
	n, err := ParseNative(chain.Ethereum, hex)
	require.NoError(err)
	require.True(strings.EqualFold(hex, n.String()))

	u := n.Universal()
	require.Equal(make([]byte, 12), u[:12])

	back, err := ToNative(chain.Polygon, u)
	require.NoError(err)
	require.Equal(n.Bytes(), back.Bytes())

	u[0] = 1
	_, err = ToNative(chain.Ethereum, u)
	require.ErrorIs(err, ErrInvalidAddress)

	_, err = ParseNative(chain.Ethereum, "0x1234")
	require.ErrorIs(err, ErrInvalidAddress)
}

func TestSolana(t *testing.T) {
	require := require.New(t)

	n, err := ToNative(chain.Solana, Universal{})
	require.NoError(err)
	require.Equal(strings.Repeat("1", 32), n.String())

	var u Universal
	u[31] = 4
	n, err = ToNative(chain.Pythnet, u)
	require.NoError(err)

	parsed, err := ToUniversal(chain.Solana, n.String())
	require.NoError(err)
	require.Equal(u, parsed)

	_, err = ParseNative(chain.Solana, "111")
	require.ErrorIs(err, ErrInvalidAddress)
}

func TestCosmwasm(t *testing.T) {
	require := require.New(t)

	var account Universal
	for i := 12; i < UniversalSize; i++ {
		account[i] = byte(i)
	}
	n, err := ToNative(chain.Injective, account)
	require.NoError(err)
	require.Len(n.Bytes(), accountSize)
	require.True(strings.HasPrefix(n.String(), "inj1"))

	parsed, err := ToUniversal(chain.Injective, n.String())
	require.NoError(err)
	require.Equal(account, parsed)

	_, err = ParseNative(chain.Sei, n.String())
	require.ErrorIs(err, ErrInvalidAddress)

	var contract Universal
	contract[0] = 0xff
	n, err = ToNative(chain.Terra2, contract)
	require.NoError(err)
	require.Len(n.Bytes(), UniversalSize)

	parsed, err = ToUniversal(chain.Terra2, n.String())
	require.NoError(err)
	require.Equal(contract, parsed)
}

func TestRegistryWriteOnce(t *testing.T) {
	require := require.New(t)

	err := RegisterNative(chain.Evm, evmCodec{})
	require.ErrorIs(err, ErrAlreadyRegistered)

	_, err = ToNative(chain.Sui, Universal{})
	require.ErrorIs(err, ErrNoNativeCodec)

	require.Contains(NativePlatforms(), chain.Evm)
}
