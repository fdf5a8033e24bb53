// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package address implements the 32-byte universal address and the codecs
// that translate it to and from the native address format of each platform.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/geth/common/hexutil"
)

// UniversalSize is the byte length of a universal address.
const UniversalSize = 32

var (
	// ErrInvalidAddress is returned when an address cannot be parsed.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAlreadyRegistered is returned when a second native codec is
	// registered for a platform.
	ErrAlreadyRegistered = errors.New("native address codec already registered")

	// ErrNoNativeCodec is returned when no native codec is registered for the
	// platform of a chain.
	ErrNoNativeCodec = errors.New("no native address codec")
)

// Universal is the chain-agnostic 32-byte form of an address.
type Universal [UniversalSize]byte

// UniversalFromBytes copies b into a universal address. b must be exactly 32
// bytes long.
func UniversalFromBytes(b []byte) (Universal, error) {
	var u Universal
	if len(b) != UniversalSize {
		return u, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, UniversalSize, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// ParseUniversal parses a 64 character hex string, with or without a 0x prefix.
func ParseUniversal(s string) (Universal, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Universal{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return UniversalFromBytes(b)
}

// Bytes returns a copy of the address bytes.
func (u Universal) Bytes() []byte {
	b := make([]byte, UniversalSize)
	copy(b, u[:])
	return b
}

// IsZero reports whether every byte of the address is zero.
func (u Universal) IsZero() bool {
	return u == Universal{}
}

// String returns the 0x-prefixed hex encoding.
func (u Universal) String() string {
	return hexutil.Encode(u[:])
}

// Universal returns the address itself so that Universal satisfies Native.
func (u Universal) Universal() Universal {
	return u
}

// MarshalText implements encoding.TextMarshaler.
func (u Universal) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Universal) UnmarshalText(text []byte) error {
	parsed, err := ParseUniversal(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
