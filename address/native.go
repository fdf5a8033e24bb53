// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/luxfi/vaa/chain"
)

// Native is an address in the native format of some chain.
type Native interface {
	fmt.Stringer
	Bytes() []byte
	Universal() Universal
}

// NativeCodec translates between universal and native addresses for every
// chain of one platform.
type NativeCodec interface {
	FromUniversal(c chain.ID, u Universal) (Native, error)
	Parse(c chain.ID, s string) (Native, error)
}

var (
	nativeLock   sync.RWMutex
	nativeCodecs = make(map[chain.Platform]NativeCodec)
)

// RegisterNative installs the codec of a platform. Registration is
// write-once: a second codec for the same platform is rejected.
func RegisterNative(p chain.Platform, codec NativeCodec) error {
	nativeLock.Lock()
	defer nativeLock.Unlock()

	if _, ok := nativeCodecs[p]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, p)
	}
	nativeCodecs[p] = codec
	return nil
}

// NativePlatforms returns the platforms with a registered codec.
func NativePlatforms() []chain.Platform {
	nativeLock.RLock()
	defer nativeLock.RUnlock()

	out := make([]chain.Platform, 0, len(nativeCodecs))
	for p := range nativeCodecs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func codecFor(c chain.ID) (NativeCodec, error) {
	p, err := c.Platform()
	if err != nil {
		return nil, err
	}
	nativeLock.RLock()
	codec, ok := nativeCodecs[p]
	nativeLock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoNativeCodec, c, p)
	}
	return codec, nil
}

// ToNative converts a universal address into the native address of c.
func ToNative(c chain.ID, u Universal) (Native, error) {
	codec, err := codecFor(c)
	if err != nil {
		return nil, err
	}
	return codec.FromUniversal(c, u)
}

// ParseNative parses s in the native format of c.
func ParseNative(c chain.ID, s string) (Native, error) {
	codec, err := codecFor(c)
	if err != nil {
		return nil, err
	}
	return codec.Parse(c, s)
}

// ToUniversal parses s in the native format of c and returns its universal
// form. A 0x-prefixed 32-byte hex string is accepted on every chain.
func ToUniversal(c chain.ID, s string) (Universal, error) {
	if strings.HasPrefix(s, "0x") && len(s) == 2+2*UniversalSize {
		return ParseUniversal(s)
	}
	n, err := ParseNative(c, s)
	if err != nil {
		return Universal{}, err
	}
	return n.Universal(), nil
}

func mustRegisterNative(p chain.Platform, codec NativeCodec) {
	if err := RegisterNative(p, codec); err != nil {
		panic(err)
	}
}

func init() {
	mustRegisterNative(chain.Evm, evmCodec{})
	mustRegisterNative(chain.SolanaVM, solanaCodec{})
	mustRegisterNative(chain.Cosmwasm, cosmwasmCodec{})
}
