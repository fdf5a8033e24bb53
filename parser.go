// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/vaa/cache"
)

// CachingParser memoizes Deserialize by payload literal and raw bytes. Each
// call returns its own copy of the header, so signatures can be added to it;
// the decoded payload value is shared and must not be modified.
type CachingParser struct {
	codec *Codec
	cache *cache.FIFOCache[ids.ID, *VAA]
}

// NewCachingParser returns a parser that keeps up to capacity decoded VAAs.
func NewCachingParser(codec *Codec, capacity int) *CachingParser {
	return &CachingParser{
		codec: codec,
		cache: cache.NewFIFOCache[ids.ID, *VAA](capacity),
	}
}

// Parse decodes data as a VAA carrying a literal payload.
func (p *CachingParser) Parse(literal string, data []byte) (*VAA, error) {
	key := ids.ID(common.Hash(crypto.Keccak256Hash([]byte(literal), []byte{0}, data)))
	cached, err := p.cache.Get(key, func(ids.ID) (*VAA, error) {
		return p.codec.Deserialize(literal, data)
	})
	if err != nil {
		return nil, err
	}
	v := *cached
	v.Signatures = make([]GuardianSignature, len(cached.Signatures))
	copy(v.Signatures, cached.Signatures)
	return &v, nil
}

// Len returns the number of cached VAAs.
func (p *CachingParser) Len() int {
	return p.cache.Len()
}
