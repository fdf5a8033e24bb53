// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"fmt"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"go.uber.org/zap"

	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
)

// Hasher computes the content hash of a body.
type Hasher func(body []byte) common.Hash

// Keccak256 is the default Hasher.
func Keccak256(body []byte) common.Hash {
	return common.Hash(crypto.Keccak256Hash(body))
}

// Codec serializes and deserializes VAAs against a payload registry.
type Codec struct {
	registry *Registry
	hash     Hasher
	log      *zap.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithRegistry sets the payload registry. DefaultRegistry is used otherwise.
func WithRegistry(r *Registry) Option {
	return func(c *Codec) { c.registry = r }
}

// WithHasher replaces the body hash function.
func WithHasher(h Hasher) Option {
	return func(c *Codec) { c.hash = h }
}

// WithLogger sets the logger that reports rejected messages at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(c *Codec) { c.log = log }
}

// NewCodec returns a codec over DefaultRegistry hashing with keccak256 unless
// configured otherwise.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		registry: DefaultRegistry,
		hash:     Keccak256,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec resolves payload literals in.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Create builds an unsigned VAA and computes its hash.
func (c *Codec) Create(literal string, env Envelope, payload any) (*VAA, error) {
	v := &VAA{
		Header: Header{
			Version:    Version,
			Signatures: []GuardianSignature{},
		},
		Envelope:       env,
		PayloadLiteral: literal,
		Payload:        payload,
	}
	body, err := c.SerializeBody(v)
	if err != nil {
		return nil, err
	}
	v.Hash = c.hash(body)
	return v, nil
}

// SerializeBody encodes the envelope and payload, the bytes the hash covers.
func (c *Codec) SerializeBody(v *VAA) ([]byte, error) {
	s, err := c.registry.Resolve(v.PayloadLiteral)
	if err != nil {
		return nil, err
	}
	b, err := layout.Serialize(s.Body(), bodyRecord(v))
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", v.PayloadLiteral, err)
	}
	return b, nil
}

// Serialize encodes the whole VAA.
func (c *Codec) Serialize(v *VAA) ([]byte, error) {
	if err := checkOrdered(v.Signatures); err != nil {
		return nil, err
	}
	s, err := c.registry.Resolve(v.PayloadLiteral)
	if err != nil {
		return nil, err
	}
	rec := bodyRecord(v)
	for k, val := range headerRecord(&v.Header) {
		rec[k] = val
	}
	b, err := layout.Serialize(s.Full(), rec)
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", v.PayloadLiteral, err)
	}
	return b, nil
}

// Deserialize decodes a VAA whose payload has the shape registered under
// literal. The whole input must be consumed.
func (c *Codec) Deserialize(literal string, data []byte) (*VAA, error) {
	v, err := c.deserialize(literal, data)
	if err != nil {
		c.log.Debug("rejected vaa",
			zap.String("literal", literal),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return nil, err
	}
	return v, nil
}

func (c *Codec) deserialize(literal string, data []byte) (*VAA, error) {
	hrec, offset, err := layout.DeserializeAt(headerLayout, data, 0)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header, err := headerFromRecord(hrec)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if err := checkOrdered(header.Signatures); err != nil {
		return nil, err
	}

	s, err := c.registry.Resolve(literal)
	if err != nil {
		return nil, err
	}
	body := data[offset:]
	brec, err := layout.Deserialize(s.Body(), body)
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", literal, err)
	}
	env, err := envelopeFromRecord(brec)
	if err != nil {
		return nil, err
	}
	return &VAA{
		Header:         header,
		Envelope:       env,
		PayloadLiteral: literal,
		Payload:        brec[payloadField],
		Hash:           c.hash(body),
	}, nil
}

// DeserializeHex is Deserialize for hex input with an optional 0x prefix.
func (c *Codec) DeserializeHex(literal, s string) (*VAA, error) {
	data, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return c.Deserialize(literal, data)
}

// SerializePayload encodes a payload on its own.
func (c *Codec) SerializePayload(literal string, payload any) ([]byte, error) {
	s, err := c.registry.Resolve(literal)
	if err != nil {
		return nil, err
	}
	b, err := layout.Serialize(s.payload, layout.Record{payloadField: payload})
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", literal, err)
	}
	return b, nil
}

// DeserializePayload decodes a payload on its own. The whole input must be
// consumed.
func (c *Codec) DeserializePayload(literal string, data []byte) (any, error) {
	s, err := c.registry.Resolve(literal)
	if err != nil {
		return nil, err
	}
	rec, err := layout.Deserialize(s.payload, data)
	if err != nil {
		return nil, fmt.Errorf("payload %q: %w", literal, err)
	}
	return rec[payloadField], nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrSchemaViolation, err)
	}
	return b, nil
}

func headerRecord(h *Header) layout.Record {
	sigs := make([]layout.Record, len(h.Signatures))
	for i, s := range h.Signatures {
		sigs[i] = layout.Record{
			"guardianIndex": uint64(s.GuardianIndex),
			"signature":     s.Signature,
		}
	}
	return layout.Record{
		"version":     uint64(h.Version),
		"guardianSet": uint64(h.GuardianSetIndex),
		"signatures":  sigs,
	}
}

func bodyRecord(v *VAA) layout.Record {
	return layout.Record{
		"timestamp":        uint64(v.Timestamp),
		"nonce":            uint64(v.Nonce),
		"emitterChain":     v.EmitterChain,
		"emitterAddress":   v.EmitterAddress,
		"sequence":         v.Sequence,
		"consistencyLevel": uint64(v.ConsistencyLevel),
		payloadField:       v.Payload,
	}
}

func headerFromRecord(rec layout.Record) (Header, error) {
	var h Header
	version, err := layout.Get[uint64](rec, "version")
	if err != nil {
		return h, err
	}
	guardianSet, err := layout.Get[uint64](rec, "guardianSet")
	if err != nil {
		return h, err
	}
	sigs, err := layout.Get[[]layout.Record](rec, "signatures")
	if err != nil {
		return h, err
	}
	h.Version = uint8(version)
	h.GuardianSetIndex = uint32(guardianSet)
	h.Signatures = make([]GuardianSignature, len(sigs))
	for i, srec := range sigs {
		index, err := layout.Get[uint64](srec, "guardianIndex")
		if err != nil {
			return h, err
		}
		sig, err := layout.Get[Signature](srec, "signature")
		if err != nil {
			return h, err
		}
		h.Signatures[i] = GuardianSignature{GuardianIndex: uint8(index), Signature: sig}
	}
	return h, nil
}

func envelopeFromRecord(rec layout.Record) (Envelope, error) {
	var (
		e   Envelope
		err error
		n   uint64
	)
	if n, err = layout.Get[uint64](rec, "timestamp"); err != nil {
		return e, err
	}
	e.Timestamp = uint32(n)
	if n, err = layout.Get[uint64](rec, "nonce"); err != nil {
		return e, err
	}
	e.Nonce = uint32(n)
	if e.EmitterChain, err = layout.Get[chain.ID](rec, "emitterChain"); err != nil {
		return e, err
	}
	if e.EmitterAddress, err = layout.Get[address.Universal](rec, "emitterAddress"); err != nil {
		return e, err
	}
	if e.Sequence, err = layout.Get[uint64](rec, "sequence"); err != nil {
		return e, err
	}
	if n, err = layout.Get[uint64](rec, "consistencyLevel"); err != nil {
		return e, err
	}
	e.ConsistencyLevel = uint8(n)
	return e, nil
}

var defaultCodec = NewCodec()

// Create builds an unsigned VAA with the default codec.
func Create(literal string, env Envelope, payload any) (*VAA, error) {
	return defaultCodec.Create(literal, env, payload)
}

// Serialize encodes v with the default codec.
func Serialize(v *VAA) ([]byte, error) {
	return defaultCodec.Serialize(v)
}

// Deserialize decodes data with the default codec.
func Deserialize(literal string, data []byte) (*VAA, error) {
	return defaultCodec.Deserialize(literal, data)
}

// DeserializeHex decodes hex input with the default codec.
func DeserializeHex(literal, s string) (*VAA, error) {
	return defaultCodec.DeserializeHex(literal, s)
}

// SerializePayload encodes a payload with the default codec.
func SerializePayload(literal string, payload any) ([]byte, error) {
	return defaultCodec.SerializePayload(literal, payload)
}

// DeserializePayload decodes a payload with the default codec.
func DeserializePayload(literal string, data []byte) (any, error) {
	return defaultCodec.DeserializePayload(literal, data)
}
