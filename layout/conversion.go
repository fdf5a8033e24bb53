// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"fmt"
)

// Custom is attached to a UintItem or BytesItem. It is either a Fixed value or
// a *Conversion.
type Custom interface {
	custom()
}

// Fixed pins an item to a constant. Serialization asserts that the supplied
// value equals the constant, deserialization asserts that the wire value
// equals Raw and yields Value.
type Fixed struct {
	// Raw is the wire primitive: an unsigned integer for a UintItem, a []byte
	// for a BytesItem.
	Raw any
	// Value is the domain value. A nil Value means the value is Raw itself.
	Value any
}

func (Fixed) custom() {}

// Const returns a Fixed whose domain value is the raw value itself.
func Const(raw any) Fixed {
	return Fixed{Raw: raw}
}

// ConstAs returns a Fixed that is encoded as raw and decoded as value.
func ConstAs(raw, value any) Fixed {
	return Fixed{Raw: raw, Value: value}
}

func (f Fixed) value() any {
	if f.Value == nil {
		return f.Raw
	}
	return f.Value
}

// Conversion translates between a wire primitive and a domain value.
// Both functions must be pure so that layouts can be shared across goroutines.
type Conversion struct {
	// Decode turns the primitive read from the wire into a domain value.
	Decode func(raw any) (any, error)
	// Encode turns a domain value into the primitive written to the wire.
	Encode func(value any) (any, error)
}

func (*Conversion) custom() {}

func (c *Conversion) check() error {
	if c == nil || c.Decode == nil || c.Encode == nil {
		return fmt.Errorf("%w: conversion must define both Decode and Encode", ErrInvalidLayout)
	}
	return nil
}

// Convert builds a Conversion from typed functions. P is the primitive type
// (uint64, *uint256.Int or []byte) and D the domain type.
func Convert[P, D any](decode func(P) (D, error), encode func(D) (P, error)) *Conversion {
	return &Conversion{
		Decode: func(raw any) (any, error) {
			p, ok := raw.(P)
			if !ok {
				var want P
				return nil, fmt.Errorf("%w: expected primitive %T, got %T", ErrSchemaViolation, want, raw)
			}
			return decode(p)
		},
		Encode: func(value any) (any, error) {
			d, ok := value.(D)
			if !ok {
				var want D
				return nil, fmt.Errorf("%w: expected %T, got %T", ErrSchemaViolation, want, value)
			}
			return encode(d)
		},
	}
}

// Identity is the conversion that leaves a byte string untouched.
var Identity = Convert(
	func(b []byte) ([]byte, error) { return b, nil },
	func(b []byte) ([]byte, error) { return b, nil },
)
