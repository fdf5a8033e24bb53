// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// toUint256 normalizes any supported unsigned integer representation.
// Negative and non-integral values are rejected rather than truncated.
func toUint256(v any) (*uint256.Int, error) {
	switch n := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: missing integer value", ErrSchemaViolation)
	case uint64:
		return uint256.NewInt(n), nil
	case *uint256.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil integer value", ErrSchemaViolation)
		}
		return new(uint256.Int).Set(n), nil
	case uint256.Int:
		return new(uint256.Int).Set(&n), nil
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil integer value", ErrSchemaViolation)
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("%w: value %s is negative", ErrSchemaViolation, n)
		}
		u, overflow := uint256.FromBig(n)
		if overflow {
			return nil, fmt.Errorf("%w: value %s exceeds 256 bits", ErrSchemaViolation, n)
		}
		return u, nil
	case float64:
		return floatToUint256(n)
	case float32:
		return floatToUint256(float64(n))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uint256.NewInt(rv.Uint()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return nil, fmt.Errorf("%w: value %d is negative", ErrSchemaViolation, i)
		}
		return uint256.NewInt(uint64(i)), nil
	default:
		return nil, fmt.Errorf("%w: %T is not an unsigned integer", ErrSchemaViolation, v)
	}
}

func floatToUint256(f float64) (*uint256.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: value %v is not an integer", ErrSchemaViolation, f)
	}
	if f < 0 {
		return nil, fmt.Errorf("%w: value %v is negative", ErrSchemaViolation, f)
	}
	if f >= math.MaxUint64 {
		return nil, fmt.Errorf("%w: value %v cannot be represented exactly", ErrSchemaViolation, f)
	}
	return uint256.NewInt(uint64(f)), nil
}

func checkFits(n *uint256.Int, size int) error {
	if n.BitLen() > size*8 {
		return fmt.Errorf("%w: value %s does not fit in %d bytes", ErrSchemaViolation, n.Dec(), size)
	}
	return nil
}

// fromUint256 returns the representation the engine uses for an integer of
// the given width.
func fromUint256(n *uint256.Int, size int) any {
	if size <= NativeUintSize {
		return n.Uint64()
	}
	return n
}

func putUint(buf []byte, offset int, n *uint256.Int, size int) {
	b := n.Bytes32()
	copy(buf[offset:offset+size], b[32-size:])
}

func readUint(data []byte, offset, size int) any {
	span := data[offset : offset+size]
	if size <= NativeUintSize {
		var v uint64
		for _, b := range span {
			v = v<<8 | uint64(b)
		}
		return v
	}
	return new(uint256.Int).SetBytes(span)
}

// valuesEqual compares a supplied value with a fixed constant, normalizing
// integer representations first.
func valuesEqual(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	if x, err := toUint256(a); err == nil {
		if y, err := toUint256(b); err == nil {
			return x.Eq(y)
		}
	}
	return reflect.DeepEqual(a, b)
}
