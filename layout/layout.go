// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package layout implements a declarative, byte-exact binary layout engine.
//
// A Layout is an ordered list of items describing a big-endian wire format.
// The engine serializes a Record that matches a Layout into bytes and
// deserializes bytes back into a Record, asserting fixed values and bounds on
// the way. Items may carry a custom conversion so that callers work with
// domain types (chains, addresses, signatures) rather than raw primitives.
//
// Values produced by Deserialize and accepted by Serialize are:
//
//	UintItem    uint64 (1..8 bytes) or *uint256.Int (9..32 bytes)
//	BytesItem   []byte
//	ArrayItem   []Record
//	ObjectItem  Record
//
// unless the item has a Conversion, in which case the domain value returned
// by the conversion is used instead.
package layout

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// MaxUintSize is the widest unsigned integer an item may declare.
	MaxUintSize = 32

	// NativeUintSize is the widest unsigned integer represented as uint64.
	// Wider integers are represented as *uint256.Int.
	NativeUintSize = 8

	// MaxLengthSize is the widest length prefix an item may declare.
	MaxLengthSize = 8
)

// Item is a single named field of a Layout.
type Item interface {
	ItemName() string

	// checked validates the item and returns a normalized copy of it.
	checked() (Item, error)
	// openEnded reports whether the item consumes the rest of the input.
	openEnded() bool
}

// UintItem is an unsigned big-endian integer of Size bytes.
type UintItem struct {
	Name   string
	Size   int
	Custom Custom
}

// BytesItem is a byte string. It is fixed-size when Size is set,
// length-prefixed when LengthSize is set, sized by its fixed value when Custom
// is a Fixed, and consumes the remainder of the input otherwise. The latter is
// only legal as the last item of a layout.
type BytesItem struct {
	Name       string
	Size       int
	LengthSize int
	Custom     Custom
}

// ArrayItem is a list of records. The number of elements is stored in a
// LengthSize-byte prefix, or, when LengthSize is zero, the array consumes the
// remainder of the input.
type ArrayItem struct {
	Name       string
	LengthSize int
	Elements   Layout
}

// ObjectItem groups a nested layout without any prefix.
type ObjectItem struct {
	Name   string
	Layout Layout
}

func (i UintItem) ItemName() string   { return i.Name }
func (i BytesItem) ItemName() string  { return i.Name }
func (i ArrayItem) ItemName() string  { return i.Name }
func (i ObjectItem) ItemName() string { return i.Name }

func (UintItem) openEnded() bool { return false }

func (i BytesItem) openEnded() bool {
	if i.Size > 0 || i.LengthSize > 0 {
		return false
	}
	_, fixed := i.Custom.(Fixed)
	return !fixed
}

func (i ArrayItem) openEnded() bool { return i.LengthSize == 0 }

func (i ObjectItem) openEnded() bool { return i.Layout.openEnded() }

func (i UintItem) checked() (Item, error) {
	if i.Size < 1 || i.Size > MaxUintSize {
		return nil, fmt.Errorf("%w: uint size %d outside [1, %d]", ErrInvalidLayout, i.Size, MaxUintSize)
	}
	switch c := i.Custom.(type) {
	case nil:
	case *Conversion:
		if err := c.check(); err != nil {
			return nil, err
		}
	case Fixed:
		raw, err := toUint256(c.Raw)
		if err != nil {
			return nil, err
		}
		if err := checkFits(raw, i.Size); err != nil {
			return nil, err
		}
		c.Raw = fromUint256(raw, i.Size)
		i.Custom = c
	default:
		return nil, fmt.Errorf("%w: unsupported custom %T", ErrInvalidLayout, i.Custom)
	}
	return i, nil
}

func (i BytesItem) checked() (Item, error) {
	if i.Size < 0 {
		return nil, fmt.Errorf("%w: negative bytes size %d", ErrInvalidLayout, i.Size)
	}
	if i.LengthSize < 0 || i.LengthSize > MaxLengthSize {
		return nil, fmt.Errorf("%w: length size %d outside [0, %d]", ErrInvalidLayout, i.LengthSize, MaxLengthSize)
	}
	if i.Size > 0 && i.LengthSize > 0 {
		return nil, fmt.Errorf("%w: bytes item cannot have both a size and a length prefix", ErrInvalidLayout)
	}
	switch c := i.Custom.(type) {
	case nil:
	case *Conversion:
		if err := c.check(); err != nil {
			return nil, err
		}
	case Fixed:
		raw, ok := c.Raw.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: fixed bytes value must be []byte, got %T", ErrInvalidLayout, c.Raw)
		}
		if i.Size > 0 && len(raw) != i.Size {
			return nil, fmt.Errorf("%w: fixed value has %d bytes, item declares %d", ErrSchemaViolation, len(raw), i.Size)
		}
		if i.LengthSize > 0 {
			if err := checkFits(uint256.NewInt(uint64(len(raw))), i.LengthSize); err != nil {
				return nil, fmt.Errorf("fixed value length prefix: %w", err)
			}
		}
		c.Raw = bytes.Clone(raw)
		i.Custom = c
	default:
		return nil, fmt.Errorf("%w: unsupported custom %T", ErrInvalidLayout, i.Custom)
	}
	return i, nil
}

func (i ArrayItem) checked() (Item, error) {
	if i.LengthSize < 0 || i.LengthSize > MaxLengthSize {
		return nil, fmt.Errorf("%w: length size %d outside [0, %d]", ErrInvalidLayout, i.LengthSize, MaxLengthSize)
	}
	if i.Elements.Len() == 0 {
		return nil, fmt.Errorf("%w: array elements layout is empty", ErrInvalidLayout)
	}
	if i.Elements.openEnded() {
		return nil, fmt.Errorf("%w: array elements must not end with an open-ended item", ErrInvalidLayout)
	}
	return i, nil
}

func (i ObjectItem) checked() (Item, error) {
	return i, nil
}

// Layout is an immutable, validated sequence of items. The order of the items
// is the wire order. The zero value is an empty layout.
type Layout struct {
	items []Item
}

// New validates items and returns the resulting Layout. Item names must be
// unique and only the final item may be open-ended.
func New(items ...Item) (Layout, error) {
	checked := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for idx, item := range items {
		if item == nil {
			return Layout{}, fmt.Errorf("%w: item %d is nil", ErrInvalidLayout, idx)
		}
		name := item.ItemName()
		if name == "" {
			return Layout{}, fmt.Errorf("%w: item %d has no name", ErrInvalidLayout, idx)
		}
		if _, dup := seen[name]; dup {
			return Layout{}, fieldErr(name, fmt.Errorf("%w: duplicate item name", ErrInvalidLayout))
		}
		seen[name] = struct{}{}

		c, err := item.checked()
		if err != nil {
			return Layout{}, fieldErr(name, err)
		}
		if c.openEnded() && idx != len(items)-1 {
			return Layout{}, fieldErr(name, fmt.Errorf("%w: open-ended item must be last", ErrInvalidLayout))
		}
		checked = append(checked, c)
	}
	return Layout{items: checked}, nil
}

// MustNew is like New but panics on an invalid layout. It is meant for
// package-level layout definitions.
func MustNew(items ...Item) Layout {
	l, err := New(items...)
	if err != nil {
		panic(err)
	}
	return l
}

// Concat joins layouts into a new validated layout.
func Concat(layouts ...Layout) (Layout, error) {
	var items []Item
	for _, l := range layouts {
		items = append(items, l.items...)
	}
	return New(items...)
}

// Len returns the number of items.
func (l Layout) Len() int {
	return len(l.items)
}

// Items returns a copy of the items of the layout.
func (l Layout) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the item with the given name.
func (l Layout) Item(name string) (Item, bool) {
	for _, item := range l.items {
		if item.ItemName() == name {
			return item, true
		}
	}
	return nil, false
}

func (l Layout) openEnded() bool {
	if len(l.items) == 0 {
		return false
	}
	return l.items[len(l.items)-1].openEnded()
}
