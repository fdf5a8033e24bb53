// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// Size returns the number of bytes Serialize would produce for rec.
func Size(l Layout, rec Record) (int, error) {
	total := 0
	for _, item := range l.items {
		n, err := itemSize(item, rec)
		if err != nil {
			return 0, fieldErr(item.ItemName(), err)
		}
		total += n
	}
	return total, nil
}

func itemSize(item Item, rec Record) (int, error) {
	switch it := item.(type) {
	case UintItem:
		return it.Size, nil
	case BytesItem:
		if it.Size > 0 {
			return it.Size, nil
		}
		if f, ok := it.Custom.(Fixed); ok {
			return it.LengthSize + len(f.Raw.([]byte)), nil
		}
		b, err := bytesValue(it, rec)
		if err != nil {
			return 0, err
		}
		return it.LengthSize + len(b), nil
	case ArrayItem:
		elems, err := arrayValue(rec[it.Name])
		if err != nil {
			return 0, err
		}
		total := it.LengthSize
		for i, el := range elems {
			n, err := Size(it.Elements, el)
			if err != nil {
				return 0, indexErr(i, err)
			}
			total += n
		}
		return total, nil
	case ObjectItem:
		obj, err := asRecord(rec[it.Name])
		if err != nil {
			return 0, err
		}
		return Size(it.Layout, obj)
	default:
		return 0, fmt.Errorf("%w: unknown item type %T", ErrInvalidLayout, item)
	}
}

// Serialize encodes rec according to l.
func Serialize(l Layout, rec Record) ([]byte, error) {
	size, err := Size(l, rec)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	offset, err := SerializeInto(l, rec, buf, 0)
	if err != nil {
		return nil, err
	}
	if offset != size {
		return nil, fmt.Errorf("%w: wrote %d bytes, expected %d", ErrSchemaViolation, offset, size)
	}
	return buf, nil
}

// SerializeInto encodes rec into buf starting at offset and returns the
// offset just past the last byte written.
func SerializeInto(l Layout, rec Record, buf []byte, offset int) (int, error) {
	var err error
	for _, item := range l.items {
		offset, err = serializeItem(item, rec, buf, offset)
		if err != nil {
			return 0, fieldErr(item.ItemName(), err)
		}
	}
	return offset, nil
}

func serializeItem(item Item, rec Record, buf []byte, offset int) (int, error) {
	switch it := item.(type) {
	case UintItem:
		n, err := uintValue(it, rec)
		if err != nil {
			return 0, err
		}
		return writeUint(buf, offset, n, it.Size)

	case BytesItem:
		b, err := bytesValue(it, rec)
		if err != nil {
			return 0, err
		}
		if it.LengthSize > 0 {
			if offset, err = writeUint(buf, offset, uint256.NewInt(uint64(len(b))), it.LengthSize); err != nil {
				return 0, fmt.Errorf("length prefix: %w", err)
			}
		}
		if offset+len(b) > len(buf) {
			return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferTooShort, len(b), offset, len(buf))
		}
		return offset + copy(buf[offset:], b), nil

	case ArrayItem:
		elems, err := arrayValue(rec[it.Name])
		if err != nil {
			return 0, err
		}
		if it.LengthSize > 0 {
			if offset, err = writeUint(buf, offset, uint256.NewInt(uint64(len(elems))), it.LengthSize); err != nil {
				return 0, fmt.Errorf("length prefix: %w", err)
			}
		}
		for i, el := range elems {
			if offset, err = SerializeInto(it.Elements, el, buf, offset); err != nil {
				return 0, indexErr(i, err)
			}
		}
		return offset, nil

	case ObjectItem:
		obj, err := asRecord(rec[it.Name])
		if err != nil {
			return 0, err
		}
		return SerializeInto(it.Layout, obj, buf, offset)

	default:
		return 0, fmt.Errorf("%w: unknown item type %T", ErrInvalidLayout, item)
	}
}

// uintValue resolves the integer to write for a uint item, applying the
// fixed value check or the custom encoding.
func uintValue(it UintItem, rec Record) (*uint256.Int, error) {
	v, present := rec[it.Name]
	switch c := it.Custom.(type) {
	case Fixed:
		if present && !valuesEqual(v, c.value()) {
			return nil, fmt.Errorf("%w: expected %v, got %v", ErrFixedValueMismatch, c.value(), v)
		}
		return toUint256(c.Raw)
	case *Conversion:
		if !present {
			return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
		}
		raw, err := c.Encode(v)
		if err != nil {
			return nil, err
		}
		return toUint256(raw)
	default:
		if !present {
			return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
		}
		return toUint256(v)
	}
}

// bytesValue resolves the bytes to write for a bytes item and checks them
// against the declared size.
func bytesValue(it BytesItem, rec Record) ([]byte, error) {
	v, present := rec[it.Name]
	var b []byte
	switch c := it.Custom.(type) {
	case Fixed:
		if present && !valuesEqual(v, c.value()) {
			return nil, fmt.Errorf("%w: expected %v, got %v", ErrFixedValueMismatch, c.value(), v)
		}
		b = c.Raw.([]byte)
	case *Conversion:
		if !present {
			return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
		}
		raw, err := c.Encode(v)
		if err != nil {
			return nil, err
		}
		var ok bool
		if b, ok = raw.([]byte); !ok {
			return nil, fmt.Errorf("%w: conversion produced %T, expected []byte", ErrSchemaViolation, raw)
		}
	default:
		var ok bool
		if b, ok = v.([]byte); !ok {
			if !present {
				return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
			}
			return nil, fmt.Errorf("%w: expected []byte, got %T", ErrSchemaViolation, v)
		}
	}
	if it.Size > 0 && len(b) != it.Size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrSchemaViolation, it.Size, len(b))
	}
	return b, nil
}

func writeUint(buf []byte, offset int, n *uint256.Int, size int) (int, error) {
	if err := checkFits(n, size); err != nil {
		return 0, err
	}
	if offset+size > len(buf) {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferTooShort, size, offset, len(buf))
	}
	putUint(buf, offset, n, size)
	return offset + size, nil
}

// Deserialize decodes data according to l. All of data must be consumed.
func Deserialize(l Layout, data []byte) (Record, error) {
	rec, offset, err := DeserializeAt(l, data, 0)
	if err != nil {
		return nil, err
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d of %d bytes left over", ErrTrailingBytes, len(data)-offset, len(data))
	}
	return rec, nil
}

// DeserializeAt decodes a record starting at offset and returns it together
// with the offset just past the decoded bytes. Unlike Deserialize it does not
// require the input to be consumed entirely.
func DeserializeAt(l Layout, data []byte, offset int) (Record, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrBufferTooShort, offset, len(data))
	}
	rec := make(Record, len(l.items))
	for _, item := range l.items {
		v, next, err := deserializeItem(item, data, offset)
		if err != nil {
			return nil, 0, fieldErr(item.ItemName(), err)
		}
		rec[item.ItemName()] = v
		offset = next
	}
	return rec, offset, nil
}

func deserializeItem(item Item, data []byte, offset int) (any, int, error) {
	switch it := item.(type) {
	case UintItem:
		if err := need(data, offset, it.Size); err != nil {
			return nil, 0, err
		}
		raw := readUint(data, offset, it.Size)
		offset += it.Size
		switch c := it.Custom.(type) {
		case Fixed:
			if !valuesEqual(raw, c.Raw) {
				return nil, 0, fmt.Errorf("%w: expected %v, got %v", ErrFixedValueMismatch, c.Raw, raw)
			}
			return c.value(), offset, nil
		case *Conversion:
			v, err := c.Decode(raw)
			return v, offset, err
		default:
			return raw, offset, nil
		}

	case BytesItem:
		var size int
		switch f, fixed := it.Custom.(Fixed); {
		case it.LengthSize > 0:
			n, err := readLength(data, offset, it.LengthSize)
			if err != nil {
				return nil, 0, fmt.Errorf("length prefix: %w", err)
			}
			offset += it.LengthSize
			size = n
		case it.Size > 0:
			size = it.Size
		case fixed:
			size = len(f.Raw.([]byte))
		default:
			size = len(data) - offset
		}
		if err := need(data, offset, size); err != nil {
			return nil, 0, err
		}
		raw := bytes.Clone(data[offset : offset+size])
		offset += size
		switch c := it.Custom.(type) {
		case Fixed:
			if !bytes.Equal(raw, c.Raw.([]byte)) {
				return nil, 0, fmt.Errorf("%w: expected %x, got %x", ErrFixedValueMismatch, c.Raw, raw)
			}
			return c.value(), offset, nil
		case *Conversion:
			v, err := c.Decode(raw)
			return v, offset, err
		default:
			return raw, offset, nil
		}

	case ArrayItem:
		var elems []Record
		if it.LengthSize > 0 {
			n, err := readLength(data, offset, it.LengthSize)
			if err != nil {
				return nil, 0, fmt.Errorf("length prefix: %w", err)
			}
			offset += it.LengthSize
			elems = make([]Record, 0, min(n, len(data)-offset))
			for i := 0; i < n; i++ {
				el, next, err := DeserializeAt(it.Elements, data, offset)
				if err != nil {
					return nil, 0, indexErr(i, err)
				}
				elems = append(elems, el)
				offset = next
			}
			return elems, offset, nil
		}
		elems = []Record{}
		for i := 0; offset < len(data); i++ {
			el, next, err := DeserializeAt(it.Elements, data, offset)
			if err != nil {
				return nil, 0, indexErr(i, err)
			}
			if next == offset {
				return nil, 0, indexErr(i, fmt.Errorf("%w: element consumed no bytes", ErrInvalidLayout))
			}
			elems = append(elems, el)
			offset = next
		}
		return elems, offset, nil

	case ObjectItem:
		return DeserializeAt(it.Layout, data, offset)

	default:
		return nil, 0, fmt.Errorf("%w: unknown item type %T", ErrInvalidLayout, item)
	}
}

func need(data []byte, offset, size int) error {
	if size < 0 || offset+size > len(data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferTooShort, size, offset, len(data))
	}
	return nil
}

// readLength reads a length prefix and bounds it by the remaining input so
// that a corrupt prefix cannot trigger a huge allocation.
func readLength(data []byte, offset, size int) (int, error) {
	if err := need(data, offset, size); err != nil {
		return 0, err
	}
	n := readUint(data, offset, size).(uint64)
	if remaining := uint64(len(data) - offset - size); n > remaining {
		return 0, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrBufferTooShort, n, remaining)
	}
	return int(n), nil
}
