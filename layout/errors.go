// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaViolation is returned when a value does not fit the item it is
	// serialized into (wrong type, negative, non-integral, too large, wrong length).
	ErrSchemaViolation = errors.New("schema violation")

	// ErrFixedValueMismatch is returned when a value disagrees with a constant
	// declared by the layout.
	ErrFixedValueMismatch = errors.New("fixed value mismatch")

	// ErrBufferTooShort is returned when deserialization runs past the end of the input.
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrTrailingBytes is returned when bytes remain after a full deserialization.
	ErrTrailingBytes = errors.New("trailing bytes")

	// ErrInvalidLayout is returned when a layout is structurally malformed.
	ErrInvalidLayout = errors.New("invalid layout")
)

// FieldError attributes a failure to the named item of a layout. Errors raised
// inside nested objects and arrays are wrapped once per level so the message
// reads as a path to the offending field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: name, Err: err}
}

func indexErr(i int, err error) error {
	return fieldErr(fmt.Sprintf("[%d]", i), err)
}
