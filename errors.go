// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import "errors"

var (
	// ErrUnorderedSignatures is returned when guardian indices are not
	// strictly ascending.
	ErrUnorderedSignatures = errors.New("unordered signatures")

	// ErrNotRegistered is returned when a payload literal has no registered
	// shape.
	ErrNotRegistered = errors.New("payload literal not registered")

	// ErrAlreadyRegistered is returned when a payload literal is registered a
	// second time.
	ErrAlreadyRegistered = errors.New("payload literal already registered")

	// ErrInvalidSignature is returned when a signature is not 65 bytes or
	// does not recover to a public key.
	ErrInvalidSignature = errors.New("invalid signature")
)
