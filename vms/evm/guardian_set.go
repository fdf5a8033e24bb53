// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package evm

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/math/set"
)

// MaxGuardians is the largest guardian set a one byte guardian index can
// address.
const MaxGuardians = 256

// Errors returned when validating a guardian set.
var (
	ErrEmptyGuardianSet  = errors.New("empty guardian set")
	ErrTooManyGuardians  = errors.New("too many guardians")
	ErrZeroGuardian      = errors.New("zero guardian address")
	ErrDuplicateGuardian = errors.New("duplicate guardian address")
)

// GuardianSet is an ordered list of guardian addresses. The position of a
// guardian is the index its signatures carry.
type GuardianSet struct {
	Index     uint32
	Guardians []common.Address
}

// NewGuardianSet validates guardians and returns them as set index.
func NewGuardianSet(index uint32, guardians []common.Address) (*GuardianSet, error) {
	if err := ValidateGuardians(guardians); err != nil {
		return nil, fmt.Errorf("guardian set %d: %w", index, err)
	}
	return &GuardianSet{
		Index:     index,
		Guardians: append([]common.Address(nil), guardians...),
	}, nil
}

// ValidateGuardians checks that guardians is non-empty, addressable by a one
// byte index and free of zero or repeated addresses.
func ValidateGuardians(guardians []common.Address) error {
	switch {
	case len(guardians) == 0:
		return ErrEmptyGuardianSet
	case len(guardians) > MaxGuardians:
		return fmt.Errorf("%w: %d", ErrTooManyGuardians, len(guardians))
	}

	seen := set.NewSet[common.Address](len(guardians))
	for i, g := range guardians {
		if g == (common.Address{}) {
			return fmt.Errorf("%w at index %d", ErrZeroGuardian, i)
		}
		if seen.Contains(g) {
			return fmt.Errorf("%w at index %d: %s", ErrDuplicateGuardian, i, g)
		}
		seen.Add(g)
	}
	return nil
}
