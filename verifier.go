// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package vaa

import (
	"context"
)

// Verifier checks the guardian signatures of a VAA.
type Verifier interface {
	// Verify returns nil if the signatures of v are valid for its guardian
	// set.
	Verify(ctx context.Context, v *VAA) error
}
