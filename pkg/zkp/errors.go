// Copyright 2025 Certen Protocol

package zkp

import (
	"errors"
	"fmt"
)

// Sentinel errors for the zero-knowledge proof engine.
var (
	// ErrInvalidArgument covers null payloads, zero counts, mismatched
	// state sizes, and non-normalized amplitudes.
	ErrInvalidArgument = errors.New("zkp: invalid argument")

	// ErrEntropyFailure is returned when the system CSPRNG cannot supply
	// the randomness a call requires.
	ErrEntropyFailure = errors.New("zkp: entropy source failure")

	// ErrNotNormalized is returned when a superposition's amplitudes do
	// not satisfy the sum-of-squares normalization invariant. It wraps
	// ErrInvalidArgument, so errors.Is matches either sentinel.
	ErrNotNormalized = fmt.Errorf("zkp: amplitudes are not normalized: %w", ErrInvalidArgument)
)
