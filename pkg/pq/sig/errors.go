// Copyright 2025 Certen Protocol

package sig

import "errors"

// Sentinel errors for the signature primitive.
var (
	// ErrInvalidArgument covers wrong-size keys and malformed signatures.
	ErrInvalidArgument = errors.New("sig: invalid argument")

	// ErrEntropyFailure is returned when the system CSPRNG cannot supply
	// the randomness a call requires.
	ErrEntropyFailure = errors.New("sig: entropy source failure")
)
