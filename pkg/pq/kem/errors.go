// Copyright 2025 Certen Protocol

package kem

import "errors"

// Sentinel errors for the KEM primitive.
var (
	// ErrInvalidArgument covers wrong-size keys and ciphertexts.
	ErrInvalidArgument = errors.New("kem: invalid argument")

	// ErrEntropyFailure is returned when the system CSPRNG cannot supply
	// the randomness a call requires.
	ErrEntropyFailure = errors.New("kem: entropy source failure")

	// ErrTampered is returned by Decapsulate when the ciphertext's
	// integrity tag does not match, indicating it was corrupted or was
	// not produced by Encapsulate under the matching public key.
	ErrTampered = errors.New("kem: ciphertext failed integrity check")
)
