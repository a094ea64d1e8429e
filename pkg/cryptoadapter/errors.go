// Copyright 2025 Certen Protocol

package cryptoadapter

import "errors"

// Sentinel errors for the Crypto Adapter, one per failure kind named in
// the adapter's contract.
var (
	ErrNotInitialized  = errors.New("cryptoadapter: not initialized")
	ErrInvalidArgument = errors.New("cryptoadapter: invalid argument")
	ErrBufferTooSmall  = errors.New("cryptoadapter: buffer too small")
	ErrEntropyFailure  = errors.New("cryptoadapter: entropy source failure")
	ErrInternal        = errors.New("cryptoadapter: internal error")
	ErrBadSignature    = errors.New("cryptoadapter: signature verification failed")
	ErrExpired         = errors.New("cryptoadapter: key has expired")
	ErrWrongKeyKind    = errors.New("cryptoadapter: wrong key kind for this operation")
	ErrAlreadyWiped    = errors.New("cryptoadapter: key has already been wiped")
)
