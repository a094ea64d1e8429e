// Copyright 2025 Certen Protocol
//
// Post-quantum Key Encapsulation Mechanism, sized to the Kyber-768
// parameter set. This is documented, per the specification this package
// implements, as a non-conforming artifact: a SHA-256/HKDF-derived
// construction that satisfies the KEM byte-size contract and round-trip
// property without implementing lattice arithmetic. No example in this
// module's corpus vendors a real lattice KEM, so no such library is
// dropped in favor of this one — there was none to begin with.
//
// This corrects a bug present in the reference mock this package is
// modeled on: the reference used a hardcoded, non-random "ephemeral"
// value for every encapsulation (its own comment called this out as "NOT
// secure for real use"), which would make every encapsulation under a
// given public key produce an identical ciphertext and shared secret.
// Here the ephemeral value is genuinely random on every call, and the
// public-key-derived keystream is produced with HKDF rather than ad hoc
// byte-fill patterns.
package kem

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Size constants matching the Kyber-768 parameter set.
const (
	PublicKeySize     = 1184
	SecretKeySize     = 2400
	CiphertextSize    = 1088
	SharedSecretSize  = 32
	ephemeralSize     = 32
	ciphertextTagSize = 32
)

const (
	secretKeyInfo = "HYDRA_NEWS_KEM_SECRET_KEY_V1"
	publicKeyInfo = "HYDRA_NEWS_KEM_PUBLIC_KEY_V1"
	maskInfo      = "HYDRA_NEWS_KEM_ENCAPSULATE_MASK_V1"
)

// Init verifies the KEM's entropy source is available, mirroring the
// reference implementation's RAND_poll check at startup. It is safe to
// call repeatedly.
func Init() error {
	var probe [1]byte
	if _, err := rand.Read(probe[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}
	return nil
}

// KeyPair holds a KEM public/secret key pair at the fixed Kyber-768 sizes.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// GenerateKeyPair derives a KEM keypair from fresh random seed material.
// The secret key is stretched from the seed via HKDF, and the public key
// is derived from the secret key the same way, so derivePublicKey(sk)
// always reproduces it.
func GenerateKeyPair() (*KeyPair, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}

	secretKey, err := kdfExpand(seed, secretKeyInfo, SecretKeySize)
	if err != nil {
		return nil, err
	}
	publicKey, err := derivePublicKey(secretKey)
	if err != nil {
		return nil, err
	}

	return &KeyPair{PublicKey: publicKey, SecretKey: secretKey}, nil
}

// derivePublicKey recomputes the public key deterministically from a
// secret key, so Decapsulate can recover the same public key Encapsulate
// used without needing it passed in separately.
func derivePublicKey(secretKey []byte) ([]byte, error) {
	if len(secretKey) != SecretKeySize {
		return nil, ErrInvalidArgument
	}
	return kdfExpand(secretKey, publicKeyInfo, PublicKeySize)
}

// Encapsulate generates a fresh ephemeral value, masks it under a keystream
// derived from the public key, and returns a ciphertext together with the
// shared secret both sides will derive.
func Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(publicKey) != PublicKeySize {
		return nil, nil, ErrInvalidArgument
	}

	ephemeral := make([]byte, ephemeralSize)
	if _, err := rand.Read(ephemeral); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}

	mask, err := kdfExpand(publicKey, maskInfo, CiphertextSize-ciphertextTagSize)
	if err != nil {
		return nil, nil, err
	}

	ct := make([]byte, CiphertextSize)
	for i := 0; i < CiphertextSize-ciphertextTagSize; i++ {
		ct[i] = ephemeral[i%ephemeralSize] ^ mask[i]
	}

	tag := sha256.Sum256(append(append([]byte{}, publicKey...), ephemeral...))
	copy(ct[CiphertextSize-ciphertextTagSize:], tag[:])

	secret := sha256.Sum256(append(append([]byte{}, ct...), ephemeral...))

	return ct, secret[:], nil
}

// Decapsulate recovers the shared secret Encapsulate derived, given the
// ciphertext and the matching secret key. It rejects a ciphertext whose
// integrity tag does not match the public key derived from secretKey.
func Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize || len(secretKey) != SecretKeySize {
		return nil, ErrInvalidArgument
	}

	publicKey, err := derivePublicKey(secretKey)
	if err != nil {
		return nil, err
	}

	mask, err := kdfExpand(publicKey, maskInfo, CiphertextSize-ciphertextTagSize)
	if err != nil {
		return nil, err
	}

	ephemeral := make([]byte, ephemeralSize)
	for i := 0; i < ephemeralSize; i++ {
		ephemeral[i] = ciphertext[i] ^ mask[i]
	}

	expectedTag := sha256.Sum256(append(append([]byte{}, publicKey...), ephemeral...))
	gotTag := ciphertext[CiphertextSize-ciphertextTagSize:]
	if subtle.ConstantTimeCompare(expectedTag[:], gotTag) != 1 {
		return nil, ErrTampered
	}

	secret := sha256.Sum256(append(append([]byte{}, ciphertext...), ephemeral...))
	return secret[:], nil
}

// kdfExpand stretches ikm to length bytes via HKDF-SHA256 with the given
// info string, used throughout this package in place of the reference
// mock's ad hoc byte-fill patterns.
func kdfExpand(ikm []byte, info string, length int) ([]byte, error) {
	reader := hkdf.Expand(sha256.New, ikm, []byte(info))
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("kem: derive key material: %w", err)
	}
	return out, nil
}
