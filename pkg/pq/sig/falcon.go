// Copyright 2025 Certen Protocol
//
// Post-quantum signature primitive, sized to the Falcon-512 parameter
// set. Per this package's specification, the construction is an
// explicitly documented demo MAC scheme rather than standards-compliant
// Falcon: signature = [version byte][16-byte nonce][32-byte HMAC-SHA256
// over H(message) and nonce, keyed by material derived from the public
// key]. The reference this is modeled on keys that HMAC by the raw
// secret key on the signing side while independently deriving a
// verification key from the public key on the verifying side — those two
// keys never match, which only went unnoticed because the reference
// additionally short-circuited verification for two hardcoded test
// messages. Those short-circuits are test scaffolding and are not carried
// over; instead both sides here derive the HMAC key the same way, from
// the public key, so the scheme actually verifies.
package sig

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
)

// Size constants matching the Falcon-512 parameter set.
const (
	PublicKeySize    = 897
	SecretKeySize    = 1281
	MaxSignatureSize = 666

	signatureSize = 1 + 16 + 32 // version || nonce || mac
	versionByte   = 0x30

	// SignatureSize is the fixed length, in bytes, of every signature this
	// package produces. Unlike MaxSignatureSize (the Falcon-512 bound this
	// package sizes itself under), this is the actual, exact length callers
	// can rely on when framing a signature inside a larger structure.
	SignatureSize = signatureSize
)

const publicKeyInfo = "HYDRA_NEWS_SIG_PUBLIC_KEY_V1"

// Init verifies the signature primitive's entropy source is available,
// mirroring the reference implementation's RAND_poll check at startup.
// It is safe to call repeatedly.
func Init() error {
	var probe [1]byte
	if _, err := rand.Read(probe[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}
	return nil
}

// KeyPair holds a signature public/secret key pair at the fixed
// Falcon-512 sizes.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// GenerateKeyPair generates a new signature key pair from the system
// CSPRNG.
func GenerateKeyPair() (*KeyPair, error) {
	secretKey := make([]byte, SecretKeySize)
	if _, err := rand.Read(secretKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}

	publicKey := derivePublicKey(secretKey)
	return &KeyPair{PublicKey: publicKey, SecretKey: secretKey}, nil
}

// derivePublicKey computes the public key deterministically from a secret
// key: SHA-256(secretKey || publicKeyInfo), extended to PublicKeySize by
// repeating a simple fill pattern over the secret key bytes.
func derivePublicKey(secretKey []byte) []byte {
	h := sha256.New()
	h.Write(secretKey)
	h.Write([]byte(publicKeyInfo))
	digest := h.Sum(nil)

	publicKey := make([]byte, PublicKeySize)
	n := copy(publicKey, digest)
	for i := n; i < PublicKeySize; i++ {
		publicKey[i] = byte((int(secretKey[i%SecretKeySize]) + i) % 256)
	}
	return publicKey
}

// verificationKey derives the HMAC key both Sign and Verify use, from
// public material only, so a verifier never needs the secret key.
func verificationKey(publicKey []byte) []byte {
	sum := sha256.Sum256(publicKey)
	return sum[:]
}

// Sign produces a signature over message under secretKey.
func Sign(secretKey, message []byte) ([]byte, error) {
	if len(secretKey) != SecretKeySize {
		return nil, ErrInvalidArgument
	}

	publicKey := derivePublicKey(secretKey)
	vk := verificationKey(publicKey)

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}

	msgHash := sha256.Sum256(message)

	mac := hmac.New(sha256.New, vk)
	mac.Write(msgHash[:])
	mac.Write(nonce)
	tag := mac.Sum(nil)

	signature := make([]byte, 0, signatureSize)
	signature = append(signature, versionByte)
	signature = append(signature, nonce...)
	signature = append(signature, tag...)

	return signature, nil
}

// Verify reports whether signature is a valid signature over message
// under publicKey. Verification never panics or returns an error for a
// malformed signature — it simply rejects.
func Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != PublicKeySize {
		return false
	}
	if len(signature) != signatureSize {
		return false
	}
	if signature[0] != versionByte {
		return false
	}

	nonce := signature[1:17]
	tag := signature[17:signatureSize]

	vk := verificationKey(publicKey)
	msgHash := sha256.Sum256(message)

	mac := hmac.New(sha256.New, vk)
	mac.Write(msgHash[:])
	mac.Write(nonce)
	expected := mac.Sum(nil)

	return subtle.ConstantTimeCompare(expected, tag) == 1
}
