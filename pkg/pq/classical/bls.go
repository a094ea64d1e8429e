// Copyright 2025 Certen Protocol
//
// Classical BLS12-381 signature layer used by the Crypto Adapter's hybrid
// mode. When hybrid mode is enabled, every message signed through the
// adapter's SignMessage carries a Falcon-shaped post-quantum signature plus
// a BLS12-381 signature over the same digest, and both must verify.

package classical

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// DomainHybridSignature separates hybrid-mode BLS signatures from any other
// use of BLS12-381 that might share a process.
const DomainHybridSignature = "HYDRA_NEWS_HYBRID_SIG_V1"

// Size constants for the classical half of a hybrid signature.
const (
	PrivateKeySize = 32 // scalar in Fr
	PublicKeySize  = 96 // G2 point, compressed
	SignatureSize  = 48 // G1 point, compressed
)

var (
	initOnce sync.Once
	g1Gen    bls12381.G1Affine
	g2Gen    bls12381.G2Affine
)

func initialize() {
	initOnce.Do(func() {
		_, _, g1Gen, g2Gen = bls12381.Generators()
	})
}

// Init brings up the curve generators and performs a self-check
// (generate, sign, verify) the way the other primitive layers do at
// process start. It is safe to call repeatedly.
func Init() error {
	initialize()
	priv, pub, err := GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("classical: self-check: %w", err)
	}
	digest := sha256.Sum256([]byte("classical-layer-self-check"))
	sig := priv.Sign(digest[:])
	if !pub.Verify(sig, digest[:]) {
		return errors.New("classical: self-check: signature failed to verify")
	}
	return nil
}

// PrivateKey is a BLS12-381 private key, a scalar in Fr.
type PrivateKey struct {
	scalar fr.Element
}

// PublicKey is a BLS12-381 public key, a point on G2.
type PublicKey struct {
	point bls12381.G2Affine
}

// Signature is a BLS12-381 signature, a point on G1.
type Signature struct {
	point bls12381.G1Affine
}

// GenerateKeyPair generates a new BLS key pair from the system CSPRNG.
func GenerateKeyPair() (*PrivateKey, *PublicKey, error) {
	initialize()
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, nil, fmt.Errorf("generate random scalar: %w", err)
	}
	priv := &PrivateKey{scalar: sk}
	return priv, priv.PublicKey(), nil
}

// GenerateKeyPairFromSeed derives a deterministic key pair from a seed,
// for key recovery from a stored master secret.
func GenerateKeyPairFromSeed(seed []byte) (*PrivateKey, *PublicKey, error) {
	initialize()
	if len(seed) == 0 {
		return nil, nil, errors.New("classical: seed must not be empty")
	}
	h := sha256.Sum256(seed)
	var sk fr.Element
	sk.SetBytes(h[:])
	priv := &PrivateKey{scalar: sk}
	return priv, priv.PublicKey(), nil
}

// PrivateKeyFromBytes deserializes a private key scalar.
func PrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	if len(data) != PrivateKeySize {
		return nil, fmt.Errorf("classical: invalid private key size: got %d, want %d", len(data), PrivateKeySize)
	}
	var sk fr.Element
	sk.SetBytes(data)
	return &PrivateKey{scalar: sk}, nil
}

// PublicKeyFromBytes deserializes a public key point, rejecting points not in
// the correct G2 subgroup.
func PublicKeyFromBytes(data []byte) (*PublicKey, error) {
	initialize()
	var pk bls12381.G2Affine
	if _, err := pk.SetBytes(data); err != nil {
		return nil, fmt.Errorf("classical: decode public key: %w", err)
	}
	if pk.IsInfinity() {
		return nil, errors.New("classical: public key is identity point")
	}
	if !pk.IsInSubGroup() {
		return nil, errors.New("classical: public key not in G2 subgroup")
	}
	return &PublicKey{point: pk}, nil
}

// SignatureFromBytes deserializes a signature point, rejecting points not in
// the correct G1 subgroup.
func SignatureFromBytes(data []byte) (*Signature, error) {
	initialize()
	var sig bls12381.G1Affine
	if _, err := sig.SetBytes(data); err != nil {
		return nil, fmt.Errorf("classical: decode signature: %w", err)
	}
	if sig.IsInfinity() {
		return nil, errors.New("classical: signature is identity point")
	}
	if !sig.IsInSubGroup() {
		return nil, errors.New("classical: signature not in G1 subgroup")
	}
	return &Signature{point: sig}, nil
}

// Bytes returns the serialized private key scalar.
func (sk *PrivateKey) Bytes() []byte {
	b := sk.scalar.Bytes()
	return b[:]
}

// Zero overwrites the private key's scalar with zero, for callers that
// need to wipe the secret before releasing a key (see
// pkg/cryptoadapter's FreeKey).
func (sk *PrivateKey) Zero() {
	sk.scalar = fr.Element{}
}

// PublicKey derives pk = sk * G2.
func (sk *PrivateKey) PublicKey() *PublicKey {
	initialize()
	var pk bls12381.G2Affine
	var skBig big.Int
	sk.scalar.BigInt(&skBig)
	pk.ScalarMultiplication(&g2Gen, &skBig)
	return &PublicKey{point: pk}
}

// Sign signs a digest with domain separation: sig = sk * H(domain || digest).
func (sk *PrivateKey) Sign(digest []byte) *Signature {
	initialize()
	h := hashToG1(DomainHybridSignature, digest)
	var sig bls12381.G1Affine
	var skBig big.Int
	sk.scalar.BigInt(&skBig)
	sig.ScalarMultiplication(&h, &skBig)
	return &Signature{point: sig}
}

// Bytes returns the compressed G1 point encoding of the signature.
func (sig *Signature) Bytes() []byte {
	b := sig.point.Bytes()
	return b[:]
}

// Bytes returns the compressed G2 point encoding of the public key.
func (pk *PublicKey) Bytes() []byte {
	b := pk.point.Bytes()
	return b[:]
}

// Verify checks e(sig, G2) == e(H(domain||digest), pk) via a pairing check.
func (pk *PublicKey) Verify(sig *Signature, digest []byte) bool {
	initialize()
	h := hashToG1(DomainHybridSignature, digest)

	var negPk bls12381.G2Affine
	negPk.Neg(&pk.point)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{sig.point, h},
		[]bls12381.G2Affine{g2Gen, negPk},
	)
	if err != nil {
		return false
	}
	return ok
}

// hashToG1 hashes domain||message onto a point on G1 using hash-and-pray,
// falling back to scalar multiplication of the generator when direct
// decoding fails.
func hashToG1(domain string, message []byte) bls12381.G1Affine {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write(message)
	seed := h.Sum(nil)

	for counter := 0; counter < 256; counter++ {
		h2 := sha256.New()
		h2.Write(seed)
		h2.Write([]byte{byte(counter)})
		candidate := h2.Sum(nil)

		var point bls12381.G1Affine
		if _, err := point.SetBytes(candidate); err == nil && !point.IsInfinity() {
			return point
		}

		var scalar fr.Element
		scalar.SetBytes(candidate)
		var scalarBig big.Int
		scalar.BigInt(&scalarBig)

		var result bls12381.G1Affine
		result.ScalarMultiplication(&g1Gen, &scalarBig)
		if !result.IsInfinity() {
			return result
		}
	}
	initialize()
	return g1Gen
}
