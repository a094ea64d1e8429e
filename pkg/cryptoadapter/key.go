// Copyright 2025 Certen Protocol

package cryptoadapter

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nicksdigital/hydra-news/pkg/pq/classical"
	"github.com/nicksdigital/hydra-news/pkg/pq/kem"
	"github.com/nicksdigital/hydra-news/pkg/pq/sig"
)

// KeyKind identifies which primitive-layer material a CryptoKey wraps.
type KeyKind int

const (
	KindSymmetric KeyKind = iota
	KindKEM
	KindSignature
)

// KeyState is the lifecycle state of a CryptoKey, observed on use.
type KeyState int

const (
	StateFresh KeyState = iota
	StateActive
	StateExpired
	StateWiped
)

// CryptoKey is a tagged union over the three key shapes the adapter issues:
// a raw symmetric secret, a KEM keypair, or a signature keypair. Exactly one
// of the material fields is populated, matching Kind. A signature key
// generated while the adapter is in hybrid mode additionally carries a
// classical BLS12-381 keypair, sharing this key's id, expiry, and wipe
// lifecycle — sign_message/verify_signature compose both signatures under
// it transparently.
type CryptoKey struct {
	ID        uuid.UUID
	Kind      KeyKind
	CreatedAt time.Time
	ExpiresAt time.Time // zero value means "never expires"

	symmetric []byte
	kemPair   *kem.KeyPair
	sigPair   *sig.KeyPair

	hybrid        bool
	classicalPriv *classical.PrivateKey
	classicalPub  *classical.PublicKey

	wiped bool
}

// generateKey produces a fresh CryptoKey of the given kind. ttlSeconds <= 0
// means the key never expires (State reports Fresh until the key is wiped).
// hybrid additionally attaches a classical BLS12-381 keypair to a
// KindSignature key; it is ignored for the other kinds.
func generateKey(kind KeyKind, ttlSeconds int64, hybrid bool) (*CryptoKey, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}

	k := &CryptoKey{
		ID:        id,
		Kind:      kind,
		CreatedAt: timeNow(),
	}
	if ttlSeconds > 0 {
		k.ExpiresAt = k.CreatedAt.Add(time.Duration(ttlSeconds) * time.Second)
	}

	switch kind {
	case KindSymmetric:
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
		}
		k.symmetric = secret
	case KindKEM:
		pair, err := kem.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		k.kemPair = pair
	case KindSignature:
		pair, err := sig.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		k.sigPair = pair
		if hybrid {
			priv, pub, err := classical.GenerateKeyPair()
			if err != nil {
				return nil, err
			}
			k.hybrid = true
			k.classicalPriv = priv
			k.classicalPub = pub
		}
	default:
		return nil, ErrInvalidArgument
	}

	return k, nil
}

// State reports the key's current lifecycle state: Fresh for a key that
// never expires, Active for one with an expiry still ahead, Expired once
// that expiry has passed, and Wiped after FreeKey. Expiry is evaluated
// against the current time on every call, per the adapter's "observed on
// use" rule.
func (k *CryptoKey) State() KeyState {
	if k.wiped {
		return StateWiped
	}
	if k.ExpiresAt.IsZero() {
		return StateFresh
	}
	if timeNow().After(k.ExpiresAt) {
		return StateExpired
	}
	return StateActive
}

// checkUsable returns ErrAlreadyWiped or ErrExpired if the key cannot be
// used for a primitive-layer operation, or nil if it can.
func (k *CryptoKey) checkUsable() error {
	switch k.State() {
	case StateWiped:
		return ErrAlreadyWiped
	case StateExpired:
		return ErrExpired
	default:
		return nil
	}
}

// freeKey zero-wipes all secret material owned by k and its id, then marks
// k wiped. It is the sole release path for a CryptoKey's secret material.
func freeKey(k *CryptoKey) {
	if k == nil || k.wiped {
		return
	}
	zero(k.symmetric)
	if k.kemPair != nil {
		zero(k.kemPair.SecretKey)
		zero(k.kemPair.PublicKey)
	}
	if k.sigPair != nil {
		zero(k.sigPair.SecretKey)
		zero(k.sigPair.PublicKey)
	}
	if k.classicalPriv != nil {
		k.classicalPriv.Zero()
	}
	zero(k.ID[:])
	k.wiped = true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// timeNow is a seam so tests can be written without relying on wall-clock
// flakiness for expiry edge cases; production code always uses time.Now.
var timeNow = time.Now
