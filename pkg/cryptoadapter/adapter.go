// Copyright 2025 Certen Protocol
//
// Crypto Adapter: the process-wide facade over the entanglement engine,
// the ZKP engine, and the post-quantum KEM/signature primitives. It owns
// their combined init/cleanup lifecycle and composes them into the
// deployed system's signed-proof and key-issuance operations.

package cryptoadapter

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nicksdigital/hydra-news/pkg/config"
	"github.com/nicksdigital/hydra-news/pkg/entanglement"
	"github.com/nicksdigital/hydra-news/pkg/pq/classical"
	"github.com/nicksdigital/hydra-news/pkg/pq/kem"
	"github.com/nicksdigital/hydra-news/pkg/pq/sig"
	"github.com/nicksdigital/hydra-news/pkg/zkp"
)

// logLevel mirrors the teacher's ad hoc leveled-logging convention (a
// *log.Logger plus a minimum-level gate), not a third-party leveled
// logger.
type logLevel int

const (
	logLevelDebug logLevel = iota
	logLevelInfo
	logLevelWarn
	logLevelError
)

func parseLogLevel(s string) logLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logLevelDebug
	case "warn", "warning":
		return logLevelWarn
	case "error":
		return logLevelError
	default:
		return logLevelInfo
	}
}

// Adapter is the process-wide singleton facade. A zero-value Adapter is
// not usable; obtain one through Init.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	cfg         *config.Config

	logger   *log.Logger
	logLevel logLevel
}

// logf writes a message at the given level if the adapter's configured
// log level admits it, following the same `[Prefix] ` convention as the
// teacher's attestation.Service logger.
func (a *Adapter) logf(level logLevel, format string, args ...interface{}) {
	if a.logger == nil || level < a.logLevel {
		return
	}
	a.logger.Printf(format, args...)
}

var (
	singletonMu sync.Mutex
	singleton   *Adapter
)

// Init initializes the singleton Adapter, idempotently: a second call with
// the adapter already initialized is a no-op that returns the existing
// adapter. cfg is checked with cfg.Validate first; a configuration it
// rejects is returned as ErrInvalidArgument. It brings up
// the ZKP engine, the entanglement engine, the KEM, and the signature
// primitive, in that order, and — when cfg.UseHybrid is set — the classical
// hybrid signature layer last; if any sub-init fails, everything already
// brought up is torn down (reverse order) before the sub-error is returned,
// leaving the adapter in the pre-init state.
func Init(cfg *config.Config) (*Adapter, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if cfg == nil {
		return nil, ErrInvalidArgument
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if singleton != nil && singleton.initialized {
		return singleton, nil
	}

	logger := log.New(log.Writer(), "[CryptoAdapter] ", log.LstdFlags)
	level := parseLogLevel(cfg.LogLevel)

	type step struct {
		name string
		init func() error
		down func()
	}
	steps := []step{
		{"zkp", zkp.Init, func() {}},
		{"entanglement", entanglement.Init, func() {}},
		{"kem", kem.Init, func() {}},
		{"sig", sig.Init, func() {}},
	}
	if cfg.UseHybrid {
		steps = append(steps, step{"classical", classical.Init, func() {}})
	}

	done := 0
	for _, s := range steps {
		if err := s.init(); err != nil {
			for i := done - 1; i >= 0; i-- {
				steps[i].down()
			}
			logger.Printf("init: %s sub-init failed: %v", s.name, err)
			return nil, fmt.Errorf("cryptoadapter: %s sub-init failed: %w", s.name, err)
		}
		done++
		logger.Printf("init: %s ready", s.name)
	}

	a := &Adapter{initialized: true, cfg: cfg, logger: logger, logLevel: level}
	singleton = a
	return a, nil
}

// Cleanup tears the adapter back down to the pre-init state. It is the
// reverse-order counterpart of Init; the subsystems in this implementation
// hold no process-wide resources, so cleanup marks the singleton
// uninitialized (every later operation on it returns ErrNotInitialized)
// and discards it.
func Cleanup() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		singleton.mu.Lock()
		singleton.initialized = false
		singleton.mu.Unlock()
		if singleton.logger != nil {
			singleton.logger.Printf("cleanup: adapter torn down")
		}
	}
	singleton = nil
}

func (a *Adapter) checkInitialized() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrNotInitialized
	}
	return nil
}

// GenerateKey produces a fresh CryptoKey of the given kind. ttlSeconds <= 0
// means the key never expires. When the adapter was initialized with
// UseHybrid and kind is KindSignature, the returned key also carries a
// classical BLS12-381 keypair, so every later SignMessage/VerifySignature
// call against it transparently composes both signatures.
func (a *Adapter) GenerateKey(kind KeyKind, ttlSeconds int64) (*CryptoKey, error) {
	if err := a.checkInitialized(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	hybrid := a.cfg.UseHybrid
	a.mu.Unlock()

	k, err := generateKey(kind, ttlSeconds, hybrid)
	if err != nil {
		a.logf(logLevelError, "generate_key: kind=%d failed: %v", kind, err)
		return nil, err
	}
	a.logf(logLevelInfo, "generate_key: issued id=%s kind=%d hybrid=%v", k.ID, k.Kind, k.hybrid)
	return k, nil
}

// FreeKey zero-wipes a key's secret material and marks it Wiped. Safe to
// call on an already-wiped key.
func (a *Adapter) FreeKey(k *CryptoKey) {
	if k == nil {
		return
	}
	id := k.ID
	freeKey(k)
	a.logf(logLevelInfo, "free_key: wiped id=%s", id)
}

// SignMessage signs message under key, which must be a non-expired,
// non-wiped signature key. When key was issued while the adapter was in
// hybrid mode, the returned bytes are pq_signature ||
// uint32(classical_signature_len) || classical_signature, and the
// classical BLS12-381 half is signed over the same message digest; both
// halves must verify for VerifySignature to accept.
func (a *Adapter) SignMessage(key *CryptoKey, message []byte) ([]byte, error) {
	if err := a.checkInitialized(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrInvalidArgument
	}
	if key.Kind != KindSignature {
		return nil, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return nil, err
	}

	pqSignature, err := sig.Sign(key.sigPair.SecretKey, message)
	if err != nil {
		a.logf(logLevelError, "sign_message: id=%s failed: %v", key.ID, err)
		return nil, err
	}
	if !key.hybrid {
		a.logf(logLevelDebug, "sign_message: id=%s signed (pq only)", key.ID)
		return pqSignature, nil
	}

	digest := sha256.Sum256(message)
	classicalSignature := key.classicalPriv.Sign(digest[:])
	out := frameWithTrailer(pqSignature, classicalSignature.Bytes())
	a.logf(logLevelDebug, "sign_message: id=%s signed (hybrid pq+bls)", key.ID)
	return out, nil
}

// VerifySignature reports whether signature is valid over message under
// key's public material. If key carries a classical keypair (it was issued
// in hybrid mode), signature is expected in the hybrid framing SignMessage
// produces, and both the post-quantum and classical halves must verify.
func (a *Adapter) VerifySignature(key *CryptoKey, message, signature []byte) (bool, error) {
	if err := a.checkInitialized(); err != nil {
		return false, err
	}
	if key == nil {
		return false, ErrInvalidArgument
	}
	if key.Kind != KindSignature {
		return false, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return false, err
	}

	if !key.hybrid {
		ok := sig.Verify(key.sigPair.PublicKey, message, signature)
		a.logf(logLevelDebug, "verify_signature: id=%s ok=%v (pq only)", key.ID, ok)
		return ok, nil
	}

	pqSignature, classicalSignatureBytes, ok := splitTrailer(signature, classical.SignatureSize)
	if !ok {
		a.logf(logLevelWarn, "verify_signature: id=%s malformed hybrid signature", key.ID)
		return false, nil
	}
	if !sig.Verify(key.sigPair.PublicKey, message, pqSignature) {
		a.logf(logLevelWarn, "verify_signature: id=%s pq half rejected", key.ID)
		return false, nil
	}
	classicalSignature, err := classical.SignatureFromBytes(classicalSignatureBytes)
	if err != nil {
		a.logf(logLevelWarn, "verify_signature: id=%s malformed classical half: %v", key.ID, err)
		return false, nil
	}
	digest := sha256.Sum256(message)
	ok = key.classicalPub.Verify(classicalSignature, digest[:])
	a.logf(logLevelDebug, "verify_signature: id=%s ok=%v (hybrid pq+bls)", key.ID, ok)
	return ok, nil
}

// EstablishKey encapsulates a fresh shared secret under key's KEM public
// material, returning the ciphertext to send to the receiving party and the
// shared secret derived on this side.
func (a *Adapter) EstablishKey(key *CryptoKey) (ciphertext, sharedSecret []byte, err error) {
	if err := a.checkInitialized(); err != nil {
		return nil, nil, err
	}
	if key == nil {
		return nil, nil, ErrInvalidArgument
	}
	if key.Kind != KindKEM {
		return nil, nil, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return nil, nil, err
	}
	return kem.Encapsulate(key.kemPair.PublicKey)
}

// ReceiveKey decapsulates ciphertext under key's KEM secret material,
// recovering the shared secret EstablishKey derived.
func (a *Adapter) ReceiveKey(key *CryptoKey, ciphertext []byte) ([]byte, error) {
	if err := a.checkInitialized(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrInvalidArgument
	}
	if key.Kind != KindKEM {
		return nil, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return nil, err
	}
	return kem.Decapsulate(ciphertext, key.kemPair.SecretKey)
}

// ZKProof is a signed zero-knowledge proof as produced by GenerateZKProof:
// the underlying commit/challenge/response triple, with Response rewritten
// to append a signature over the proof's digest.
type ZKProof struct {
	Commitment []byte
	Challenge  []byte
	Response   []byte // original_response || uint32(sig_len) || signature
}

// GenerateZKProof builds a structure-consistency proof via the ZKP engine
// over secret, then signs digest = H(commitment || challenge || response ||
// publicInput) under key, and folds the signature into the response field as
// original_response || uint32(signature_len) || signature_bytes. key must
// be a non-expired signature key. The signature is always post-quantum
// only, even for a key issued in hybrid mode.
func (a *Adapter) GenerateZKProof(secret, publicInput []byte, key *CryptoKey) (*ZKProof, error) {
	if err := a.checkInitialized(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrInvalidArgument
	}
	if key.Kind != KindSignature {
		return nil, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return nil, err
	}

	proof, err := zkp.GenerateProof(secret, publicInput)
	if err != nil {
		return nil, err
	}

	digest := proofDigest(proof.Commitment, proof.Challenge, proof.Response, publicInput)
	signature, err := sig.Sign(key.sigPair.SecretKey, digest)
	if err != nil {
		a.logf(logLevelError, "generate_zkproof: id=%s failed: %v", key.ID, err)
		return nil, err
	}

	response := frameWithTrailer(proof.Response, signature)

	a.logf(logLevelDebug, "generate_zkproof: id=%s proof generated", key.ID)
	return &ZKProof{
		Commitment: proof.Commitment,
		Challenge:  proof.Challenge,
		Response:   response,
	}, nil
}

// VerifyZKProof inverts GenerateZKProof: it partitions proof.Response back
// into the original response and the attached signature, recomputes the
// digest over (commitment || challenge || original_response || publicInput),
// and verifies the signature under key's public material, so a proof checked
// against a different public input is rejected. It also runs the ZKP engine's
// own structure-consistency check over the recovered original response.
func (a *Adapter) VerifyZKProof(proof *ZKProof, publicInput []byte, key *CryptoKey) (bool, error) {
	if err := a.checkInitialized(); err != nil {
		return false, err
	}
	if proof == nil || key == nil {
		return false, ErrInvalidArgument
	}
	if key.Kind != KindSignature {
		return false, ErrWrongKeyKind
	}
	if err := key.checkUsable(); err != nil {
		return false, err
	}

	originalResponse, signature, ok := splitTrailer(proof.Response, sig.SignatureSize)
	if !ok {
		a.logf(logLevelWarn, "verify_zkproof: id=%s malformed response framing", key.ID)
		return false, nil
	}

	digest := proofDigest(proof.Commitment, proof.Challenge, originalResponse, publicInput)
	if !sig.Verify(key.sigPair.PublicKey, digest, signature) {
		a.logf(logLevelWarn, "verify_zkproof: id=%s signature rejected", key.ID)
		return false, nil
	}

	structural := &zkp.Proof{
		Commitment: proof.Commitment,
		Challenge:  proof.Challenge,
		Response:   originalResponse,
	}
	ok = zkp.VerifyProof(structural, publicInput, zkp.VerifyParams{})
	a.logf(logLevelDebug, "verify_zkproof: id=%s ok=%v", key.ID, ok)
	return ok, nil
}

// proofDigest computes H(commitment || challenge || response ||
// publicInput), the digest a signed proof's signature is computed over.
func proofDigest(commitment, challenge, response, publicInput []byte) []byte {
	h := sha256.New()
	h.Write(commitment)
	h.Write(challenge)
	h.Write(response)
	h.Write(publicInput)
	return h.Sum(nil)
}

// frameWithTrailer folds a trailer value (a signature, in every caller in
// this package) into base as base || uint32(len(trailer)) || trailer. Used
// both by GenerateZKProof's response rewriting and by SignMessage's hybrid
// composition.
func frameWithTrailer(base, trailer []byte) []byte {
	out := make([]byte, 0, len(base)+4+len(trailer))
	out = append(out, base...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(trailer)))
	out = append(out, lenBuf[:]...)
	out = append(out, trailer...)
	return out
}

// splitTrailer inverts frameWithTrailer, recovering base and the trailer
// bytes. The trailer is always exactly trailerSize bytes, so the split
// point is fixed once the total length is known; the embedded length field
// is still checked as a consistency guard against a corrupted or foreign
// value.
func splitTrailer(framed []byte, trailerSize int) (base, trailer []byte, ok bool) {
	if len(framed) < 4+trailerSize {
		return nil, nil, false
	}
	split := len(framed) - 4 - trailerSize
	lenField := binary.BigEndian.Uint32(framed[split : split+4])
	if int(lenField) != trailerSize {
		return nil, nil, false
	}
	return framed[:split], framed[split+4:], true
}
