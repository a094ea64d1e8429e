// Copyright 2025 Certen Protocol

package cryptoadapter

import (
	"testing"
	"time"

	"github.com/nicksdigital/hydra-news/pkg/config"
)

func setup(t *testing.T) *Adapter {
	t.Helper()
	a, err := Init(config.DefaultConfig())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(Cleanup)
	return a
}

func TestInitIsIdempotent(t *testing.T) {
	a1 := setup(t)
	a2, err := Init(config.DefaultConfig())
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("second Init returned a different adapter instance")
	}
}

func TestOperationsFailBeforeInit(t *testing.T) {
	Cleanup()
	var a Adapter
	if _, err := a.GenerateKey(KindSymmetric, 0); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

// S4. Generate signing key K. generate_zkproof(secret, public, K) -> P.
// verify_zkproof(P, public, K) -> accept. verify_zkproof(P, "pub-tampered",
// K) -> reject, since the signed digest covers the public input. A proof
// whose response bytes were tampered with is rejected as well.
func TestSignedZKProofAcceptAndTamperedInputReject(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)

	proof, err := a.GenerateZKProof([]byte("s3cret"), []byte("pub"), key)
	if err != nil {
		t.Fatalf("GenerateZKProof: %v", err)
	}

	ok, err := a.VerifyZKProof(proof, []byte("pub"), key)
	if err != nil {
		t.Fatalf("VerifyZKProof: %v", err)
	}
	if !ok {
		t.Fatalf("expected signed proof to verify")
	}

	ok, err = a.VerifyZKProof(proof, []byte("pub-tampered"), key)
	if err != nil {
		t.Fatalf("VerifyZKProof on tampered public input: %v", err)
	}
	if ok {
		t.Fatalf("expected proof to be rejected under a different public input")
	}

	tampered := &ZKProof{
		Commitment: proof.Commitment,
		Challenge:  proof.Challenge,
		Response:   append([]byte{}, proof.Response...),
	}
	tampered.Response[0] ^= 0xFF
	ok, err = a.VerifyZKProof(tampered, []byte("pub"), key)
	if err != nil {
		t.Fatalf("VerifyZKProof on tampered response: %v", err)
	}
	if ok {
		t.Fatalf("expected tampered response to be rejected")
	}
}

func TestVerifyZKProofRejectsUnderWrongKey(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)

	other, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey other: %v", err)
	}
	defer a.FreeKey(other)

	proof, err := a.GenerateZKProof([]byte("s3cret"), []byte("pub"), key)
	if err != nil {
		t.Fatalf("GenerateZKProof: %v", err)
	}

	ok, err := a.VerifyZKProof(proof, []byte("pub"), other)
	if err != nil {
		t.Fatalf("VerifyZKProof: %v", err)
	}
	if ok {
		t.Fatalf("expected proof signed by key to be rejected under other's public key")
	}
}

// S5. A key whose ttl has elapsed refuses to sign: sign_message on an
// expired key returns ErrExpired, never a signature.
func TestExpiredKeyRefusesToSign(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSignature, 1)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)

	restore := timeNow
	timeNow = func() time.Time { return key.CreatedAt.Add(2 * time.Second) }
	defer func() { timeNow = restore }()

	if key.State() != StateExpired {
		t.Fatalf("expected key to be Expired after ttl elapses")
	}

	if _, err := a.SignMessage(key, []byte("hello")); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestFreeKeyWipesSecretMaterial(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSymmetric, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	a.FreeKey(key)
	if key.State() != StateWiped {
		t.Fatalf("expected key to be Wiped after FreeKey")
	}
	for _, b := range key.symmetric {
		if b != 0 {
			t.Fatalf("expected symmetric material to be zeroed")
		}
	}

	// Invariant: a wiped key must never be usable again.
	if _, err := a.SignMessage(key, []byte("x")); err == nil {
		t.Fatalf("expected wiped key to be unusable")
	}
}

func TestKEMEstablishAndReceiveAgree(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindKEM, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)

	ciphertext, secretA, err := a.EstablishKey(key)
	if err != nil {
		t.Fatalf("EstablishKey: %v", err)
	}

	secretB, err := a.ReceiveKey(key, ciphertext)
	if err != nil {
		t.Fatalf("ReceiveKey: %v", err)
	}

	if string(secretA) != string(secretB) {
		t.Fatalf("expected both sides to derive the same shared secret")
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)

	message := []byte("breaking: verified")
	signature, err := a.SignMessage(key, message)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}

	ok, err := a.VerifySignature(key, message, signature)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !ok {
		t.Fatalf("expected signature to verify")
	}

	message[0] ^= 0xFF
	ok, err = a.VerifySignature(key, message, signature)
	if err != nil {
		t.Fatalf("VerifySignature after tamper: %v", err)
	}
	if ok {
		t.Fatalf("expected tampered message to fail verification")
	}
}

func TestGenerateKeyRejectsUnknownKind(t *testing.T) {
	a := setup(t)
	if _, err := a.GenerateKey(KeyKind(99), 0); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

// A nil *CryptoKey must be rejected with ErrInvalidArgument rather than
// panicking on a nil dereference of key.Kind.
func TestNilKeyRejectedByEveryOperation(t *testing.T) {
	a := setup(t)

	if _, err := a.SignMessage(nil, []byte("x")); err != ErrInvalidArgument {
		t.Errorf("SignMessage: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.VerifySignature(nil, []byte("x"), []byte("y")); err != ErrInvalidArgument {
		t.Errorf("VerifySignature: expected ErrInvalidArgument, got %v", err)
	}
	if _, _, err := a.EstablishKey(nil); err != ErrInvalidArgument {
		t.Errorf("EstablishKey: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.ReceiveKey(nil, []byte("ct")); err != ErrInvalidArgument {
		t.Errorf("ReceiveKey: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.GenerateZKProof([]byte("s"), []byte("p"), nil); err != ErrInvalidArgument {
		t.Errorf("GenerateZKProof: expected ErrInvalidArgument, got %v", err)
	}

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)
	proof, err := a.GenerateZKProof([]byte("s"), []byte("p"), key)
	if err != nil {
		t.Fatalf("GenerateZKProof: %v", err)
	}
	if _, err := a.VerifyZKProof(nil, []byte("p"), key); err != ErrInvalidArgument {
		t.Errorf("VerifyZKProof nil proof: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.VerifyZKProof(proof, []byte("p"), nil); err != ErrInvalidArgument {
		t.Errorf("VerifyZKProof nil key: expected ErrInvalidArgument, got %v", err)
	}
}

// Under a hybrid-enabled adapter, a signature key carries a classical
// BLS12-381 keypair alongside its post-quantum material, and
// SignMessage/VerifySignature transparently compose both halves.
func TestHybridSignatureComposesBothSignatures(t *testing.T) {
	Cleanup()
	cfg := config.DefaultConfig()
	cfg.UseHybrid = true
	a, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(Cleanup)

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)
	if !key.hybrid {
		t.Fatalf("expected key generated under a hybrid adapter to be hybrid")
	}

	message := []byte("breaking: verified (hybrid)")
	signature, err := a.SignMessage(key, message)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}

	ok, err := a.VerifySignature(key, message, signature)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !ok {
		t.Fatalf("expected hybrid signature to verify")
	}

	message[0] ^= 0xFF
	ok, err = a.VerifySignature(key, message, signature)
	if err != nil {
		t.Fatalf("VerifySignature after tamper: %v", err)
	}
	if ok {
		t.Fatalf("expected tampered message to fail hybrid verification")
	}
}

// A key generated under a non-hybrid adapter must not be treated as hybrid,
// confirming SignMessage/VerifySignature's conditional path is keyed off the
// key itself rather than some process-wide state.
func TestNonHybridKeyUsesPlainSignaturePath(t *testing.T) {
	a := setup(t)

	key, err := a.GenerateKey(KindSignature, 0)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	defer a.FreeKey(key)
	if key.hybrid {
		t.Fatalf("expected key generated under a non-hybrid adapter to not be hybrid")
	}
}
