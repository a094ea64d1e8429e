package sig

import "testing"

func TestGenerateKeyPairSizes(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	if len(kp.PublicKey) != PublicKeySize {
		t.Errorf("public key size = %d, want %d", len(kp.PublicKey), PublicKeySize)
	}
	if len(kp.SecretKey) != SecretKeySize {
		t.Errorf("secret key size = %d, want %d", len(kp.SecretKey), SecretKeySize)
	}
}

// TestSignVerifyBitFlip covers scenario S3: sign "hello world", verify
// accepts, flip bit 0 of byte 3 of the signature, verify rejects.
func TestSignVerifyBitFlip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	message := []byte("hello world")
	signature, err := Sign(kp.SecretKey, message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(signature) > MaxSignatureSize {
		t.Errorf("signature size = %d, exceeds max %d", len(signature), MaxSignatureSize)
	}

	if !Verify(kp.PublicKey, message, signature) {
		t.Fatal("valid signature failed to verify")
	}

	tampered := append([]byte{}, signature...)
	tampered[3] ^= 0x01

	if Verify(kp.PublicKey, message, tampered) {
		t.Error("verify accepted a signature with a flipped bit")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	signature, err := Sign(kp.SecretKey, []byte("original message"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if Verify(kp.PublicKey, []byte("different message"), signature) {
		t.Error("verify accepted a signature over a different message")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kp1, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair 1: %v", err)
	}
	kp2, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair 2: %v", err)
	}

	message := []byte("hello world")
	signature, err := Sign(kp1.SecretKey, message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if Verify(kp2.PublicKey, message, signature) {
		t.Error("verify accepted a signature under the wrong public key")
	}
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	if Verify(kp.PublicKey, []byte("msg"), []byte{0x30, 0x01}) {
		t.Error("verify accepted a too-short signature")
	}
	if Verify(kp.PublicKey, []byte("msg"), nil) {
		t.Error("verify accepted a nil signature")
	}
}

func TestNoTestBackdoor(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	message := []byte("This is a test message that will be signed with Falcon")
	garbageSignature := make([]byte, signatureSize)
	garbageSignature[0] = versionByte

	if Verify(kp.PublicKey, message, garbageSignature) {
		t.Error("verify accepted a garbage signature over the historical backdoor test sentence")
	}
}
