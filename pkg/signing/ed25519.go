package signing

import (
	"crypto/ed25519"
	"fmt"
)

// ed25519Algorithm signs and verifies with Ed25519 (RFC 8032), a
// deterministic scheme: no per-call randomness, so the same base and key
// always produce the same 64-byte signature.
type ed25519Algorithm struct{}

func (a *ed25519Algorithm) ID() string {
	return "ed25519"
}

// Sign expects key as ed25519.PrivateKey (64 bytes: 32-byte seed plus
// 32-byte public key).
func (a *ed25519Algorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base cannot be empty")
	}

	edKey, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key must be ed25519.PrivateKey for ed25519, got %T", key)
	}

	if len(edKey) == 0 {
		return nil, fmt.Errorf("ed25519 private key is nil or empty")
	}

	// Validate key size (64 bytes per RFC 8032)
	if len(edKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d bytes", ed25519.PrivateKeySize, len(edKey))
	}

	// Ed25519 internally hashes the message with SHA-512; no external
	// randomness is consumed, so this is fully deterministic.
	signature := ed25519.Sign(edKey, signatureBase)

	return signature, nil
}

// Verify expects key as ed25519.PublicKey (32 bytes) and signature as
// exactly 64 bytes.
func (a *ed25519Algorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base cannot be empty")
	}

	if len(signature) == 0 {
		return fmt.Errorf("signature cannot be empty")
	}

	// Ed25519 signatures are always 64 bytes
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("ed25519 signature must be %d bytes, got %d bytes", ed25519.SignatureSize, len(signature))
	}

	edKey, ok := key.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("key must be ed25519.PublicKey for ed25519, got %T", key)
	}

	if len(edKey) == 0 {
		return fmt.Errorf("ed25519 public key is nil or empty")
	}

	// Validate key size (32 bytes per RFC 8032)
	if len(edKey) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519 public key must be %d bytes, got %d bytes", ed25519.PublicKeySize, len(edKey))
	}

	// Verify the signature
	valid := ed25519.Verify(edKey, signatureBase, signature)
	if !valid {
		return fmt.Errorf("ed25519 signature verification failed")
	}

	return nil
}

func init() {
	RegisterAlgorithm(&ed25519Algorithm{})
}
