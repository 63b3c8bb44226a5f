package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
)

// hmacSHA256Algorithm is the one symmetric entry in the registry: signing
// and verifying both need the same shared secret, and unlike the
// asymmetric algorithms a "signature" here proves possession of that
// secret, not identity backed by a keypair.
type hmacSHA256Algorithm struct{}

func (a *hmacSHA256Algorithm) ID() string {
	return "hmac-sha256"
}

// Sign expects key as a []byte shared secret of at least 16 bytes and
// returns the 32-byte MAC.
func (a *hmacSHA256Algorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base cannot be empty")
	}

	secretKey, ok := key.([]byte)
	if !ok {
		return nil, fmt.Errorf("key must be []byte for hmac-sha256, got %T", key)
	}

	if len(secretKey) == 0 {
		return nil, fmt.Errorf("HMAC shared secret is nil or empty")
	}

	// Validate key length (minimum 16 bytes for basic security)
	// RFC 2104 recommends key length ≥ hash output size (32 bytes for SHA-256)
	if len(secretKey) < 16 {
		return nil, fmt.Errorf("HMAC key too short: %d bytes (minimum 16 bytes required, 32 bytes recommended)", len(secretKey))
	}

	// Create HMAC-SHA256 hasher
	mac := hmac.New(sha256.New, secretKey)

	// Compute MAC
	mac.Write(signatureBase)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify recomputes the MAC over signatureBase with key and compares it to
// signature in constant time.
func (a *hmacSHA256Algorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base cannot be empty")
	}

	if len(signature) == 0 {
		return fmt.Errorf("signature cannot be empty")
	}

	// HMAC-SHA256 signatures are always 32 bytes
	if len(signature) != 32 {
		return fmt.Errorf("HMAC-SHA256 signature must be 32 bytes, got %d bytes", len(signature))
	}

	secretKey, ok := key.([]byte)
	if !ok {
		return fmt.Errorf("key must be []byte for hmac-sha256, got %T", key)
	}

	if len(secretKey) == 0 {
		return fmt.Errorf("HMAC shared secret is nil or empty")
	}

	// Validate key length
	if len(secretKey) < 16 {
		return fmt.Errorf("HMAC key too short: %d bytes (minimum 16 bytes required, 32 bytes recommended)", len(secretKey))
	}

	// Compute expected MAC
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(signatureBase)
	expectedMAC := mac.Sum(nil)

	// Compare using constant-time comparison (timing attack prevention)
	// This is CRITICAL for HMAC security per RFC 9421
	if subtle.ConstantTimeCompare(signature, expectedMAC) != 1 {
		return fmt.Errorf("hmac-sha256 signature verification failed")
	}

	return nil
}

func init() {
	RegisterAlgorithm(&hmacSHA256Algorithm{})
}
