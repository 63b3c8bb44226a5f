package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"
)

// ecdsaP256Algorithm implements the Algorithm interface for ECDSA P-256 with SHA-256.
//
// RFC 9421 Section 3.3.3: ecdsa-p256-sha256
// Uses NIST P-256 curve (secp256r1) with SHA-256 hash function.
// Signature format: IEEE P1363 fixed-width r||s (64 bytes total), not ASN.1 DER.
//
// Security Notes:
//   - Supports both randomized signatures (default, uses crypto/rand.Reader)
//   - Public key recovery not supported (application must provide public key)
//   - Curve parameters validated during Sign/Verify operations
type ecdsaP256Algorithm struct{}

// ecdsaP384Algorithm implements the Algorithm interface for ECDSA P-384 with SHA-384.
//
// RFC 9421 Section 3.3.4: ecdsa-p384-sha384
// Uses NIST P-384 curve (secp384r1) with SHA-384 hash function.
// Signature format: IEEE P1363 fixed-width r||s (96 bytes total), not ASN.1 DER.
//
// Security Notes:
//   - Higher security level than P-256 (192-bit security vs 128-bit)
//   - Slower than P-256 but provides additional security margin
//   - Curve parameters validated during Sign/Verify operations
type ecdsaP384Algorithm struct{}

// ID returns the RFC 9421 algorithm identifier for ECDSA P-256.
func (a *ecdsaP256Algorithm) ID() string {
	return "ecdsa-p256-sha256"
}

// ID returns the RFC 9421 algorithm identifier for ECDSA P-384.
func (a *ecdsaP384Algorithm) ID() string {
	return "ecdsa-p384-sha384"
}

// p1363Width returns the fixed byte width of each of r and s for curve.
func p1363Width(curve elliptic.Curve) int {
	bitSize := curve.Params().BitSize
	return (bitSize + 7) / 8
}

// encodeP1363 renders (r, s) as a curve-width-padded r||s byte string,
// the wire form RFC 9421 requires for ECDSA signatures (as opposed to the
// ASN.1 DER form crypto/ecdsa.SignASN1 produces).
func encodeP1363(curve elliptic.Curve, r, s *big.Int) []byte {
	width := p1363Width(curve)
	out := make([]byte, 2*width)
	r.FillBytes(out[:width])
	s.FillBytes(out[width:])
	return out
}

// decodeP1363 splits a fixed-width r||s byte string back into (r, s).
// Returns an error if sig is not exactly twice the curve's byte width.
func decodeP1363(curve elliptic.Curve, sig []byte) (*big.Int, *big.Int, error) {
	width := p1363Width(curve)
	if len(sig) != 2*width {
		return nil, nil, fmt.Errorf("signature length %d does not match expected P1363 width %d for curve %s",
			len(sig), 2*width, curve.Params().Name)
	}
	r := new(big.Int).SetBytes(sig[:width])
	s := new(big.Int).SetBytes(sig[width:])
	return r, s, nil
}

// Sign generates an ECDSA signature using P-256 curve and SHA-256 hash,
// returned as a fixed-width IEEE P1363 r||s byte string.
//
// RFC 9421 Section 3.3.3: ECDSA using curve P-256 and SHA-256
func (a *ecdsaP256Algorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base cannot be empty")
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key must be *ecdsa.PrivateKey for ecdsa-p256-sha256, got %T", key)
	}
	if ecKey == nil {
		return nil, fmt.Errorf("ECDSA private key is nil")
	}
	if ecKey.Curve != elliptic.P256() {
		return nil, fmt.Errorf("ECDSA key must use P-256 curve for ecdsa-p256-sha256, got %s", ecKey.Curve.Params().Name)
	}

	hash := sha256.Sum256(signatureBase)

	r, s, err := ecdsa.Sign(rand.Reader, ecKey, hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign with ecdsa-p256-sha256: %w", err)
	}

	return encodeP1363(ecKey.Curve, r, s), nil
}

// Sign generates an ECDSA signature using P-384 curve and SHA-384 hash,
// returned as a fixed-width IEEE P1363 r||s byte string.
//
// RFC 9421 Section 3.3.4: ECDSA using curve P-384 and SHA-384
func (a *ecdsaP384Algorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base cannot be empty")
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key must be *ecdsa.PrivateKey for ecdsa-p384-sha384, got %T", key)
	}
	if ecKey == nil {
		return nil, fmt.Errorf("ECDSA private key is nil")
	}
	if ecKey.Curve != elliptic.P384() {
		return nil, fmt.Errorf("ECDSA key must use P-384 curve for ecdsa-p384-sha384, got %s", ecKey.Curve.Params().Name)
	}

	hasher := sha512.New384()
	hasher.Write(signatureBase)
	hash := hasher.Sum(nil)

	r, s, err := ecdsa.Sign(rand.Reader, ecKey, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign with ecdsa-p384-sha384: %w", err)
	}

	return encodeP1363(ecKey.Curve, r, s), nil
}

// Verify validates an ECDSA P-256 signature against the signature base.
// signature must be the fixed-width IEEE P1363 r||s form (64 bytes).
//
// RFC 9421 Section 3.2: Verifying a Signature
func (a *ecdsaP256Algorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base cannot be empty")
	}
	if len(signature) == 0 {
		return fmt.Errorf("signature cannot be empty")
	}

	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("key must be *ecdsa.PublicKey for ecdsa-p256-sha256, got %T", key)
	}
	if ecKey == nil {
		return fmt.Errorf("ECDSA public key is nil")
	}
	if ecKey.Curve != elliptic.P256() {
		return fmt.Errorf("ECDSA key must use P-256 curve for ecdsa-p256-sha256, got %s", ecKey.Curve.Params().Name)
	}

	r, s, err := decodeP1363(ecKey.Curve, signature)
	if err != nil {
		return fmt.Errorf("ecdsa-p256-sha256: %w", err)
	}

	hash := sha256.Sum256(signatureBase)

	if !ecdsa.Verify(ecKey, hash[:], r, s) {
		return fmt.Errorf("ecdsa-p256-sha256 signature verification failed")
	}
	return nil
}

// Verify validates an ECDSA P-384 signature against the signature base.
// signature must be the fixed-width IEEE P1363 r||s form (96 bytes).
//
// RFC 9421 Section 3.2: Verifying a Signature
func (a *ecdsaP384Algorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base cannot be empty")
	}
	if len(signature) == 0 {
		return fmt.Errorf("signature cannot be empty")
	}

	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("key must be *ecdsa.PublicKey for ecdsa-p384-sha384, got %T", key)
	}
	if ecKey == nil {
		return fmt.Errorf("ECDSA public key is nil")
	}
	if ecKey.Curve != elliptic.P384() {
		return fmt.Errorf("ECDSA key must use P-384 curve for ecdsa-p384-sha384, got %s", ecKey.Curve.Params().Name)
	}

	r, s, err := decodeP1363(ecKey.Curve, signature)
	if err != nil {
		return fmt.Errorf("ecdsa-p384-sha384: %w", err)
	}

	hasher := sha512.New384()
	hasher.Write(signatureBase)
	hashBytes := hasher.Sum(nil)

	if !ecdsa.Verify(ecKey, hashBytes, r, s) {
		return fmt.Errorf("ecdsa-p384-sha384 signature verification failed")
	}
	return nil
}

// init registers both ECDSA algorithms in the global algorithm registry.
func init() {
	RegisterAlgorithm(&ecdsaP256Algorithm{})
	RegisterAlgorithm(&ecdsaP384Algorithm{})
}
