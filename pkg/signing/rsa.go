package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
)

// minRSAKeyBits is the minimum RSA modulus size this package accepts for
// either RSA scheme, per RFC 9421 §3.3.1/§3.3.2.
const minRSAKeyBits = 2048

func checkRSAKeyBits(n int) error {
	if n < minRSAKeyBits {
		return fmt.Errorf("RSA key size %d bits is too small (minimum %d bits required)", n, minRSAKeyBits)
	}
	return nil
}

// rsaPSSSignOptions pins the salt length to the hash length (64 bytes for
// SHA-512) rather than PSSSaltLengthAuto: RFC 9421 §3.3.1 requires at least
// 64 octets, and a fixed length avoids generating more random salt than
// necessary on every signing call.
var rsaPSSSignOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthEqualsHash,
	Hash:       crypto.SHA512,
}

// rsaPSSVerifyOptions accepts any valid salt length, since a verifier can't
// assume which length the signer chose.
var rsaPSSVerifyOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA512,
}

// rsaPSSAlgorithm is RFC 9421 §3.3.1's recommended RSA scheme: RSA-PSS with
// SHA-512 and MGF1. Unlike rsaPKCS1v15Algorithm it's randomized (a fresh
// salt per signature), so two signatures over the same base with the same
// key will not be byte-identical.
type rsaPSSAlgorithm struct{}

func (a *rsaPSSAlgorithm) ID() string {
	return "rsa-pss-sha512"
}

// Sign expects key as *rsa.PrivateKey with a modulus of at least 2048 bits.
func (a *rsaPSSAlgorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base is empty")
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("invalid key type for rsa-pss-sha512: expected *rsa.PrivateKey, got %T", key)
	}
	if err := checkRSAKeyBits(rsaKey.N.BitLen()); err != nil {
		return nil, err
	}

	hash := sha512.Sum512(signatureBase)

	signature, err := rsa.SignPSS(rand.Reader, rsaKey, crypto.SHA512, hash[:], rsaPSSSignOptions)
	if err != nil {
		return nil, fmt.Errorf("RSA-PSS signing failed: %w", err)
	}

	return signature, nil
}

// Verify expects key as *rsa.PublicKey with a modulus of at least 2048
// bits.
func (a *rsaPSSAlgorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base is empty")
	}
	if len(signature) == 0 {
		return fmt.Errorf("signature is empty")
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("invalid key type for rsa-pss-sha512: expected *rsa.PublicKey, got %T", key)
	}
	if err := checkRSAKeyBits(rsaKey.N.BitLen()); err != nil {
		return err
	}

	hash := sha512.Sum512(signatureBase)

	if err := rsa.VerifyPSS(rsaKey, crypto.SHA512, hash[:], signature, rsaPSSVerifyOptions); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}

// rsaPKCS1v15Algorithm is RFC 9421 §3.3.2's legacy RSA scheme: RSASSA-
// PKCS1-v1.5 with SHA-256, kept for compatibility with existing deployments
// only. Deterministic padding (no salt) means it should not be chosen for
// new signers; rsaPSSAlgorithm is preferred.
type rsaPKCS1v15Algorithm struct{}

func (a *rsaPKCS1v15Algorithm) ID() string {
	return "rsa-v1_5-sha256"
}

// Sign expects key as *rsa.PrivateKey with a modulus of at least 2048 bits.
func (a *rsaPKCS1v15Algorithm) Sign(signatureBase []byte, key interface{}) ([]byte, error) {
	if len(signatureBase) == 0 {
		return nil, fmt.Errorf("signature base is empty")
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("invalid key type for rsa-v1_5-sha256: expected *rsa.PrivateKey, got %T", key)
	}
	if err := checkRSAKeyBits(rsaKey.N.BitLen()); err != nil {
		return nil, err
	}

	hash := sha256.Sum256(signatureBase)

	signature, err := rsa.SignPKCS1v15(rand.Reader, rsaKey, crypto.SHA256, hash[:])
	if err != nil {
		return nil, fmt.Errorf("RSA-PKCS1-v1_5 signing failed: %w", err)
	}

	return signature, nil
}

// Verify expects key as *rsa.PublicKey with a modulus of at least 2048
// bits.
func (a *rsaPKCS1v15Algorithm) Verify(signatureBase, signature []byte, key interface{}) error {
	if len(signatureBase) == 0 {
		return fmt.Errorf("signature base is empty")
	}
	if len(signature) == 0 {
		return fmt.Errorf("signature is empty")
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("invalid key type for rsa-v1_5-sha256: expected *rsa.PublicKey, got %T", key)
	}
	if err := checkRSAKeyBits(rsaKey.N.BitLen()); err != nil {
		return err
	}

	hash := sha256.Sum256(signatureBase)

	if err := rsa.VerifyPKCS1v15(rsaKey, crypto.SHA256, hash[:], signature); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}

func init() {
	RegisterAlgorithm(&rsaPSSAlgorithm{})
	RegisterAlgorithm(&rsaPKCS1v15Algorithm{})
}
