// Package digest computes and verifies Content-Digest/Want-Content-Digest
// header values (RFC 9530) over the modern SHA-2, SHA-3, and BLAKE2b hash
// families. Deprecated algorithms (MD5, SHA-1, and the legacy checksum
// families RFC 9530 carries for compatibility) are recognized only well
// enough to name them in a rejection error; this package never computes or
// verifies a digest with one.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifiers for the modern hash families this package supports.
const (
	// SHA-2 family (NIST FIPS 180-4)
	AlgorithmSHA256    = "sha-256"
	AlgorithmSHA512    = "sha-512"
	AlgorithmSHA512256 = "sha-512/256"

	// SHA-3 family (NIST FIPS 202)
	AlgorithmSHA3256 = "sha3-256"
	AlgorithmSHA3512 = "sha3-512"

	// BLAKE2b family (RFC 7693)
	AlgorithmBLAKE2b256 = "blake2b-256"
	AlgorithmBLAKE2b512 = "blake2b-512"
)

// digestSpec pairs an algorithm's hash.Hash constructor with its fixed
// output length, so NewDigester and length validation in parse.go read from
// one table instead of two independently maintained switches.
type digestSpec struct {
	newHasher func() (hash.Hash, error)
	length    int
}

var digestSpecs = map[string]digestSpec{
	AlgorithmSHA256:    {func() (hash.Hash, error) { return sha256.New(), nil }, 32},
	AlgorithmSHA512:    {func() (hash.Hash, error) { return sha512.New(), nil }, 64},
	AlgorithmSHA512256: {func() (hash.Hash, error) { return sha512.New512_256(), nil }, 32},
	AlgorithmSHA3256:   {func() (hash.Hash, error) { return sha3.New256(), nil }, 32},
	AlgorithmSHA3512:   {func() (hash.Hash, error) { return sha3.New512(), nil }, 64},
	AlgorithmBLAKE2b256: {func() (hash.Hash, error) {
		return blake2b.New256(nil)
	}, 32},
	AlgorithmBLAKE2b512: {func() (hash.Hash, error) {
		return blake2b.New512(nil)
	}, 64},
}

// SupportedAlgorithms is the set of algorithm names this package will
// compute or verify a digest for. Use O(1) lookup: _, ok :=
// SupportedAlgorithms[algorithm].
var SupportedAlgorithms = func() map[string]struct{} {
	set := make(map[string]struct{}, len(digestSpecs))
	for name := range digestSpecs {
		set[name] = struct{}{}
	}
	return set
}()

// NewDigester returns a fresh hash.Hash for algorithm, the primary API for
// O(1)-memory streaming digest computation. Returns an error naming the
// algorithm if it isn't one of SupportedAlgorithms.
func NewDigester(algorithm string) (hash.Hash, error) {
	spec, ok := digestSpecs[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	h, err := spec.newHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %q hasher: %w", algorithm, err)
	}
	return h, nil
}
