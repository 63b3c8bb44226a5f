// Package signing implements the six RFC 9421 Section 3.3 signature
// algorithms (RSA-PSS, RSA-PKCS1-v1.5, ECDSA P-256/P-384, Ed25519, HMAC)
// against the standard library's crypto packages, plus PEM/raw key parsing
// for each. Every implementation registers itself into a package-level
// dispatch table at init time; callers never construct one directly.
package signing

import "fmt"

// Algorithm is one entry in the RFC 9421 algorithm registry: a stateless
// sign/verify pair keyed by its RFC identifier string. Sign takes a
// signature base (see pkg/base) and a private key or shared secret whose
// concrete type depends on the algorithm (*rsa.PrivateKey,
// *ecdsa.PrivateKey, ed25519.PrivateKey, or []byte for HMAC); Verify takes
// the matching public half. Neither call panics on bad input — a wrong key
// type or malformed signature comes back as an error.
type Algorithm interface {
	// ID reports the algorithm's RFC 9421 §3.3 identifier, e.g. "ed25519".
	ID() string

	// Sign produces signature bytes over signatureBase, ready for base64
	// encoding into the Signature header.
	Sign(signatureBase []byte, key interface{}) ([]byte, error)

	// Verify reports whether signature is a valid signature over
	// signatureBase under key. HMAC implementations must compare in
	// constant time; none may leak which check failed through timing or
	// error text.
	Verify(signatureBase, signature []byte, key interface{}) error
}

var algorithmRegistry = make(map[string]Algorithm)

// RegisterAlgorithm adds alg to the registry under its ID, called from each
// implementation's init(). A duplicate ID is a programming error and panics.
func RegisterAlgorithm(alg Algorithm) {
	id := alg.ID()
	if _, exists := algorithmRegistry[id]; exists {
		panic(fmt.Sprintf("algorithm %q already registered", id))
	}
	algorithmRegistry[id] = alg
}

// GetAlgorithm looks up a registered Algorithm by its RFC 9421 identifier.
func GetAlgorithm(id string) (Algorithm, error) {
	if id == "" {
		return nil, fmt.Errorf("algorithm ID cannot be empty")
	}

	alg, exists := algorithmRegistry[id]
	if !exists {
		return nil, fmt.Errorf("unsupported algorithm: %q", id)
	}

	return alg, nil
}

// SupportedAlgorithms lists every registered algorithm identifier, in no
// particular order.
func SupportedAlgorithms() []string {
	algorithms := make([]string, 0, len(algorithmRegistry))
	for id := range algorithmRegistry {
		algorithms = append(algorithms, id)
	}
	return algorithms
}
