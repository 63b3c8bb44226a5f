// Package httpsig provides a high-level API for signing and verifying HTTP
// Message Signatures (RFC 9421).
//
// It wraps the parser, base builder, and signing algorithms into a simple
// Signer/Verifier flow suitable for common HTTP client and server usage.
package httpsig
