// Package parser implements RFC 9421 HTTP Message Signatures parsing: it
// extracts signature metadata from the Signature-Input and Signature
// headers into structured Go values without performing any cryptographic
// operation itself.
package parser

// ParsedSignatures holds every signature found on a message, keyed by its
// dictionary label from Signature-Input.
type ParsedSignatures struct {
	Signatures map[string]SignatureEntry
}

// SignatureEntry is one signature's full metadata: which components it
// covers, its parameters, and its decoded signature bytes.
type SignatureEntry struct {
	Label             string
	CoveredComponents []ComponentIdentifier
	SignatureParams   SignatureParams
	SignatureValue    []byte
}

// ComponentType distinguishes an RFC 9421 §2.1 HTTP field component from a
// §2.2 derived component (@method, @path, @status, ...). Neither RFC 9421
// nor this package mandates which components a signature must cover —
// callers decide their own required coverage; see validator.go for the
// whitelist of recognized derived component names.
type ComponentType int

const (
	// ComponentField is an HTTP field component, e.g. "date" or
	// "content-type". Any registered HTTP field can be signed; its value is
	// canonicalized per RFC 9421 §2.1 before entering the signature base.
	ComponentField ComponentType = iota

	// ComponentDerived is a derived component: its name starts with "@" and
	// must appear in validator.go's registry (@signature-params itself is
	// generated automatically and must never appear in covered components).
	ComponentDerived
)

// String returns a string representation of the ComponentType.
func (ct ComponentType) String() string {
	switch ct {
	case ComponentField:
		return "field"
	case ComponentDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// IsDerived returns true if this is a derived component.
func (c ComponentIdentifier) IsDerived() bool {
	return c.Type == ComponentDerived
}

// IsField returns true if this is an HTTP field component.
func (c ComponentIdentifier) IsField() bool {
	return c.Type == ComponentField
}

// ComponentIdentifier names one covered component and any parameters
// attached to it (sf, key, bs, tr, req, name — see validator.go). Name
// starting with "@" marks it derived rather than a field.
type ComponentIdentifier struct {
	Name       string
	Type       ComponentType
	Parameters []Parameter
}

// SignatureParams holds the RFC 9421 §2.3 metadata parameters attached to
// a signature via @signature-params. Every field is optional at the
// protocol level — a signature may legitimately carry none of them, as in
// RFC 9421 Appendix B.2.1 — so a nil pointer means "absent," not "zero."
// This package parses whatever is present; deciding which of these a given
// application requires (created for replay protection, keyid for key
// lookup, and so on) is a caller policy, not something enforced here.
type SignatureParams struct {
	Created   *int64
	Expires   *int64
	Nonce     *string
	Algorithm *string
	KeyID     *string
	Tag       *string
}

// Parameter is one key/value pair attached to a component identifier or a
// signature (sf, key, bs, tr, req, name, ...).
type Parameter struct {
	Key   string
	Value BareItem
}

// BareItem is an RFC 8941 bare item: exactly one of Boolean, Integer,
// String, Token, or ByteSequence.
type BareItem interface {
	isBareItem()
}

type Boolean struct{ Value bool }

func (Boolean) isBareItem() {}

// Integer holds a value of up to 15 digits, per RFC 8941 §3.3.1.
type Integer struct{ Value int64 }

func (Integer) isBareItem() {}

type String struct{ Value string }

func (String) isBareItem() {}

// Token is an unquoted RFC 8941 identifier.
type Token struct{ Value string }

func (Token) isBareItem() {}

// ByteSequence is a base64-wrapped byte string (":AAAA:").
type ByteSequence struct{ Value []byte }

func (ByteSequence) isBareItem() {}
