package httpsig

import (
	"net/http"
	"time"

	"github.com/forcebit/message-signatures/pkg/base"
	"github.com/forcebit/message-signatures/pkg/parser"
	"github.com/forcebit/message-signatures/pkg/sigerr"
	"github.com/forcebit/message-signatures/pkg/signing"
)

// DefaultLabel is the default signature label used by Signer and Verifier.
const DefaultLabel = "sig1"

// SignatureHeaders contains the serialized Signature-Input and Signature
// header values produced by a sign operation, along with the signature
// base they were computed from.
type SignatureHeaders struct {
	SignatureInput string
	Signature      string
	Base           string
}

// SignerOptions configures a high-level signature operation.
type SignerOptions struct {
	Label      string
	Components []parser.ComponentIdentifier

	// UsedIfPresentComponents lists components (drawn from Components) that
	// should be dropped from the signature, rather than failing Sign, when
	// their value cannot be extracted from the message being signed.
	UsedIfPresentComponents []parser.ComponentIdentifier

	Algorithm string
	Key       interface{}

	KeyID   string
	Nonce   string
	Tag     string
	Created time.Time
	Expires time.Time

	DisableCreated   bool
	DisableAlgorithm bool
	Now              func() time.Time
}

// Signer signs HTTP messages and attaches Signature-Input and Signature headers.
type Signer struct {
	label         string
	components    []parser.ComponentIdentifier
	usedIfPresent []parser.ComponentIdentifier
	params        parser.SignatureParams
	alg           signing.Algorithm
	key           interface{}
}

// NewSigner creates a Signer with the provided options.
func NewSigner(opts SignerOptions) (*Signer, error) {
	if opts.Algorithm == "" {
		return nil, sigerr.New(sigerr.UnsupportedAlgorithm, "algorithm is required")
	}
	if opts.Key == nil {
		return nil, sigerr.New(sigerr.KeyError, "signing key is required")
	}

	label := opts.Label
	if label == "" {
		label = DefaultLabel
	}

	alg, err := signing.GetAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, sigerr.Wrap(sigerr.UnsupportedAlgorithm, "unsupported signing algorithm", err)
	}

	params := parser.SignatureParams{}

	if !opts.DisableCreated {
		created := opts.Created
		if created.IsZero() {
			if opts.Now != nil {
				created = opts.Now()
			} else {
				created = time.Now()
			}
		}
		createdUnix := created.Unix()
		params.Created = &createdUnix
	}

	if !opts.Expires.IsZero() {
		expiresUnix := opts.Expires.Unix()
		params.Expires = &expiresUnix
	}

	if !opts.DisableAlgorithm {
		algID := opts.Algorithm
		params.Algorithm = &algID
	}

	if opts.KeyID != "" {
		keyID := opts.KeyID
		params.KeyID = &keyID
	}
	if opts.Nonce != "" {
		nonce := opts.Nonce
		params.Nonce = &nonce
	}
	if opts.Tag != "" {
		tag := opts.Tag
		params.Tag = &tag
	}

	return &Signer{
		label:         label,
		components:    opts.Components,
		usedIfPresent: opts.UsedIfPresentComponents,
		params:        params,
		alg:           alg,
		key:           opts.Key,
	}, nil
}

// SignRequest signs an HTTP request and sets Signature-Input and Signature headers.
func (s *Signer) SignRequest(req *http.Request) (SignatureHeaders, error) {
	if req == nil {
		return SignatureHeaders{}, sigerr.New(sigerr.MissingComponent, "request is required")
	}
	msg := base.WrapRequest(req)
	headers, err := s.signMessage(msg)
	if err != nil {
		return SignatureHeaders{}, err
	}
	req.Header.Set("Signature-Input", headers.SignatureInput)
	req.Header.Set("Signature", headers.Signature)
	return headers, nil
}

// SignResponse signs an HTTP response and sets Signature-Input and Signature headers.
func (s *Signer) SignResponse(resp *http.Response, relatedReq *http.Request) (SignatureHeaders, error) {
	if resp == nil {
		return SignatureHeaders{}, sigerr.New(sigerr.MissingComponent, "response is required")
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	msg := base.WrapResponse(resp, relatedReq)
	headers, err := s.signMessage(msg)
	if err != nil {
		return SignatureHeaders{}, err
	}
	resp.Header.Set("Signature-Input", headers.SignatureInput)
	resp.Header.Set("Signature", headers.Signature)
	return headers, nil
}

// Sign signs an arbitrary SignatureContext, for callers not using
// net/http's *http.Request/*http.Response types. It returns the header
// values without attempting to attach them anywhere, since SignatureContext
// carries no mutable header sink of its own.
func (s *Signer) Sign(ctx SignatureContext) (SignatureHeaders, error) {
	return s.signMessage(ctx)
}

func (s *Signer) signMessage(msg base.HTTPMessage) (SignatureHeaders, error) {
	sigBase, err := base.BuildWithOptions(msg, s.components, s.params, base.BuildOptions{
		UsedIfPresent: s.usedIfPresent,
	})
	if err != nil {
		return SignatureHeaders{}, classifyBuildError(err)
	}

	effectiveComponents := s.effectiveComponents(msg)

	signature, err := s.alg.Sign([]byte(sigBase), s.key)
	if err != nil {
		return SignatureHeaders{}, sigerr.Wrap(sigerr.CryptoError, "failed to sign message", err)
	}

	sigInput, err := serializeSignatureInput(s.label, effectiveComponents, s.params)
	if err != nil {
		return SignatureHeaders{}, sigerr.Wrap(sigerr.InvalidStructuredHeader, "failed to serialize Signature-Input", err)
	}

	sigHeader, err := serializeSignature(s.label, signature)
	if err != nil {
		return SignatureHeaders{}, sigerr.Wrap(sigerr.InvalidStructuredHeader, "failed to serialize Signature", err)
	}

	return SignatureHeaders{
		SignatureInput: sigInput,
		Signature:      sigHeader,
		Base:           sigBase,
	}, nil
}

// effectiveComponents mirrors base.BuildWithOptions' usedIfPresent
// filtering so Signature-Input names exactly the components that ended up
// in the signature base.
func (s *Signer) effectiveComponents(msg base.HTTPMessage) []parser.ComponentIdentifier {
	if len(s.usedIfPresent) == 0 {
		return s.components
	}

	optional := make(map[string]struct{}, len(s.usedIfPresent))
	for _, c := range s.usedIfPresent {
		optional[componentKey(c)] = struct{}{}
	}

	effective := make([]parser.ComponentIdentifier, 0, len(s.components))
	for _, comp := range s.components {
		if _, ok := optional[componentKey(comp)]; ok && !base.Present(msg, comp) {
			continue
		}
		effective = append(effective, comp)
	}
	return effective
}

func componentKey(c parser.ComponentIdentifier) string {
	key := c.Name
	for _, p := range c.Parameters {
		key += ";" + p.Key
	}
	return key
}
