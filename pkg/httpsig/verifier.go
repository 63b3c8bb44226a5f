package httpsig

import (
	"bytes"
	"context"
	"net/http"

	"github.com/forcebit/message-signatures/pkg/base"
	"github.com/forcebit/message-signatures/pkg/parser"
	"github.com/forcebit/message-signatures/pkg/sfv"
	"github.com/forcebit/message-signatures/pkg/sigerr"
	"github.com/forcebit/message-signatures/pkg/signing"
)

// KeyResolver resolves a verification key (and optionally an algorithm) for a signature.
type KeyResolver interface {
	ResolveKey(ctx context.Context, label string, params parser.SignatureParams) (key interface{}, algorithm string, err error)
}

// KeyResolverFunc adapts a function to the KeyResolver interface.
type KeyResolverFunc func(ctx context.Context, label string, params parser.SignatureParams) (interface{}, string, error)

// ResolveKey implements KeyResolver.
func (f KeyResolverFunc) ResolveKey(ctx context.Context, label string, params parser.SignatureParams) (interface{}, string, error) {
	return f(ctx, label, params)
}

// VerifyOptions configures signature verification.
type VerifyOptions struct {
	Label              string
	RequiredComponents []parser.ComponentIdentifier

	// RequiredIfPresentComponents lists components that must be covered
	// whenever the underlying message actually carries them (e.g. sign
	// Content-Digest whenever a body is present), checked against the
	// message being verified rather than the covered-components list.
	RequiredIfPresentComponents []parser.ComponentIdentifier

	// ForbiddenParameters lists signature parameter names (created,
	// expires, nonce, alg, keyid, tag) that must NOT appear on the
	// signature being verified.
	ForbiddenParameters []string

	AllowedAlgorithms []string
	Key               interface{}
	Algorithm         string
	KeyResolver       KeyResolver
	ParamsValidation  parser.SignatureParamsValidationOptions
	Limits            *sfv.Limits
}

// VerifyResult contains details about a successful verification.
type VerifyResult struct {
	Label         string
	Entry         parser.SignatureEntry
	SignatureBase string
}

// Verifier verifies HTTP message signatures using a configured policy.
type Verifier struct {
	label                       string
	requiredComponents          []parser.ComponentIdentifier
	requiredIfPresentComponents []parser.ComponentIdentifier
	forbiddenParameters         map[string]struct{}
	allowedAlgorithms           map[string]struct{}
	key                         interface{}
	algorithm                   string
	keyResolver                 KeyResolver
	paramsValidation            parser.SignatureParamsValidationOptions
	limits                      sfv.Limits

	// Cache for Signature-Input parsing
	cachedInputRaw   string
	cachedSignatures map[string]parser.SignatureEntry
}

// NewVerifier creates a Verifier with the provided options.
func NewVerifier(opts VerifyOptions) (*Verifier, error) {
	if opts.KeyResolver != nil && opts.Key != nil {
		return nil, sigerr.New(sigerr.KeyError, "key and key resolver are mutually exclusive")
	}
	if opts.KeyResolver == nil && opts.Key == nil {
		return nil, sigerr.New(sigerr.KeyError, "verification key or key resolver is required")
	}

	label := opts.Label

	limits := sfv.DefaultLimits()
	if opts.Limits != nil {
		limits = *opts.Limits
	}

	allowed := make(map[string]struct{}, len(opts.AllowedAlgorithms))
	for _, alg := range opts.AllowedAlgorithms {
		allowed[alg] = struct{}{}
	}

	forbidden := make(map[string]struct{}, len(opts.ForbiddenParameters))
	for _, p := range opts.ForbiddenParameters {
		forbidden[p] = struct{}{}
	}

	return &Verifier{
		label:                       label,
		requiredComponents:          opts.RequiredComponents,
		requiredIfPresentComponents: opts.RequiredIfPresentComponents,
		forbiddenParameters:         forbidden,
		allowedAlgorithms:           allowed,
		key:                         opts.Key,
		algorithm:                   opts.Algorithm,
		keyResolver:                 opts.KeyResolver,
		paramsValidation:            opts.ParamsValidation,
		limits:                      limits,
	}, nil
}

// VerifyRequest verifies the signature(s) on an HTTP request.
func (v *Verifier) VerifyRequest(req *http.Request) (VerifyResult, error) {
	if req == nil {
		return VerifyResult{}, sigerr.New(sigerr.MissingComponent, "request is required")
	}
	msg := base.WrapRequest(req)
	return v.verifyMessage(req.Context(), msg, req.Header)
}

// VerifyResponse verifies the signature(s) on an HTTP response.
func (v *Verifier) VerifyResponse(resp *http.Response, relatedReq *http.Request) (VerifyResult, error) {
	if resp == nil {
		return VerifyResult{}, sigerr.New(sigerr.MissingComponent, "response is required")
	}
	msg := base.WrapResponse(resp, relatedReq)
	return v.verifyMessage(context.Background(), msg, resp.Header)
}

// Verify verifies the signature(s) attached to an arbitrary SignatureContext,
// for callers not using net/http's *http.Request/*http.Response types.
func (v *Verifier) Verify(ctx context.Context, sigCtx SignatureContext, headers http.Header) (VerifyResult, error) {
	return v.verifyMessage(ctx, sigCtx, headers)
}

func (v *Verifier) verifyMessage(ctx context.Context, msg base.HTTPMessage, headers http.Header) (VerifyResult, error) {
	signatureInput := headers.Get("Signature-Input")
	signature := headers.Get("Signature")

	if signatureInput == "" {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "header Signature-Input is empty")
	}
	if signature == "" {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "header Signature is empty")
	}

	var signatures map[string]parser.SignatureEntry

	// Check cache for Signature-Input
	if signatureInput != "" && signatureInput == v.cachedInputRaw {
		signatures = v.cachedSignatures
	} else {
		// Cache miss or first call
		parsed, err := parser.ParseSignatureInput(signatureInput, v.limits)
		if err != nil {
			return VerifyResult{}, classifyParseError(err)
		}
		signatures = parsed.Signatures
		// Update cache
		v.cachedInputRaw = signatureInput
		v.cachedSignatures = signatures
	}

	// Now parse the Signature header as a dictionary to match labels
	sigParser := sfv.NewParser(signature, v.limits)
	sigDict, err := sigParser.ParseDictionary()
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(sigerr.InvalidStructuredHeader, "failed to parse Signature header", err)
	}

	label := v.label
	if label == "" {
		if len(signatures) != 1 {
			return VerifyResult{}, sigerr.New(sigerr.AmbiguousLabel, "signature label is required when multiple signatures are present")
		}
		for k := range signatures {
			label = k
			break
		}
	}

	entry, ok := signatures[label]
	if !ok {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "signature \""+label+"\" not found in Signature-Input")
	}

	// Match signature value from Signature header
	sigValue, ok := sigDict.Values[label]
	if !ok {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "signature \""+label+"\" not found in Signature header")
	}

	sigItem, ok := sigValue.(sfv.Item)
	if !ok {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "signature value must be an item")
	}

	sigBytes, ok := sigItem.Value.([]byte)
	if !ok {
		return VerifyResult{}, sigerr.New(sigerr.InvalidStructuredHeader, "signature value must be a byte sequence")
	}
	entry.SignatureValue = sigBytes

	if err := v.validateRequiredComponents(entry.CoveredComponents); err != nil {
		return VerifyResult{}, err
	}

	if err := v.validateRequiredIfPresentComponents(msg, entry.CoveredComponents); err != nil {
		return VerifyResult{}, err
	}

	if err := v.validateForbiddenParameters(entry.SignatureParams); err != nil {
		return VerifyResult{}, err
	}

	if err := validateClock(entry.SignatureParams, v.paramsValidation); err != nil {
		return VerifyResult{}, err
	}

	key, algID, err := v.resolveKeyAndAlgorithm(ctx, label, entry.SignatureParams)
	if err != nil {
		return VerifyResult{}, err
	}

	alg, err := signing.GetAlgorithm(algID)
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(sigerr.UnsupportedAlgorithm, "unsupported verification algorithm", err)
	}

	sigBase, err := base.Build(msg, entry.CoveredComponents, entry.SignatureParams)
	if err != nil {
		return VerifyResult{}, classifyBuildError(err)
	}

	if err := alg.Verify([]byte(sigBase), entry.SignatureValue, key); err != nil {
		return VerifyResult{}, sigerr.Wrap(sigerr.InvalidSignature, "signature verification failed", err)
	}

	return VerifyResult{
		Label:         label,
		Entry:         entry,
		SignatureBase: sigBase,
	}, nil
}

func (v *Verifier) resolveKeyAndAlgorithm(ctx context.Context, label string, params parser.SignatureParams) (interface{}, string, error) {
	algID := v.algorithm
	if params.Algorithm != nil {
		if algID != "" && algID != *params.Algorithm {
			return nil, "", sigerr.New(sigerr.UnsupportedAlgorithm, "algorithm mismatch between options and signature parameters")
		}
		if algID == "" {
			algID = *params.Algorithm
		}
	}

	var key interface{}
	var resolvedAlg string
	var err error
	if v.keyResolver != nil {
		key, resolvedAlg, err = v.keyResolver.ResolveKey(ctx, label, params)
		if err != nil {
			return nil, "", sigerr.Wrap(sigerr.KeyError, "key resolution failed", err)
		}
	} else {
		key = v.key
	}

	if key == nil {
		return nil, "", sigerr.New(sigerr.KeyError, "verification key is required")
	}

	if resolvedAlg != "" {
		if algID != "" && algID != resolvedAlg {
			return nil, "", sigerr.New(sigerr.UnsupportedAlgorithm, "algorithm mismatch between resolver and signature parameters")
		}
		algID = resolvedAlg
	}

	if algID == "" {
		return nil, "", sigerr.New(sigerr.UnsupportedAlgorithm, "algorithm is required for verification")
	}

	if len(v.allowedAlgorithms) > 0 {
		if _, ok := v.allowedAlgorithms[algID]; !ok {
			return nil, "", sigerr.New(sigerr.UnsupportedAlgorithm, "algorithm "+algID+" is not allowed")
		}
	}

	return key, algID, nil
}

func (v *Verifier) validateRequiredComponents(covered []parser.ComponentIdentifier) error {
	for _, required := range v.requiredComponents {
		if !componentInList(covered, required) {
			return sigerr.New(sigerr.MissingComponent, "required component "+required.Name+" is missing")
		}
	}
	return nil
}

// validateRequiredIfPresentComponents enforces components that must be
// covered whenever the message actually carries them, checked against msg
// (not the covered-components list) since the point is to catch a signer
// that omitted a component the message has.
func (v *Verifier) validateRequiredIfPresentComponents(msg base.HTTPMessage, covered []parser.ComponentIdentifier) error {
	for _, required := range v.requiredIfPresentComponents {
		if componentInList(covered, required) {
			continue
		}
		if base.Present(msg, required) {
			return sigerr.New(sigerr.MissingComponent, "component "+required.Name+" is present in the message but not covered by the signature")
		}
	}
	return nil
}

func (v *Verifier) validateForbiddenParameters(params parser.SignatureParams) error {
	if len(v.forbiddenParameters) == 0 {
		return nil
	}
	present := map[string]bool{
		"created": params.Created != nil,
		"expires": params.Expires != nil,
		"nonce":   params.Nonce != nil,
		"alg":     params.Algorithm != nil,
		"keyid":   params.KeyID != nil,
		"tag":     params.Tag != nil,
	}
	for name := range v.forbiddenParameters {
		if present[name] {
			return sigerr.New(sigerr.ForbiddenParameter, "signature parameter "+name+" is forbidden")
		}
	}
	return nil
}

func componentInList(list []parser.ComponentIdentifier, target parser.ComponentIdentifier) bool {
	for _, comp := range list {
		if componentEqual(comp, target) {
			return true
		}
	}
	return false
}

func componentEqual(a, b parser.ComponentIdentifier) bool {
	if a.Name != b.Name || a.Type != b.Type {
		return false
	}
	if len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if !parameterEqual(a.Parameters[i], b.Parameters[i]) {
			return false
		}
	}
	return true
}

func parameterEqual(a, b parser.Parameter) bool {
	if a.Key != b.Key {
		return false
	}
	return bareItemEqual(a.Value, b.Value)
}

func bareItemEqual(a, b parser.BareItem) bool {
	switch av := a.(type) {
	case parser.Boolean:
		bv, ok := b.(parser.Boolean)
		return ok && av.Value == bv.Value
	case parser.Integer:
		bv, ok := b.(parser.Integer)
		return ok && av.Value == bv.Value
	case parser.String:
		bv, ok := b.(parser.String)
		return ok && av.Value == bv.Value
	case parser.Token:
		bv, ok := b.(parser.Token)
		return ok && av.Value == bv.Value
	case parser.ByteSequence:
		bv, ok := b.(parser.ByteSequence)
		return ok && bytes.Equal(av.Value, bv.Value)
	case nil:
		return b == nil
	default:
		return false
	}
}
