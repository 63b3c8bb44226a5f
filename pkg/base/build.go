package base

import (
	"fmt"

	"github.com/forcebit/message-signatures/pkg/parser"
)

// Build constructs the signature base string per RFC 9421 Section 2.5.
//
// The signature base is a canonicalized representation of the HTTP message
// components that will be cryptographically signed. It consists of:
// 1. Component lines: one per covered component
// 2. @signature-params line: metadata about the signature
//
// Parameters:
//   - msg: The HTTP message (request or response) to build the signature base from
//   - components: Ordered list of components to cover in the signature
//   - params: Signature metadata (created, expires, nonce, alg, keyid, tag)
//
// Returns:
//   - The signature base string ready for cryptographic signing
//   - Error if any component cannot be extracted or is invalid
//
// RFC 9421 Section 2.5 Format:
//
//	"component-1": value1
//	"component-2": value2
//	"@signature-params": (component-identifiers);param1=value1
//
// Example:
//
//	components := []parser.ComponentIdentifier{
//	    {Name: "@method", Type: parser.ComponentDerived},
//	    {Name: "content-type", Type: parser.ComponentField},
//	}
//	params := parser.SignatureParams{
//	    Created: ptr(time.Now().Unix()),
//	    KeyID:   ptr("my-key-id"),
//	}
//	signatureBase, err := base.Build(msg, components, params)
//
// Contract Guarantees (per contracts/builder-api.md):
//   - Output is deterministic for the same inputs
//   - No trailing newline after @signature-params
//   - Lines joined with LF (\n) character
//   - Component values preserve exact whitespace
//   - Empty component lists are valid (RFC 9421 B.2.1)
func Build(msg HTTPMessage, components []parser.ComponentIdentifier, params parser.SignatureParams) (string, error) {
	return BuildWithOptions(msg, components, params, BuildOptions{})
}

// BuildOptions carries builder behavior that isn't part of the wire format
// itself: which components are allowed to be silently dropped rather than
// failing the whole build.
type BuildOptions struct {
	// UsedIfPresent lists components that should be included when their
	// value can be extracted from msg, and silently omitted (from both the
	// component lines and the @signature-params inner list) otherwise,
	// instead of causing Build to fail.
	UsedIfPresent []parser.ComponentIdentifier
}

// BuildWithOptions is Build with additional non-wire-format behavior; see
// BuildOptions.
func BuildWithOptions(msg HTTPMessage, components []parser.ComponentIdentifier, params parser.SignatureParams, opts BuildOptions) (string, error) {
	if err := checkDuplicateComponents(components); err != nil {
		return "", err
	}

	usedIfPresent := make(map[string]struct{}, len(opts.UsedIfPresent))
	for _, c := range opts.UsedIfPresent {
		usedIfPresent[componentDedupeKey(c)] = struct{}{}
	}

	var componentLines []string
	var effectiveComponents []parser.ComponentIdentifier

	for _, comp := range components {
		_, optional := usedIfPresent[componentDedupeKey(comp)]

		if comp.IsDerived() && comp.Name == "@query-param" {
			values, err := extractQueryParamValues(msg, comp)
			if err != nil {
				if optional {
					continue
				}
				return "", fmt.Errorf("failed to extract component %q: %w", comp.Name, err)
			}
			for _, value := range values {
				componentLines = append(componentLines, formatComponentLine(comp, value))
			}
			effectiveComponents = append(effectiveComponents, comp)
			continue
		}

		// Extract the component value from the HTTP message
		value, err := extractComponentValue(msg, comp)
		if err != nil {
			if optional {
				continue
			}
			return "", fmt.Errorf("failed to extract component %q: %w", comp.Name, err)
		}

		componentLines = append(componentLines, formatComponentLine(comp, value))
		effectiveComponents = append(effectiveComponents, comp)
	}

	signatureParamsLine := formatSignatureParamsLine(effectiveComponents, params)

	return assembleSignatureBase(componentLines, signatureParamsLine), nil
}

// componentDedupeKey renders a component identifier's name and full
// parameter set into a string suitable for matching against caller-supplied
// component lists (e.g. BuildOptions.UsedIfPresent).
func componentDedupeKey(c parser.ComponentIdentifier) string {
	key := c.Name
	for _, p := range c.Parameters {
		key += ";" + p.Key + "=" + fmt.Sprint(bareItemGoValue(p.Value))
	}
	return key
}

// Present reports whether comp can be extracted from msg without error,
// without returning its value. Used by callers implementing
// required-if-present component policies (present in the message but
// missing from the covered-components list should be treated differently
// from components the message never had).
func Present(msg HTTPMessage, comp parser.ComponentIdentifier) bool {
	if comp.IsDerived() && comp.Name == "@query-param" {
		_, err := extractQueryParamValues(msg, comp)
		return err == nil
	}
	_, err := extractComponentValue(msg, comp)
	return err == nil
}

// checkDuplicateComponents rejects a covered-components list carrying the
// same (name, parameter set) pair more than once, mirroring the check
// pkg/parser applies to parsed Signature-Input entries.
func checkDuplicateComponents(components []parser.ComponentIdentifier) error {
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		key := componentDedupeKey(c)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate covered component %q", c.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// bareItemGoValue extracts the underlying Go value from a BareItem for use
// in duplicate-detection key formatting.
func bareItemGoValue(b parser.BareItem) interface{} {
	switch v := b.(type) {
	case parser.Boolean:
		return v.Value
	case parser.Integer:
		return v.Value
	case parser.String:
		return v.Value
	case parser.Token:
		return v.Value
	case parser.ByteSequence:
		return string(v.Value)
	default:
		return nil
	}
}
