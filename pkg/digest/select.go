package digest

import (
	"fmt"
	"sort"

	"github.com/forcebit/message-signatures/pkg/sfv"
	"github.com/forcebit/message-signatures/pkg/sigerr"
)

// CalculateForAlgorithm computes the digest of body with algorithm and
// formats it directly as a one-entry Content-Digest header value.
func CalculateForAlgorithm(body []byte, algorithm string) (string, error) {
	digestBytes, err := ComputeDigest(body, algorithm)
	if err != nil {
		return "", sigerr.Wrap(sigerr.UnsupportedAlgorithm, fmt.Sprintf("failed to compute digest for algorithm %q", algorithm), err)
	}
	return FormatContentDigest(map[string][]byte{algorithm: digestBytes})
}

// wantEntry is one parsed Want-Content-Digest dictionary member: an
// algorithm name paired with its RFC 8941 quality weight.
type wantEntry struct {
	algorithm string
	weight    float64
	order     int
}

// CalculateForWantHeader parses a Want-Content-Digest header value as an
// RFC 8941 Dictionary of quality weights (Integer 0/1 or Decimal in
// [0,1]), picks the highest-weight algorithm this package supports
// (ties broken by declaration order), and returns the corresponding
// Content-Digest header value.
func CalculateForWantHeader(body []byte, wantHeader string) (string, error) {
	parser := sfv.NewParser(wantHeader, sfv.DefaultLimits())
	dict, err := parser.ParseDictionary()
	if err != nil {
		return "", sigerr.Wrap(sigerr.InvalidStructuredHeader, "failed to parse Want-Content-Digest header", err)
	}
	if len(dict.Keys) == 0 {
		return "", sigerr.New(sigerr.InvalidStructuredHeader, "Want-Content-Digest header contains no algorithms")
	}

	entries := make([]wantEntry, 0, len(dict.Keys))
	for i, algorithm := range dict.Keys {
		item, ok := dict.Values[algorithm].(sfv.Item)
		if !ok {
			return "", sigerr.New(sigerr.InvalidStructuredHeader, fmt.Sprintf("algorithm %q: Want-Content-Digest value must be an Item, got %T", algorithm, dict.Values[algorithm]))
		}

		weight, err := qualityWeight(item.Value)
		if err != nil {
			return "", sigerr.Wrap(sigerr.InvalidStructuredHeader, fmt.Sprintf("algorithm %q", algorithm), err)
		}

		entries = append(entries, wantEntry{algorithm: algorithm, weight: weight, order: i})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].weight > entries[j].weight
	})

	for _, e := range entries {
		if e.weight <= 0 {
			continue
		}
		if !isAlgorithmSupported(e.algorithm) {
			continue
		}
		return CalculateForAlgorithm(body, e.algorithm)
	}

	return "", sigerr.New(sigerr.UnsupportedAlgorithm, fmt.Sprintf("no supported algorithm found in Want-Content-Digest header %q", wantHeader))
}

// qualityWeight interprets an SF bare item as an RFC 8941 quality value:
// either the Integer 0 or 1, or a Decimal in [0, 1].
func qualityWeight(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int64:
		if v != 0 && v != 1 {
			return 0, fmt.Errorf("quality weight integer must be 0 or 1, got %d", v)
		}
		return float64(v), nil
	case sfv.Decimal:
		f := v.Float64()
		if f < 0 || f > 1 {
			return 0, fmt.Errorf("quality weight must be within [0, 1], got %v", f)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("quality weight must be an Integer or Decimal, got %T", value)
	}
}

// Verify parses a Content-Digest header and verifies every supported entry
// against body. An entry naming an algorithm this package doesn't support is
// ignored rather than rejected, as long as at least one supported entry is
// also present — a sender is free to offer digests in algorithms a given
// verifier doesn't implement, and that alone shouldn't fail verification of
// the algorithms it does.
func Verify(header string, body []byte) error {
	headerDigests, err := parseContentDigestLenient(header)
	if err != nil {
		return sigerr.Wrap(sigerr.InvalidStructuredHeader, "failed to parse Content-Digest header", err)
	}

	algorithms := make([]string, 0, len(headerDigests))
	for algorithm := range headerDigests {
		algorithms = append(algorithms, algorithm)
	}

	return VerifyContentDigestBytes(body, header, algorithms)
}
