package parser

import (
	"fmt"
)

// validDerivedComponents is the RFC 9421 §2.2 derived-component registry.
var validDerivedComponents = map[string]bool{
	"@method":         true,
	"@target-uri":     true,
	"@authority":      true,
	"@scheme":         true,
	"@request-target": true,
	"@path":           true,
	"@query":          true,
	"@query-param":    true, // requires a 'name' parameter
	"@status":         true,
}

// reservedDerivedComponents names derived components that are generated
// automatically and must never appear in a covered-components list.
var reservedDerivedComponents = map[string]bool{
	"@signature-params": true,
}

func validateComponentIdentifier(comp ComponentIdentifier) error {
	if comp.Type == ComponentDerived {
		if reservedDerivedComponents[comp.Name] {
			return fmt.Errorf("component %q must not appear in covered components (auto-generated)", comp.Name)
		}
		if !validDerivedComponents[comp.Name] {
			return fmt.Errorf("invalid derived component %q: not in RFC 9421 Section 2.2 registry", comp.Name)
		}
		if err := validateDerivedComponentParameters(comp); err != nil {
			return err
		}
	}

	return validateParameterCombinations(comp)
}

// validateDerivedComponentParameters enforces the per-component parameter
// requirements RFC 9421 layers on top of the general registry check —
// currently just @query-param's 'name' parameter (§2.2.8).
func validateDerivedComponentParameters(comp ComponentIdentifier) error {
	if comp.Name != "@query-param" {
		return nil
	}
	for _, param := range comp.Parameters {
		if param.Key == "name" {
			return nil
		}
	}
	return fmt.Errorf("derived component %q requires 'name' parameter", comp.Name)
}

// validateParameterCombinations enforces the component-parameter
// constraints from RFC 9421 §2.1: 'bs' and 'sf' are mutually exclusive,
// 'bs' and 'key' are mutually exclusive, and 'key' requires 'sf' (it names
// which dictionary member to extract from the structured field).
func validateParameterCombinations(comp ComponentIdentifier) error {
	var hasBS, hasSF, hasKey bool

	for _, param := range comp.Parameters {
		switch param.Key {
		case "bs":
			hasBS = true
		case "sf":
			hasSF = true
		case "key":
			hasKey = true
		}
	}

	if hasBS && hasSF {
		return fmt.Errorf("component %q has invalid parameter combination: 'bs' and 'sf' are mutually exclusive", comp.Name)
	}
	if hasBS && hasKey {
		return fmt.Errorf("component %q has invalid parameter combination: 'bs' and 'key' are mutually exclusive", comp.Name)
	}
	if hasKey && !hasSF {
		return fmt.Errorf("component %q has invalid parameter combination: 'key' parameter requires 'sf' parameter", comp.Name)
	}

	return nil
}
