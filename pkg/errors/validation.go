package errors

import "unicode"

// ValidateNodeID validates a node identifier supplied by a caller.
// Identifiers are opaque strings, so the rules are intentionally minimal:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains control characters")
		}
	}
	return nil
}

// ValidateEndpoints checks a (source, target) query pair before any search
// runs. Callers should check these guard conditions first; both are usage
// errors distinct from "no path".
func ValidateEndpoints(source, target string) error {
	if err := ValidateNodeID(source); err != nil {
		return err
	}
	if err := ValidateNodeID(target); err != nil {
		return err
	}
	if source == target {
		return New(ErrCodeTrivialQuery, "source and target are the same node: %s", source)
	}
	return nil
}
