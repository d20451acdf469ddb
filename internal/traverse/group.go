package traverse

import "unicode"

// DefaultGroup collects legs whose code has no alphabetic prefix.
const DefaultGroup = "PT"

// Group returns the feature group of a point code: its leading run of letters.
func Group(code string) string {
	for i, r := range code {
		if !unicode.IsLetter(r) {
			if i == 0 {
				return DefaultGroup
			}
			return code[:i]
		}
	}
	if code == "" {
		return DefaultGroup
	}
	return code
}
