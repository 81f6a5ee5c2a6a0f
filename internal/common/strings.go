package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// LowerFirst lower-cases the first ASCII letter of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}

	if c := s[0]; c >= 'A' && c <= 'Z' {
		return string(c+('a'-'A')) + s[1:]
	}

	return s
}
