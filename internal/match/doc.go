// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking for suggesting known names in place of mistyped ones.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against an unresolved one
package match
