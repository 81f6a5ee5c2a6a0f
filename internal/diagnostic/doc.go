// Package diagnostic provides structured errors, warnings and infos for
// mapping rules and processed documents.
//
// Key capabilities:
//   - Coded diagnostics, located by document and path spec or span
//   - "did you mean" suggestions for unresolved names
//   - A combined error for callers that only need pass or fail
package diagnostic
