// Package cas is the annotation store: a document's text plus the typed
// spans laid over it.
//
// Spans are owned by their Document and indexed by exact type. Each index
// is kept in annotation order: begin ascending, end descending, then the
// order in which spans were added. Index returns a snapshot, so callers may
// add spans while iterating without observing them.
//
// Offsets are byte offsets into the document text, half-open [begin, end).
package cas
