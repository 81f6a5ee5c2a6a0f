package engine

import (
	"fmt"

	"span-mapper/internal/diagnostic"
)

// Report summarizes one Process call.
type Report struct {
	DocumentID string
	// Visited counts source spans seen, including skipped ones.
	Visited int
	// Skipped counts source spans with no value for the key feature.
	Skipped int
	Hits    int
	Misses  int
	Updated int
	Created int
	// Failed counts hits that could not be materialized.
	Failed int

	Diagnostics diagnostic.Diagnostics
}

// Changed reports whether the document was mutated.
func (r *Report) Changed() bool {
	return r.Updated > 0 || r.Created > 0
}

// String returns a one-line summary.
func (r *Report) String() string {
	return fmt.Sprintf("%s: visited=%d skipped=%d hits=%d misses=%d updated=%d created=%d failed=%d",
		r.DocumentID, r.Visited, r.Skipped, r.Hits, r.Misses, r.Updated, r.Created, r.Failed)
}
