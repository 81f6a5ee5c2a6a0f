package match

import "sort"

// DefaultSuggestThreshold is the minimum normalized similarity for a known
// name to be offered as a suggestion.
const DefaultSuggestThreshold = 0.6

// Candidate is a known name scored against an unresolved one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates sorted by descending score.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less orders by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Rank scores every known name against name and keeps those at or above
// threshold, best first.
func Rank(name string, known []string, threshold float64) CandidateList {
	var out CandidateList

	for _, k := range known {
		score := NormalizedLevenshteinScore(name, k)
		if score >= threshold {
			out = append(out, Candidate{Name: k, Score: score})
		}
	}

	sort.Sort(out)

	return out
}

// Suggest returns up to limit known names resembling name.
func Suggest(name string, known []string, limit int) []string {
	ranked := Rank(name, known, DefaultSuggestThreshold)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked.Names()
}
