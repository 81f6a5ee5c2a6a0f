// Package geo declares a small geographic annotation type system.
//
// The structs are never instantiated; schema.Analyzer reads their
// declarations to build annotation types.
package geo

// Location marks a place mention.
type Location struct {
	Code string `span:"code"`
	Kind string `span:"kind"`
}

// City is a Location that is a city.
type City struct {
	Location

	Population int64 `span:"population"`
}

// Country carries an ISO country code.
type Country struct {
	Code       string  `span:"code"`
	Name       string  `span:"name"`
	Confidence float64 `span:"confidence"`
}

// Token is a word-level annotation.
type Token struct {
	Lemma   string
	POS     string `span:"pos"`
	Stop    bool   `span:"stop"`
	Surface string `span:"-"`

	// not exported: ignored
	offset int
}
