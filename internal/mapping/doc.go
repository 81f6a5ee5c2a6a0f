// Package mapping turns the human-written halves of a mapping rule into
// references against a document's type system.
//
// A rule names where lookup keys come from (source) and where looked-up
// values go (target). Each side is a path spec string:
//
//	Location          the span type; its covered text is the key
//	Location:code     a feature of the type; its string value is the key
//	Country:code      (target) the feature receiving the looked-up value
//
// Whitespace around either part is ignored. Anything else ("", "A:",
// "A:b:c") is rejected. Type names are resolved with
// schema.TypeSystem.ResolveType, so "geo.Location" and "Location" both work.
//
// # Example rule (TOML)
//
//	source = "Location"
//	target = "Country:code"
//	update = false
//	file   = "countries.tsv"
//
// With update = false every hit creates a Country span over the Location's
// offsets; with update = true and target "Location:code" the Location span
// itself receives the value.
//
// Path specs are resolved per document and never cached: documents may
// carry distinct (if equivalent) type systems.
package mapping
