// Package engine applies one mapping rule to documents.
//
// For every span of the source type the engine derives a key (the covered
// text, or a string feature of the span), looks the key up in a table and,
// on a hit, either writes the value onto the same span (update mode) or
// creates a span of the target type over the same offsets (create mode).
//
// Path specs are resolved against each document's own type system on every
// call to Process; nothing is cached between documents.
package engine
