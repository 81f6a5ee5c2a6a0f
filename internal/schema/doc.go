// Package schema models the annotation type system that documents are
// written against.
//
// A TypeSystem is a registry of annotation types. Every type descends from
// the built-in root type "Annotation" and declares zero or more features
// (named, typed attributes). Features are inherited: a type can read and
// write the features of all its ancestors.
//
// # Naming
//
// Types are identified by a namespace and a name ("geo.Location"). Lookups
// accept three forms:
//   - the qualified name: "org.example.geo.Location"
//   - a namespace suffix: "geo.Location"
//   - the bare name: "Location" (only when unambiguous)
//
// # Sources
//
// Type systems are built programmatically (AddType / AddFeature), loaded from
// a YAML descriptor (LoadFile / Parse), or derived from Go struct declarations
// with an Analyzer.
//
// Resolved *TypeInfo and *Feature values are stable handles: callers resolve
// names once and reuse the handles for every span of a document.
package schema
