package schema

import (
	"sort"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/common"
)

// RootTypeName is the name of the built-in type every annotation type extends.
const RootTypeName = "Annotation"

// RootTypeID identifies the built-in root type.
var RootTypeID = TypeID{Name: RootTypeName}

var (
	// ErrUnknownType is returned when a type name matches no registered type.
	ErrUnknownType = errors.New("unknown type")
	// ErrAmbiguousType is returned when a short type name matches several types.
	ErrAmbiguousType = errors.New("ambiguous type")
	// ErrUnknownFeature is returned when a type has no visible feature of a given name.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrDuplicate is returned when a type or feature is declared twice.
	ErrDuplicate = errors.New("duplicate declaration")
)

// TypeID uniquely identifies a type by its namespace and name.
type TypeID struct {
	Namespace string // e.g., "geo"
	Name      string // e.g., "Location"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.Namespace == "" {
		return t.Name
	}

	return t.Namespace + "." + t.Name
}

// Kind is the value range of a feature.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
)

// String returns the descriptor spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	default:
		return common.UnknownStr
	}
}

// ParseKind parses a descriptor range name. Go-style aliases are accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string", "":
		return KindString, nil
	case "integer", "int", "long":
		return KindInteger, nil
	case "float", "double":
		return KindFloat, nil
	case "boolean", "bool":
		return KindBoolean, nil
	default:
		return KindUnknown, errors.Newf("unknown feature range %q", s)
	}
}

// Feature is a named, typed attribute declared by a type.
type Feature struct {
	Name   string
	Range  Kind
	Domain *TypeInfo // declaring type
}

// String returns "Type:name".
func (f *Feature) String() string {
	return f.Domain.ID.String() + ":" + f.Name
}

// TypeInfo describes an annotation type.
type TypeInfo struct {
	ID       TypeID
	Parent   *TypeInfo  // nil only for the root type
	Features []*Feature // declared on this type, in declaration order
}

// IsRoot reports whether t is the built-in root type.
func (t *TypeInfo) IsRoot() bool {
	return t.Parent == nil
}

// IsSubtypeOf reports whether other is an ancestor-or-self of t.
func (t *TypeInfo) IsSubtypeOf(other *TypeInfo) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}

	return false
}

// Feature returns the visible feature called name, searching t and then its
// ancestors. Returns nil if none exists.
func (t *TypeInfo) Feature(name string) *Feature {
	for cur := t; cur != nil; cur = cur.Parent {
		for _, f := range cur.Features {
			if f.Name == name {
				return f
			}
		}
	}

	return nil
}

// HasFeature reports whether f is visible on t, i.e. f's domain is an
// ancestor-or-self of t.
func (t *TypeInfo) HasFeature(f *Feature) bool {
	return f != nil && t.IsSubtypeOf(f.Domain)
}

// AllFeatures returns the visible features of t, inherited ones first.
func (t *TypeInfo) AllFeatures() []*Feature {
	var chain []*TypeInfo
	for cur := t; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}

	var out []*Feature
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Features...)
	}

	return out
}

// FeatureNames returns the names of the visible features of t.
func (t *TypeInfo) FeatureNames() []string {
	all := t.AllFeatures()

	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.Name
	}

	return names
}

// TypeSystem holds all annotation types known to a set of documents.
type TypeSystem struct {
	// Types maps TypeID to TypeInfo for all types, including the root.
	Types map[TypeID]*TypeInfo

	root *TypeInfo
}

// NewTypeSystem creates a type system containing only the root type.
func NewTypeSystem() *TypeSystem {
	root := &TypeInfo{ID: RootTypeID}

	return &TypeSystem{
		Types: map[TypeID]*TypeInfo{RootTypeID: root},
		root:  root,
	}
}

// Root returns the built-in root type.
func (ts *TypeSystem) Root() *TypeInfo {
	return ts.root
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (ts *TypeSystem) GetType(id TypeID) *TypeInfo {
	return ts.Types[id]
}

// AddType registers a new type. A nil parent means the root type.
func (ts *TypeSystem) AddType(id TypeID, parent *TypeInfo) (*TypeInfo, error) {
	if id.Name == "" {
		return nil, errors.New("type name must not be empty")
	}

	if _, exists := ts.Types[id]; exists {
		return nil, errors.Wrapf(ErrDuplicate, "type %s", id)
	}

	if parent == nil {
		parent = ts.root
	}

	if ts.Types[parent.ID] != parent {
		return nil, errors.Newf("parent type %s of %s is not part of this type system", parent.ID, id)
	}

	info := &TypeInfo{ID: id, Parent: parent}
	ts.Types[id] = info

	return info, nil
}

// AddFeature declares a feature on t. The name must not clash with a feature
// visible on t or declared on any subtype of t.
func (ts *TypeSystem) AddFeature(t *TypeInfo, name string, rng Kind) (*Feature, error) {
	if name == "" {
		return nil, errors.Newf("feature name on %s must not be empty", t.ID)
	}

	if rng == KindUnknown {
		return nil, errors.Newf("feature %s:%s has no range", t.ID, name)
	}

	if existing := t.Feature(name); existing != nil {
		return nil, errors.Wrapf(ErrDuplicate, "feature %s (already declared as %s)", name, existing)
	}

	for _, other := range ts.Types {
		if other == t || !other.IsSubtypeOf(t) {
			continue
		}

		for _, f := range other.Features {
			if f.Name == name {
				return nil, errors.Wrapf(ErrDuplicate, "feature %s (declared by subtype as %s)", name, f)
			}
		}
	}

	f := &Feature{Name: name, Range: rng, Domain: t}
	t.Features = append(t.Features, f)

	return f, nil
}

// Names returns the qualified names of all types, sorted.
func (ts *TypeSystem) Names() []string {
	names := make([]string, 0, len(ts.Types))
	for id := range ts.Types {
		names = append(names, id.String())
	}

	sort.Strings(names)

	return names
}
