package schema

import (
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Descriptor is the YAML form of a type system.
type Descriptor struct {
	// Namespace applies to every type whose name is not already qualified.
	Namespace string `yaml:"namespace,omitempty"`

	// Types lists the declared types. Order does not matter: parents may be
	// declared after their subtypes.
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares one annotation type.
type TypeDecl struct {
	// Name is the bare or qualified type name.
	Name string `yaml:"name"`

	// Parent names the supertype; empty means the root type.
	Parent string `yaml:"parent,omitempty"`

	Description string `yaml:"description,omitempty"`

	Features []FeatureDecl `yaml:"features,omitempty"`
}

// FeatureDecl declares one feature. Range defaults to string.
type FeatureDecl struct {
	Name  string `yaml:"name"`
	Range string `yaml:"range,omitempty"`
}

// LoadFile loads and parses a YAML type-system descriptor from the given path.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read type system %s", path)
	}

	desc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "type system %s", path)
	}

	return desc, nil
}

// Parse parses YAML data into a Descriptor.
func Parse(data []byte) (*Descriptor, error) {
	var desc Descriptor

	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "failed to parse type system YAML")
	}

	return &desc, nil
}

// Marshal serializes a Descriptor to YAML.
func Marshal(desc *Descriptor) ([]byte, error) {
	return yaml.Marshal(desc)
}

// qualify splits a declared name into a TypeID, applying the descriptor
// namespace to bare names.
func (d *Descriptor) qualify(name string) TypeID {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return TypeID{Namespace: name[:i], Name: name[i+1:]}
	}

	return TypeID{Namespace: d.Namespace, Name: name}
}

// Build adds the descriptor's types to ts.
func (d *Descriptor) Build(ts *TypeSystem) error {
	pending := make([]*TypeDecl, 0, len(d.Types))
	for i := range d.Types {
		pending = append(pending, &d.Types[i])
	}

	// Each pass registers every type whose parent is known; parents declared
	// later in the file are picked up on a following pass.
	for len(pending) > 0 {
		var next []*TypeDecl

		for _, decl := range pending {
			parent, ok := d.lookupParent(ts, decl.Parent, pending)
			if !ok {
				next = append(next, decl)
				continue
			}

			if err := d.addType(ts, decl, parent); err != nil {
				return err
			}
		}

		if len(next) == len(pending) {
			names := make([]string, len(next))
			for i, decl := range next {
				names[i] = decl.Name + " -> " + decl.Parent
			}

			sort.Strings(names)

			return errors.Wrapf(ErrUnknownType, "unresolvable parent types: %s", strings.Join(names, ", "))
		}

		pending = next
	}

	return nil
}

// lookupParent resolves a parent name. ok is false while the parent is still
// pending in this descriptor.
func (d *Descriptor) lookupParent(ts *TypeSystem, name string, pending []*TypeDecl) (*TypeInfo, bool) {
	if name == "" || name == RootTypeName {
		return ts.Root(), true
	}

	id := d.qualify(name)
	if t := ts.GetType(id); t != nil {
		return t, true
	}

	for _, p := range pending {
		if d.qualify(p.Name) == id {
			return nil, false
		}
	}

	if t, err := ts.ResolveType(name); err == nil {
		return t, true
	}

	return nil, false
}

func (d *Descriptor) addType(ts *TypeSystem, decl *TypeDecl, parent *TypeInfo) error {
	t, err := ts.AddType(d.qualify(decl.Name), parent)
	if err != nil {
		return err
	}

	for _, fd := range decl.Features {
		rng, err := ParseKind(fd.Range)
		if err != nil {
			return errors.Wrapf(err, "feature %s:%s", t.ID, fd.Name)
		}

		if _, err := ts.AddFeature(t, fd.Name, rng); err != nil {
			return err
		}
	}

	return nil
}

// Load builds a type system from one or more descriptor files.
func Load(paths ...string) (*TypeSystem, error) {
	ts := NewTypeSystem()

	for _, p := range paths {
		desc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}

		if err := desc.Build(ts); err != nil {
			return nil, errors.Wrapf(err, "type system %s", p)
		}
	}

	return ts, nil
}

// Describe renders ts as a descriptor with qualified type names, sorted by
// name. The root type is omitted.
func Describe(ts *TypeSystem) *Descriptor {
	desc := &Descriptor{}

	ids := make([]TypeID, 0, len(ts.Types))
	for id, t := range ts.Types {
		if !t.IsRoot() {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		t := ts.Types[id]

		decl := TypeDecl{Name: t.ID.String()}
		if !t.Parent.IsRoot() {
			decl.Parent = t.Parent.ID.String()
		}

		for _, f := range t.Features {
			decl.Features = append(decl.Features, FeatureDecl{Name: f.Name, Range: f.Range.String()})
		}

		desc.Types = append(desc.Types, decl)
	}

	return desc
}
