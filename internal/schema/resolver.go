package schema

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/common"
)

// ResolveType resolves a type name like:
// - "org.example.geo.Location" (qualified)
// - "geo.Location" (namespace suffix)
// - "Location" (name only).
func (ts *TypeSystem) ResolveType(name string) (*TypeInfo, error) {
	if name == "" {
		return nil, errors.Wrap(ErrUnknownType, "empty type name")
	}

	// Name-only: must match exactly one type.
	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		return ts.single(name, func(id TypeID) bool { return id.Name == name })
	}

	ns := name[:lastDot]

	short := name[lastDot+1:]
	if ns == "" || short == "" {
		return nil, errors.Wrapf(ErrUnknownType, "malformed type name %q", name)
	}

	// 1) exact match
	if t := ts.GetType(TypeID{Namespace: ns, Name: short}); t != nil {
		return t, nil
	}

	// 2) suffix match ("geo.Location" vs "org.example.geo.Location")
	return ts.single(name, func(id TypeID) bool {
		return id.Name == short && strings.HasSuffix(id.Namespace, "."+ns)
	})
}

func (ts *TypeSystem) single(name string, match func(TypeID) bool) (*TypeInfo, error) {
	var found []*TypeInfo

	for id, t := range ts.Types {
		if match(id) {
			found = append(found, t)
		}
	}

	switch {
	case common.IsEmpty(found):
		return nil, errors.Wrapf(ErrUnknownType, "%q", name)
	case common.IsSingle(found):
		return found[0], nil
	default:
		ids := make([]string, len(found))
		for i, t := range found {
			ids[i] = t.ID.String()
		}

		sort.Strings(ids)

		return nil, errors.Wrapf(ErrAmbiguousType, "%q matches %s", name, strings.Join(ids, ", "))
	}
}

// ResolveFeature resolves a feature visible on t.
func (ts *TypeSystem) ResolveFeature(t *TypeInfo, name string) (*Feature, error) {
	if f := t.Feature(name); f != nil {
		return f, nil
	}

	return nil, errors.Wrapf(ErrUnknownFeature, "%q on type %s", name, t.ID)
}
