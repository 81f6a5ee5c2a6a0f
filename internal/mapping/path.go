package mapping

import (
	"strings"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/match"
	"span-mapper/internal/schema"
)

// Separator splits a path spec into type and feature.
const Separator = ":"

// maxSuggestions bounds the names offered in resolution hints.
const maxSuggestions = 3

// RawPathSpec is the syntactic form of a path spec.
type RawPathSpec struct {
	Type    string
	Feature string // empty: use covered text
}

// String reassembles the canonical spec string.
func (r RawPathSpec) String() string {
	if r.Feature == "" {
		return r.Type
	}

	return r.Type + Separator + r.Feature
}

// PathSpec is a path spec resolved against one type system.
type PathSpec struct {
	// Spec is the configured string.
	Spec string
	// Type is the resolved span type.
	Type *schema.TypeInfo
	// Feature is the resolved feature, nil when the path spec names a type only.
	Feature *schema.Feature
}

// HasFeature reports whether the path spec names a feature.
func (p PathSpec) HasFeature() bool {
	return p.Feature != nil
}

// String returns the resolved reference, e.g. "geo.Country:code".
func (p PathSpec) String() string {
	if p.Type == nil {
		return p.Spec
	}

	if p.Feature == nil {
		return p.Type.ID.String()
	}

	return p.Type.ID.String() + Separator + p.Feature.Name
}

// ParsePathSpec splits spec into its type and optional feature.
// Supports: "Type", "Type:feature", with whitespace around either part.
func ParsePathSpec(spec string) (RawPathSpec, error) {
	parts := strings.Split(spec, Separator)

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return RawPathSpec{}, resolutionError(spec, errors.New("empty path spec"))
		}

		return RawPathSpec{Type: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return RawPathSpec{}, resolutionError(spec, errors.New("empty type or feature name"))
		}

		return RawPathSpec{Type: parts[0], Feature: parts[1]}, nil
	default:
		return RawPathSpec{}, resolutionError(spec,
			errors.Newf("expected Type or Type%sfeature, got %d parts", Separator, len(parts)))
	}
}

// Resolve parses spec and resolves it against ts. Failures are
// *SchemaResolutionError values carrying a hint with similar known names.
func Resolve(ts *schema.TypeSystem, spec string) (PathSpec, error) {
	raw, err := ParsePathSpec(spec)
	if err != nil {
		return PathSpec{}, err
	}

	t, err := ts.ResolveType(raw.Type)
	if err != nil {
		return PathSpec{}, withSuggestions(resolutionError(spec, err), raw.Type, typeNames(ts))
	}

	ps := PathSpec{Spec: spec, Type: t}
	if raw.Feature == "" {
		return ps, nil
	}

	f, err := ts.ResolveFeature(t, raw.Feature)
	if err != nil {
		return PathSpec{}, withSuggestions(resolutionError(spec, err), raw.Feature, t.FeatureNames())
	}

	ps.Feature = f

	return ps, nil
}

// RequireString fails unless the path spec names a type only or a string feature.
// Lookup keys and looked-up values are strings.
func (p PathSpec) RequireString() error {
	if p.Feature == nil || p.Feature.Range == schema.KindString {
		return nil
	}

	return resolutionError(p.Spec, errors.Newf("feature %s has range %s, want string", p.Feature, p.Feature.Range))
}

func withSuggestions(err *SchemaResolutionError, name string, known []string) error {
	err.Suggestions = match.Suggest(name, known, maxSuggestions)
	if len(err.Suggestions) == 0 {
		return err
	}

	return errors.WithHintf(err, "did you mean %s?", strings.Join(err.Suggestions, " or "))
}

// typeNames lists bare and qualified names of every type, deduplicated.
func typeNames(ts *schema.TypeSystem) []string {
	seen := make(map[string]bool, 2*len(ts.Types))
	names := make([]string, 0, 2*len(ts.Types))

	for id := range ts.Types {
		for _, n := range []string{id.Name, id.String()} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	return names
}
