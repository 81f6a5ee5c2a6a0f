package mapping

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"span-mapper/internal/schema"
)

func buildTestTypeSystem(t *testing.T) *schema.TypeSystem {
	t.Helper()

	desc, err := schema.Parse([]byte(`
namespace: geo
types:
  - name: Location
    features: [{name: code}, {name: kind}]
  - name: City
    parent: Location
    features: [{name: population, range: integer}]
  - name: Country
    features: [{name: code}]
  - name: Foo
    features: [{name: bar}]
`))
	require.NoError(t, err)

	ts := schema.NewTypeSystem()
	require.NoError(t, desc.Build(ts))

	return ts
}

func TestParsePathSpec(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RawPathSpec
	}{
		{"type only", "Foo", RawPathSpec{Type: "Foo"}},
		{"type and feature", "Foo:bar", RawPathSpec{Type: "Foo", Feature: "bar"}},
		{"trimmed", "  Foo :\tbar ", RawPathSpec{Type: "Foo", Feature: "bar"}},
		{"qualified type", "geo.Foo:bar", RawPathSpec{Type: "geo.Foo", Feature: "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePathSpec(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePathSpec_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "Foo:bar:baz", "Foo:", ":bar", "::"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePathSpec(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaResolution)

			var sre *SchemaResolutionError
			require.True(t, errors.As(err, &sre))
			assert.Equal(t, in, sre.Spec)
		})
	}
}

func TestRawPathSpec_String(t *testing.T) {
	assert.Equal(t, "Foo", RawPathSpec{Type: "Foo"}.String())
	assert.Equal(t, "Foo:bar", RawPathSpec{Type: "Foo", Feature: "bar"}.String())
}

func TestResolve(t *testing.T) {
	ts := buildTestTypeSystem(t)

	foo, err := Resolve(ts, "Foo")
	require.NoError(t, err)
	assert.Equal(t, "Foo", foo.Type.ID.Name)
	assert.False(t, foo.HasFeature())
	assert.Equal(t, "geo.Foo", foo.String())

	bar, err := Resolve(ts, "Foo:bar")
	require.NoError(t, err)
	require.True(t, bar.HasFeature())
	assert.Equal(t, "bar", bar.Feature.Name)
	assert.Equal(t, "geo.Foo:bar", bar.String())
	assert.Equal(t, "Foo:bar", bar.Spec)

	// inherited feature: declaring type is an ancestor of the resolved type
	cityCode, err := Resolve(ts, " geo.City : code ")
	require.NoError(t, err)
	assert.Equal(t, "City", cityCode.Type.ID.Name)
	assert.Equal(t, "Location", cityCode.Feature.Domain.ID.Name)
	assert.True(t, cityCode.Type.HasFeature(cityCode.Feature))
}

func TestResolve_Failures(t *testing.T) {
	ts := buildTestTypeSystem(t)

	tests := []struct {
		name    string
		spec    string
		cause   error
		suggest string
	}{
		{"unknown type", "Locaton", schema.ErrUnknownType, "Location"},
		{"unknown feature", "Location:cod", schema.ErrUnknownFeature, "code"},
		{"feature of subtype", "Location:population", schema.ErrUnknownFeature, ""},
		{"too many parts", "Foo:bar:baz", nil, ""},
		{"empty", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(ts, tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaResolution)
			assert.Contains(t, err.Error(), tt.spec)

			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}

			var sre *SchemaResolutionError
			require.True(t, errors.As(err, &sre))

			if tt.suggest != "" {
				assert.Contains(t, sre.Suggestions, tt.suggest)
				assert.NotEmpty(t, errors.GetAllHints(err))
			}
		})
	}
}

func TestPathSpec_RequireString(t *testing.T) {
	ts := buildTestTypeSystem(t)

	for _, spec := range []string{"City", "City:code"} {
		ps, err := Resolve(ts, spec)
		require.NoError(t, err)
		assert.NoError(t, ps.RequireString(), spec)
	}

	ps, err := Resolve(ts, "City:population")
	require.NoError(t, err)

	err = ps.RequireString()
	require.ErrorIs(t, err, ErrSchemaResolution)
	assert.Contains(t, err.Error(), "integer")
}
