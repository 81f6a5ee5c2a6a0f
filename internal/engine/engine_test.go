package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"span-mapper/internal/cas"
	"span-mapper/internal/lookup"
	"span-mapper/internal/schema"
)

type fixture struct {
	ts       *schema.TypeSystem
	location *schema.TypeInfo
	city     *schema.TypeInfo
	country  *schema.TypeInfo
	code     *schema.Feature
	name     *schema.Feature
	cc       *schema.Feature
	pop      *schema.Feature
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	desc, err := schema.Parse([]byte(`
namespace: geo
types:
  - name: Location
    features: [{name: code}, {name: name}]
  - name: City
    parent: Location
    features: [{name: population, range: integer}]
  - name: Country
    features: [{name: code}]
`))
	require.NoError(t, err)

	ts := schema.NewTypeSystem()
	require.NoError(t, desc.Build(ts))

	f := fixture{ts: ts}
	f.location, err = ts.ResolveType("Location")
	require.NoError(t, err)
	f.city, err = ts.ResolveType("City")
	require.NoError(t, err)
	f.country, err = ts.ResolveType("Country")
	require.NoError(t, err)

	f.code = f.location.Feature("code")
	f.name = f.location.Feature("name")
	f.cc = f.country.Feature("code")
	f.pop = f.city.Feature("population")

	return f
}

// document adds one span of type t over every listed word of text.
func (f fixture) document(t *testing.T, text string, typ *schema.TypeInfo, words ...string) *cas.Document {
	t.Helper()

	doc := cas.NewDocument(f.ts, "doc-1", text)

	for _, w := range words {
		begin := strings.Index(text, w)
		require.GreaterOrEqual(t, begin, 0, w)

		_, err := doc.AddSpan(typ, begin, begin+len(w))
		require.NoError(t, err)
	}

	return doc
}

func countries() *lookup.Dictionary {
	return lookup.NewDictionary(map[string]string{"Paris": "FR", "Berlin": "DE"})
}
