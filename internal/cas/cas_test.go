package cas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"span-mapper/internal/schema"
)

type testTypes struct {
	ts       *schema.TypeSystem
	location *schema.TypeInfo
	city     *schema.TypeInfo
	country  *schema.TypeInfo
	code     *schema.Feature
	pop      *schema.Feature
	cc       *schema.Feature
	conf     *schema.Feature
	capital  *schema.Feature
}

func newTestTypes(t *testing.T) testTypes {
	t.Helper()

	desc, err := schema.Parse([]byte(`
namespace: geo
types:
  - name: Location
    features: [{name: code}]
  - name: City
    parent: Location
    features: [{name: population, range: integer}]
  - name: Country
    features:
      - {name: code}
      - {name: confidence, range: float}
      - {name: capital, range: boolean}
`))
	require.NoError(t, err)

	ts := schema.NewTypeSystem()
	require.NoError(t, desc.Build(ts))

	tt := testTypes{ts: ts}
	tt.location, err = ts.ResolveType("Location")
	require.NoError(t, err)
	tt.city, err = ts.ResolveType("City")
	require.NoError(t, err)
	tt.country, err = ts.ResolveType("Country")
	require.NoError(t, err)

	tt.code = tt.location.Feature("code")
	tt.pop = tt.city.Feature("population")
	tt.cc = tt.country.Feature("code")
	tt.conf = tt.country.Feature("confidence")
	tt.capital = tt.country.Feature("capital")

	return tt
}
