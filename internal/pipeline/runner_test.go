package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"span-mapper/internal/cas"
	"span-mapper/internal/lookup"
	"span-mapper/internal/mapping"
	"span-mapper/internal/schema"
)

const geoTypes = `
namespace: geo
types:
  - name: Location
    features: [{name: code}]
  - name: Country
    features: [{name: code}]
`

func typeSystem(t *testing.T, descriptor string) *schema.TypeSystem {
	t.Helper()

	desc, err := schema.Parse([]byte(descriptor))
	require.NoError(t, err)

	ts := schema.NewTypeSystem()
	require.NoError(t, desc.Build(ts))

	return ts
}

func cityDocument(t *testing.T, ts *schema.TypeSystem, id, city string) *cas.Document {
	t.Helper()

	loc, err := ts.ResolveType("Location")
	require.NoError(t, err)

	text := "I live in " + city + "."
	doc := cas.NewDocument(ts, id, text)
	_, err = doc.AddSpan(loc, strings.Index(text, city), strings.Index(text, city)+len(city))
	require.NoError(t, err)

	return doc
}

var createRule = mapping.Rule{Source: "Location", Target: "Country:code"}

func table() *lookup.Holder {
	return lookup.NewHolder(lookup.NewDictionary(map[string]string{"Paris": "FR", "Berlin": "DE"}))
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(createRule, table(), 0)
	require.Error(t, err)

	_, err = NewRunner(mapping.Rule{Source: "Location"}, table(), 1)
	require.ErrorIs(t, err, mapping.ErrInvalidRule)
}

func TestRunner_Run(t *testing.T) {
	ts := typeSystem(t, geoTypes)
	cities := []string{"Paris", "Berlin", "Madrid"}

	var jobs []Job
	for i := 0; i < 30; i++ {
		jobs = append(jobs, DocumentJob(cityDocument(t, ts, fmt.Sprintf("doc-%02d", i), cities[i%3])))
	}

	r, err := NewRunner(createRule, table(), 4)
	require.NoError(t, err)

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	assert.Empty(t, Failed(results))

	country, err := ts.ResolveType("Country")
	require.NoError(t, err)

	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("doc-%02d", i), res.Name)
		require.NotNil(t, res.Report, res.Name)
		assert.Equal(t, res.Name, res.Report.DocumentID)

		if cities[i%3] == "Madrid" {
			assert.Equal(t, 1, res.Report.Misses)
			assert.Empty(t, res.Document.Index(country))
		} else {
			assert.Equal(t, 1, res.Report.Created)
			assert.Len(t, res.Document.Index(country), 1)
		}
	}
}

func TestRunner_FailureIsolation(t *testing.T) {
	geo := typeSystem(t, geoTypes)
	bare := typeSystem(t, "namespace: geo\ntypes:\n  - name: Location\n")

	jobs := []Job{
		DocumentJob(cityDocument(t, geo, "good-1", "Paris")),
		DocumentJob(cityDocument(t, bare, "no-country", "Paris")),
		{Name: "unreadable", Open: func() (*cas.Document, error) { return nil, os.ErrNotExist }},
		DocumentJob(cityDocument(t, geo, "good-2", "Berlin")),
	}

	r, err := NewRunner(createRule, table(), 2)
	require.NoError(t, err)

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)

	failed := Failed(results)
	require.Len(t, failed, 2)
	assert.Equal(t, "no-country", failed[0].Name)
	assert.ErrorIs(t, failed[0].Err, mapping.ErrSchemaResolution)
	assert.Nil(t, failed[0].Report)
	assert.Equal(t, "unreadable", failed[1].Name)
	assert.ErrorIs(t, failed[1].Err, os.ErrNotExist)

	assert.Equal(t, 1, results[0].Report.Created)
	assert.Equal(t, 1, results[3].Report.Created)
}

func TestRunner_Cancelled(t *testing.T) {
	ts := typeSystem(t, geoTypes)

	var jobs []Job
	for i := 0; i < 10; i++ {
		jobs = append(jobs, DocumentJob(cityDocument(t, ts, fmt.Sprintf("doc-%d", i), "Paris")))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(createRule, table(), 2)
	require.NoError(t, err)

	results, err := r.Run(ctx, jobs)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, len(jobs))

	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled, res.Name)
		assert.Nil(t, res.Report)
	}
}

func TestRunner_FileJobs(t *testing.T) {
	ts := typeSystem(t, geoTypes)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "mapped")

	paths := []string{filepath.Join(in, "a.yaml"), filepath.Join(in, "b.json")}
	require.NoError(t, os.WriteFile(paths[0], []byte(`
id: a
text: I live in Paris.
spans:
  - {type: geo.Location, begin: 10, end: 15}
`), 0o644))
	require.NoError(t, os.WriteFile(paths[1], []byte(
		`{"id": "b", "text": "I live in Berlin.", "spans": [{"type": "Location", "begin": 10, "end": 16}]}`), 0o644))

	jobs, err := FileJobs(ts, paths, out)
	require.NoError(t, err)

	r, err := NewRunner(createRule, table(), 2)
	require.NoError(t, err)

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Empty(t, Failed(results))

	country, err := ts.ResolveType("Country")
	require.NoError(t, err)

	for i, want := range []string{"FR", "DE"} {
		doc, err := cas.ReadFile(ts, filepath.Join(out, filepath.Base(paths[i])))
		require.NoError(t, err)

		spans := doc.Index(country)
		require.Len(t, spans, 1)

		v, ok := spans[0].StringValue(country.Feature("code"))
		require.True(t, ok)
		assert.Equal(t, want, v)
	}

	// inputs untouched
	doc, err := cas.ReadFile(ts, paths[0])
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
}
