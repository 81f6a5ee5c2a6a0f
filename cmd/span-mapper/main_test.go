package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const descriptor = `namespace: geo
types:
  - name: Location
    features: [{name: code}]
  - name: Country
    features: [{name: code}]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		configPath, runOutput, runWorkers, runWatch = "", "", 0, false
	})

	err := rootCmd.Execute()

	return out.String(), err
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo.yaml", descriptor)

	good := writeFile(t, dir, "good.toml", `
source = "Location"
target = "Country:code"
update = false
types = ["geo.yaml"]
`)

	out, err := execute(t, "check", "-c", good)
	require.NoError(t, err, out)
	assert.Contains(t, out, "covered_text_key")
	assert.Contains(t, out, "OK: Location -> Country:code")

	bad := writeFile(t, dir, "bad.toml", `
source = "Locaton"
target = "Country:code"
update = false
types = ["geo.yaml"]
`)

	out, err = execute(t, "check", "-c", bad)
	require.Error(t, err)
	assert.Contains(t, out, "unresolved_source")
	assert.Contains(t, out, "did you mean Location")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo.yaml", descriptor)
	writeFile(t, dir, "countries.tsv", "# city\tcountry\nParis\tFR\nBerlin\tDE\n")
	cfg := writeFile(t, dir, "mapper.yaml", `
source: Location
target: Location:code
update: true
file: countries.tsv
types: [geo.yaml]
`)
	doc := writeFile(t, dir, "paris.yaml", `
id: paris
text: I live in Paris.
spans:
  - {type: geo.Location, begin: 10, end: 15}
`)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "run", "-c", cfg, "-o", outDir, doc)
	require.NoError(t, err, out)
	assert.Contains(t, out, "paris: visited=1 skipped=0 hits=1")

	mapped, err := os.ReadFile(filepath.Join(outDir, "paris.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(mapped), "code: FR")
}

func TestTypes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "geo.yaml", descriptor)

	out, err := execute(t, "types", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name: geo.Location")
	assert.Contains(t, out, "name: geo.Country")
}
