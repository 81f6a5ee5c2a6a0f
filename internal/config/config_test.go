package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"span-mapper/internal/mapping"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "mapper.toml", `
source = "Location"
target = "Country:code"
update = false
file = "countries.tsv"
types = ["geo.yaml", "span-mapper/typesystem/geo"]
workers = 4

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, mapping.Rule{Source: "Location", Target: "Country:code"}, cfg.Rule())
	assert.Equal(t, filepath.Join(dir, "countries.tsv"), cfg.File)
	assert.Equal(t, []string{filepath.Join(dir, "geo.yaml")}, cfg.DescriptorFiles())
	assert.Equal(t, []string{"span-mapper/typesystem/geo"}, cfg.Packages())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.Watch)
}

func TestLoad_YAMLDefaults(t *testing.T) {
	path := writeConfig(t, "mapper.yaml", `
source: Location
target: Location:code
update: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Update)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.Types)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "mapper.yaml", `
source: Location
target: Country:code
update: false
`)

	t.Setenv("SPANMAPPER_TARGET", "Location:code")
	t.Setenv("SPANMAPPER_UPDATE", "true")
	t.Setenv("SPANMAPPER_WORKERS", "3")
	t.Setenv("SPANMAPPER_LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Location:code", cfg.Target)
	assert.True(t, cfg.Update)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("SPANMAPPER_SOURCE", "Location")
	t.Setenv("SPANMAPPER_TARGET", "Country")
	t.Setenv("SPANMAPPER_UPDATE", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Location", cfg.Source)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing update", "source: Location\ntarget: Country:code\n"},
		{"missing source", "target: Country:code\nupdate: false\n"},
		{"missing target", "source: Location\nupdate: false\n"},
		{"malformed spec", "source: 'A:b:c'\ntarget: Country\nupdate: false\n"},
		{"update without feature", "source: Location\ntarget: Location\nupdate: true\n"},
		{"zero workers", "source: Location\ntarget: Country\nupdate: false\nworkers: 0\n"},
		{"watch without file", "source: Location\ntarget: Country\nupdate: false\nwatch: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "mapper.yaml", tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.toml")
}
