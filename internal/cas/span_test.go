package cas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_Values(t *testing.T) {
	tt := newTestTypes(t)
	doc := NewDocument(tt.ts, "d", "Paris")

	city, err := doc.AddSpan(tt.city, 0, 5)
	require.NoError(t, err)

	_, ok := city.StringValue(tt.code)
	assert.False(t, ok)
	assert.False(t, city.Has(tt.code))

	// inherited feature
	require.NoError(t, city.SetStringValue(tt.code, "FR-75"))
	v, ok := city.StringValue(tt.code)
	assert.True(t, ok)
	assert.Equal(t, "FR-75", v)

	require.NoError(t, city.SetIntValue(tt.pop, 2_100_000))
	n, ok := city.IntValue(tt.pop)
	assert.True(t, ok)
	assert.Equal(t, int64(2_100_000), n)

	city.Unset(tt.code)
	assert.False(t, city.Has(tt.code))
}

func TestSpan_SetErrors(t *testing.T) {
	tt := newTestTypes(t)
	doc := NewDocument(tt.ts, "d", "Paris")

	loc, err := doc.AddSpan(tt.location, 0, 5)
	require.NoError(t, err)

	// feature of a subtype
	require.ErrorIs(t, loc.SetIntValue(tt.pop, 1), ErrFeatureNotOnType)
	// feature of an unrelated type with the same name
	require.ErrorIs(t, loc.SetStringValue(tt.cc, "FR"), ErrFeatureNotOnType)
	require.ErrorIs(t, loc.SetStringValue(nil, "FR"), ErrFeatureNotOnType)

	country, err := doc.AddSpan(tt.country, 0, 5)
	require.NoError(t, err)
	require.ErrorIs(t, country.SetStringValue(tt.conf, "high"), ErrRangeMismatch)

	require.NoError(t, country.SetFloatValue(tt.conf, 0.9))
	require.NoError(t, country.SetBoolValue(tt.capital, true))

	f, ok := country.FloatValue(tt.conf)
	assert.True(t, ok)
	assert.InDelta(t, 0.9, f, 1e-9)

	b, ok := country.BoolValue(tt.capital)
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = country.StringValue(tt.conf)
	assert.False(t, ok)
}
