package schemafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/binmap"
)

const weatherYAML = `
records:
  - name: Weather
    fields:
      temp: B
      wind: B
    enums:
      wind_direction:
        field: wind
        labels: [North, East, South, West]
  - name: Climate
    fields:
      temp: B
      _pad: 2x
      humidity: B
      station: 4s
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(weatherYAML))
	require.NoError(t, err)
	kinds := f.Kinds()
	require.Len(t, kinds, 2)
	assert.Equal(t, "Weather", kinds[0].Name())
	assert.Equal(t, "Climate", kinds[1].Name())

	climate, ok := f.Record("Climate")
	require.True(t, ok)
	assert.Equal(t, "=B2xB4s", climate.Schema.Layout())
	assert.Equal(t, 8, climate.Schema.Size())
	assert.Equal(t, []string{"temp", "humidity", "station"}, climate.Schema.DataFields())
	assert.Empty(t, climate.Accessors())

	_, ok = f.Record("Missing")
	assert.False(t, ok)
}

func TestKindAccessors(t *testing.T) {
	f, err := Parse([]byte(weatherYAML))
	require.NoError(t, err)
	weather, ok := f.Record("Weather")
	require.True(t, ok)
	require.Len(t, weather.Accessors(), 1)
	_, ok = weather.Accessor("wind_direction")
	require.True(t, ok)

	r := weather.Schema.New()
	require.NoError(t, weather.Set(r, "temp", 10))
	require.NoError(t, weather.Set(r, "wind_direction", "South"))
	assert.Equal(t, []byte{10, 2}, r.Bytes())

	v, err := weather.Get(r, "wind_direction")
	require.NoError(t, err)
	assert.Equal(t, "South", v)
	v, err = weather.Get(r, "wind")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), v)

	require.ErrorIs(t, weather.Set(r, "wind_direction", "Northwest"), binmap.ErrValue)
	require.ErrorIs(t, weather.Set(r, "gust", 1), binmap.ErrUnknownField)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
		line string
	}{
		{"duplicate record", "records:\n  - name: A\n    fields: {a: B}\n  - name: A\n    fields: {a: B}\n", ErrInvalid, "line 4"},
		{"nameless", "records:\n  - fields: {a: B}\n", ErrInvalid, "line 2"},
		{"non-scalar type", "records:\n  - name: A\n    fields:\n      a: [B]\n", ErrInvalid, "line 4"},
		{"fields not mapping", "records:\n  - name: A\n    fields: [a, b]\n", ErrInvalid, "line 3"},
		{"bad code", "records:\n  - name: A\n    fields: {a: Z}\n", binmap.ErrSchema, "line 2"},
		{"duplicate field", "records:\n  - name: A\n    fields:\n      a: B\n      a: H\n", nil, ""},
		{"enum unknown field", "records:\n  - name: A\n    fields: {a: B}\n    enums:\n      e: {field: b, labels: [x]}\n", ErrInvalid, "unknown field"},
		{"enum on float", "records:\n  - name: A\n    fields: {a: f}\n    enums:\n      e: {field: a, labels: [x]}\n", ErrInvalid, "not an integer"},
		{"enum on padding", "records:\n  - name: A\n    fields: {a: B, _p: x}\n    enums:\n      e: {field: _p, labels: [x]}\n", ErrInvalid, "not an integer"},
		{"enum shadows field", "records:\n  - name: A\n    fields: {a: B, b: B}\n    enums:\n      b: {field: a, labels: [x]}\n", ErrInvalid, "shadows"},
		{"enum duplicate label", "records:\n  - name: A\n    fields: {a: B}\n    enums:\n      e: {field: a, labels: [x, x]}\n", ErrInvalid, "duplicate label"},
		{"malformed yaml", "records: [\n", nil, "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			}
			if tc.line != "" {
				assert.Contains(t, err.Error(), tc.line)
			}
		})
	}
}

func TestEmptyFile(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Kinds())
}

func TestRecordWithoutFields(t *testing.T) {
	f, err := Parse([]byte("records:\n  - name: Empty\n"))
	require.NoError(t, err)
	k, ok := f.Record("Empty")
	require.True(t, ok)
	assert.Zero(t, k.Schema.Size())
	assert.Equal(t, "=", k.Schema.Layout())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.yaml")
	require.NoError(t, os.WriteFile(path, []byte(weatherYAML), 0o600))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Kinds(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAccessorOrder(t *testing.T) {
	src := "records:\n  - name: A\n    fields: {a: B, b: B}\n    enums:\n      zeta: {field: a, labels: [x]}\n      alpha: {field: b, labels: [y]}\n"
	f, err := Parse([]byte(src))
	require.NoError(t, err)
	k, ok := f.Record("A")
	require.True(t, ok)
	var names []string
	for _, acc := range k.Accessors() {
		names = append(names, acc.Name())
	}
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}
