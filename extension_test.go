package binmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windSchema    = MustCompile("Wind", F("temp", "B"), F("wind", "B"))
	windDirection = NewEnum("winddirection", "wind", "North", "East", "South", "West")
)

func TestEnumAccessor(t *testing.T) {
	r := windSchema.New()
	require.NoError(t, windDirection.SetLabel(r, "South"))
	wind, err := Value[uint8](r, "wind")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), wind)
	assert.Equal(t, []byte{0, 2}, r.Bytes())

	label, err := windDirection.Label(r)
	require.NoError(t, err)
	assert.Equal(t, "South", label)

	err = windDirection.SetLabel(r, "Northwest")
	require.ErrorIs(t, err, ErrValue)
	assert.Contains(t, err.Error(), "Northwest")
	assert.Equal(t, []byte{0, 2}, r.Bytes())

	assert.Equal(t, "wind", windDirection.Field())
	assert.Equal(t, []string{"North", "East", "South", "West"}, windDirection.Labels())
}

func TestEnumThroughAccessorInterface(t *testing.T) {
	var acc Accessor = windDirection
	r := windSchema.New()
	require.NoError(t, acc.Set(r, "East"))
	v, err := acc.Get(r)
	require.NoError(t, err)
	assert.Equal(t, "East", v)
	require.ErrorIs(t, acc.Set(r, 3), ErrValue)
}

func TestEnumUnknownCode(t *testing.T) {
	r, err := windSchema.FromBytes([]byte{0, 9})
	require.NoError(t, err)
	_, err = windDirection.Label(r)
	require.ErrorIs(t, err, ErrValue)
}

func TestEnumOverMissingField(t *testing.T) {
	e := NewEnum("mode", "mode", "off", "on")
	_, err := e.Label(tempSchema.New())
	require.ErrorIs(t, err, ErrUnknownField)
	require.ErrorIs(t, e.SetLabel(tempSchema.New(), "on"), ErrUnknownField)
}

func TestEnumRespectsFieldDomain(t *testing.T) {
	labels := make([]string, 300)
	for i := range labels {
		labels[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	e := NewEnum("big", "temp", labels...)
	r := tempSchema.New()
	require.ErrorIs(t, e.SetLabel(r, labels[299]), ErrValueRange)
	require.NoError(t, e.SetLabel(r, labels[255]))
}

func TestComputedAccessor(t *testing.T) {
	fahrenheit := &Computed{
		AccessorName: "fahrenheit",
		GetFunc: func(r *Record) (any, error) {
			c, err := r.Uint("temp")
			if err != nil {
				return nil, err
			}
			return float64(c)*9/5 + 32, nil
		},
		SetFunc: func(r *Record, v any) error {
			f, ok := v.(float64)
			if !ok {
				return &ValueError{Field: "fahrenheit", Value: v, Reason: "expected float64"}
			}
			return r.Set("temp", int((f-32)*5/9))
		},
	}
	r := tempSchema.New()
	require.NoError(t, fahrenheit.Set(r, 212.0))
	assert.Equal(t, []byte{100}, r.Bytes())
	v, err := fahrenheit.Get(r)
	require.NoError(t, err)
	assert.Equal(t, 212.0, v)
	require.ErrorIs(t, fahrenheit.Set(r, 1000.0), ErrValueRange)

	readOnly := &Computed{AccessorName: "ro", GetFunc: fahrenheit.GetFunc}
	require.ErrorIs(t, readOnly.Set(r, 1.0), ErrValue)
	assert.Equal(t, "ro", readOnly.Name())
}
