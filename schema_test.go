package binmap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLayout(t *testing.T) {
	s, err := Compile("Frame",
		F("id", "H"),
		F("_pad", "3x"),
		F("name", "10s"),
		F("label", "5p"),
		F("ok", "?"),
		F("value", "d"),
	)
	require.NoError(t, err)
	assert.Equal(t, "Frame", s.Name())
	assert.Equal(t, 2+3+10+5+1+8, s.Size())
	assert.Equal(t, "=H3x10s5p?d", s.Layout())
	assert.Equal(t, []string{"id", "name", "label", "ok", "value"}, s.DataFields())

	fields := s.Fields()
	require.Len(t, fields, 6)
	offsets := []int{0, 2, 5, 15, 20, 21}
	for i, f := range fields {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, offsets[i], f.Offset, f.Name)
	}
	assert.True(t, fields[1].IsPadding())
	assert.Equal(t, 3, fields[1].Width)

	spec, ok := s.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, String, spec.Format)
	assert.Equal(t, 10, spec.Count)
	assert.Equal(t, "10s", spec.Type())
	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestCompilePreservesDeclarationOrder(t *testing.T) {
	names := []string{"zeta", "alpha", "mid", "beta"}
	var decl []Field
	for _, n := range names {
		decl = append(decl, F(n, "B"))
	}
	s := MustCompile("Ordered", decl...)
	assert.Equal(t, names, s.DataFields())
}

func TestCompileOrderSensitivity(t *testing.T) {
	a := MustCompile("A", F("x", "B"), F("y", "H"))
	b := MustCompile("B", F("y", "H"), F("x", "B"))
	assert.Equal(t, a.Size(), b.Size())

	ra, err := a.Make(Values{"x": 1, "y": 0x0203})
	require.NoError(t, err)
	rb, err := b.Make(Values{"x": 1, "y": 0x0203})
	require.NoError(t, err)
	assert.NotEqual(t, ra.Bytes(), rb.Bytes())

	xa, _ := a.Lookup("x")
	xb, _ := b.Lookup("x")
	assert.NotEqual(t, xa.Offset, xb.Offset)
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name   string
		fields []Field
		field  string
	}{
		{"duplicate", []Field{F("a", "B"), F("a", "H")}, "a"},
		{"unknown code", []Field{F("a", "z")}, "a"},
		{"empty type", []Field{F("a", "")}, "a"},
		{"zero count", []Field{F("a", "0s")}, "a"},
		{"negative count", []Field{F("a", "-2x")}, "a"},
		{"malformed count", []Field{F("a", "1a2s")}, "a"},
		{"count on integer", []Field{F("a", "4B")}, "a"},
		{"empty name", []Field{F("", "B")}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile("Bad", tc.fields...)
			require.ErrorIs(t, err, ErrSchema)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "Bad", se.Schema)
			assert.Equal(t, tc.field, se.Field)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("Bad", F("a", "?"), F("a", "?")) })
}

func TestSchemaFieldsIsACopy(t *testing.T) {
	s := MustCompile("Copy", F("a", "B"))
	f := s.Fields()
	f[0].Name = "changed"
	spec, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", spec.Name)
}

func TestPlatformWidths(t *testing.T) {
	s := MustCompile("Native", F("n", "n"), F("N", "N"), F("P", "P"))
	assert.Equal(t, 2*strconv.IntSize/8+Pointer.Size(1), s.Size())
}

func TestSchemaConcurrentReaders(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			r, err := paddedSchema.Make(Values{"temp": i, "humidity": i + 1})
			if err == nil {
				_ = r.Bytes()
			}
			_ = paddedSchema.Fields()
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
