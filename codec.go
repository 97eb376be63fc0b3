package binmap

import (
	"sort"

	"github.com/rawbytedev/binmap/internal/common"
	"github.com/x448/float16"
)

// Values maps data field names to decoded values.
type Values map[string]any

// Encode serializes values against s. Fields missing from values encode as
// their zero value. The result is always s.Size() bytes long.
func Encode(s *Schema, values Values) ([]byte, error) {
	slots, err := s.slotsFrom(values)
	if err != nil {
		return nil, err
	}
	return s.encodeSlots(slots), nil
}

// Decode deserializes buf against s. It returns one entry per data field.
func Decode(s *Schema, buf []byte) (Values, error) {
	slots, err := s.decodeSlots(buf)
	if err != nil {
		return nil, err
	}
	return s.valuesOf(slots), nil
}

// zeroSlots returns the positional value array of a fresh record. Padding
// slots stay nil.
func (s *Schema) zeroSlots() []any {
	slots := make([]any, len(s.fields))
	for i := range s.fields {
		spec := &s.fields[i]
		slots[i] = spec.Format.Zero(spec.Count)
	}
	return slots
}

// slotsFrom validates a name keyed value set and lays it out positionally.
func (s *Schema) slotsFrom(values Values) ([]any, error) {
	if len(values) > 0 {
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := s.dataField(name); err != nil {
				return nil, err
			}
		}
	}
	slots := s.zeroSlots()
	for i := range s.fields {
		spec := &s.fields[i]
		v, ok := values[spec.Name]
		if !ok || spec.IsPadding() {
			continue
		}
		nv, err := normalize(spec, v)
		if err != nil {
			return nil, err
		}
		slots[i] = nv
	}
	return slots, nil
}

func (s *Schema) valuesOf(slots []any) Values {
	out := make(Values, len(s.data))
	for i := range s.fields {
		if s.fields[i].IsPadding() {
			continue
		}
		out[s.fields[i].Name] = cloneValue(slots[i])
	}
	return out
}

// encodeSlots writes canonical slot values in declaration order. Padding
// bytes are left zero.
func (s *Schema) encodeSlots(slots []any) []byte {
	buf := make([]byte, s.size)
	for i := range s.fields {
		spec := &s.fields[i]
		if spec.IsPadding() {
			continue
		}
		putField(spec, slots[i], buf[spec.Offset:spec.Offset+spec.Width])
	}
	return buf
}

func (s *Schema) decodeSlots(buf []byte) ([]any, error) {
	if len(buf) != s.size {
		return nil, &BufferSizeError{Schema: s.name, Want: s.size, Got: len(buf)}
	}
	slots := make([]any, len(s.fields))
	for i := range s.fields {
		spec := &s.fields[i]
		if spec.IsPadding() {
			continue
		}
		slots[i] = getField(spec, buf[spec.Offset:spec.Offset+spec.Width])
	}
	return slots, nil
}

func putField(spec *FieldSpec, v any, b []byte) {
	switch x := v.(type) {
	case bool:
		if x {
			b[0] = 1
		}
	case int8:
		b[0] = byte(x)
	case int16, int32, int64, int:
		common.PutUint(b, spec.Width, uint64(signed(x)))
	case uint8:
		b[0] = x
	case uint16, uint32, uint64, uint, uintptr:
		common.PutUint(b, spec.Width, unsigned(x))
	case float32:
		if spec.Format == Half {
			common.PutUint(b, 2, uint64(float16.Fromfloat32(x).Bits()))
		} else {
			common.PutFloat32(b, x)
		}
	case float64:
		common.PutFloat64(b, x)
	case []byte:
		if spec.Format == Pascal {
			b[0] = byte(len(x))
			copy(b[1:], x)
		} else {
			copy(b, x)
		}
	}
}

func getField(spec *FieldSpec, b []byte) any {
	switch spec.Format.Kind() {
	case KindBool:
		return b[0] != 0
	case KindInt:
		return integerOf(spec.Format, common.Int(b, spec.Width), 0)
	case KindUint:
		return integerOf(spec.Format, 0, common.Uint(b, spec.Width))
	case KindFloat:
		switch spec.Format {
		case Half:
			return float16.Frombits(uint16(common.Uint(b, 2))).Float32()
		case Float32:
			return common.Float32(b)
		}
		return common.Float64(b)
	case KindPascal:
		n := min(int(b[0]), spec.Width-1)
		out := make([]byte, n)
		copy(out, b[1:1+n])
		return out
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func signed(v any) int64 {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	}
	return v.(int64)
}

func unsigned(v any) uint64 {
	switch x := v.(type) {
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint:
		return uint64(x)
	case uintptr:
		return uint64(x)
	}
	return v.(uint64)
}

func cloneValue(v any) any {
	if b, ok := v.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	return v
}
