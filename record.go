package binmap

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Record is one value of a record kind. Its decoded field values and its
// byte buffer are kept in sync under every mutation.
//
// A Record is not safe for concurrent mutation.
type Record struct {
	schema *Schema
	slots  []any
	buf    []byte
}

// New returns a record of kind s with every field at its zero value.
func (s *Schema) New() *Record {
	slots := s.zeroSlots()
	return &Record{schema: s, slots: slots, buf: s.encodeSlots(slots)}
}

// Make returns a record of kind s initialised from keyword values.
func (s *Schema) Make(values Values) (*Record, error) {
	slots, err := s.slotsFrom(values)
	if err != nil {
		return nil, err
	}
	return &Record{schema: s, slots: slots, buf: s.encodeSlots(slots)}, nil
}

// FromBytes returns a record of kind s decoded from buf.
func (s *Schema) FromBytes(buf []byte) (*Record, error) {
	slots, err := s.decodeSlots(buf)
	if err != nil {
		return nil, err
	}
	return &Record{schema: s, slots: slots, buf: s.encodeSlots(slots)}, nil
}

// Schema returns the record kind.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the current value of a data field.
func (r *Record) Get(name string) (any, error) {
	spec, err := r.schema.dataField(name)
	if err != nil {
		return nil, err
	}
	return cloneValue(r.slots[spec.Index]), nil
}

// Set validates v against the field's domain, stores it and re-encodes the
// buffer. On error the record is left unchanged.
func (r *Record) Set(name string, v any) error {
	spec, err := r.schema.dataField(name)
	if err != nil {
		return err
	}
	nv, err := normalize(spec, v)
	if err != nil {
		return err
	}
	r.slots[spec.Index] = nv
	r.buf = r.schema.encodeSlots(r.slots)
	return nil
}

// Update applies several assignments atomically: either all of them are
// stored or none is.
func (r *Record) Update(values Values) error {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	next := make([]any, len(r.slots))
	copy(next, r.slots)
	for _, name := range names {
		spec, err := r.schema.dataField(name)
		if err != nil {
			return err
		}
		nv, err := normalize(spec, values[name])
		if err != nil {
			return err
		}
		next[spec.Index] = nv
	}
	r.slots = next
	r.buf = r.schema.encodeSlots(r.slots)
	return nil
}

// Bytes returns a copy of the record's binary form.
func (r *Record) Bytes() []byte {
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out
}

// SetBytes replaces every field value by decoding buf. On error the record
// is left unchanged.
func (r *Record) SetBytes(buf []byte) error {
	slots, err := r.schema.decodeSlots(buf)
	if err != nil {
		return err
	}
	r.slots = slots
	r.buf = r.schema.encodeSlots(slots)
	return nil
}

// Values returns a snapshot of the data field values.
func (r *Record) Values() Values { return r.schema.valuesOf(r.slots) }

// Clone returns an independent copy of r of the same kind.
func (r *Record) Clone() *Record {
	slots := make([]any, len(r.slots))
	for i, v := range r.slots {
		slots[i] = cloneValue(v)
	}
	return &Record{schema: r.schema, slots: slots, buf: r.Bytes()}
}

// Equal reports whether o is of the same kind as r and holds equal values.
// Records of different kinds are never equal.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.schema != o.schema {
		return false
	}
	for i := range r.slots {
		if !valueEqual(r.slots[i], o.slots[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	return a == b
}

// String renders the record as Kind(field=value, ...).
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.schema.name)
	sb.WriteByte('(')
	first := true
	for i := range r.schema.fields {
		spec := &r.schema.fields[i]
		if spec.IsPadding() {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(spec.Name)
		sb.WriteByte('=')
		if b, ok := r.slots[i].([]byte); ok {
			fmt.Fprintf(&sb, "%q", b)
		} else {
			fmt.Fprint(&sb, r.slots[i])
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// Value returns a data field converted to T.
func Value[T any](r *Record, name string) (T, error) {
	var zero T
	v, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &ValueError{Field: name, Value: v, Reason: fmt.Sprintf("field holds %T, not %T", v, zero)}
	}
	return t, nil
}

// Int returns a signed integer field widened to int64.
func (r *Record) Int(name string) (int64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int8:
		return int64(x), nil
	case int16, int32, int64, int:
		return signed(x), nil
	}
	return 0, &ValueError{Field: name, Value: v, Reason: "not a signed integer field"}
}

// Uint returns an unsigned integer field widened to uint64.
func (r *Record) Uint(name string) (uint64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case uint8:
		return uint64(x), nil
	case uint16, uint32, uint64, uint, uintptr:
		return unsigned(x), nil
	}
	return 0, &ValueError{Field: name, Value: v, Reason: "not an unsigned integer field"}
}

// Float returns a floating point field widened to float64.
func (r *Record) Float(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, &ValueError{Field: name, Value: v, Reason: "not a float field"}
}

// Bool returns a bool field.
func (r *Record) Bool(name string) (bool, error) {
	return Value[bool](r, name)
}

// ByteString returns a copy of a char, char[] or pascal string field.
func (r *Record) ByteString(name string) ([]byte, error) {
	return Value[[]byte](r, name)
}
