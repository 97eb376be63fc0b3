package binmap

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Struct binding compiles a Schema from a Go struct type. Fields are laid
// out in struct declaration order. The `binmap` tag overrides the field
// name and/or format code:
//
//	type Frame struct {
//		Temp     uint8   `binmap:"temp"`
//		_        [2]byte `binmap:",2x"`
//		Humidity uint8   `binmap:"humidity"`
//		Pressure float32 `binmap:",e"`
//		Station  string  `binmap:"station,8s"`
//		Debug    bool    `binmap:"-"`
//	}
//
// Unexported fields are skipped, except blank `_` fields which declare
// padding.

type structPlan struct {
	schema *Schema
	fields []boundField
}

type boundField struct {
	idx  int // struct field index
	slot int // schema field index
}

var plans = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*structPlan
}{m: make(map[reflect.Type]*structPlan)}

func planFor(t reflect.Type) (*structPlan, error) {
	plans.mu.RLock()
	if p, ok := plans.m[t]; ok {
		plans.mu.RUnlock()
		return p, nil
	}
	plans.mu.RUnlock()

	plans.mu.Lock()
	defer plans.mu.Unlock()

	// Double-check
	if p, ok := plans.m[t]; ok {
		return p, nil
	}
	p, err := compileStruct(t)
	if err != nil {
		return nil, err
	}
	plans.m[t] = p
	return p, nil
}

func compileStruct(t reflect.Type) (*structPlan, error) {
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	var (
		decl  []Field
		bound []int
	)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("binmap")
		if tag == "-" {
			continue
		}
		fieldName, code, _ := strings.Cut(tag, ",")
		if sf.Name == "_" {
			if code == "" {
				if sf.Type.Kind() != reflect.Array {
					return nil, &SchemaError{Schema: name, Field: "_", Reason: "blank field needs a padding tag"}
				}
				code = strconv.Itoa(sf.Type.Len()) + Pad.String()
			}
			if f, _, _ := parseFormat(code); !f.IsPadding() {
				return nil, &SchemaError{Schema: name, Field: "_", Reason: "blank field must be padding"}
			}
			if fieldName == "" {
				fieldName = "_" + strconv.Itoa(i)
			}
			decl = append(decl, F(fieldName, code))
			bound = append(bound, -1)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if fieldName == "" {
			fieldName = sf.Name
		}
		if code == "" {
			var ok bool
			if code, ok = defaultCode(sf.Type); !ok {
				return nil, &SchemaError{Schema: name, Field: fieldName, Reason: "unsupported Go type " + sf.Type.String()}
			}
		}
		f, _, reason := parseFormat(code)
		if reason != "" {
			return nil, &SchemaError{Schema: name, Field: fieldName, Reason: reason}
		}
		if !compatible(f, sf.Type) {
			return nil, &SchemaError{Schema: name, Field: fieldName, Reason: f.Name() + " format cannot bind Go type " + sf.Type.String()}
		}
		decl = append(decl, F(fieldName, code))
		bound = append(bound, i)
	}
	s, err := Compile(name, decl...)
	if err != nil {
		return nil, err
	}
	p := &structPlan{schema: s}
	for slot, idx := range bound {
		if idx >= 0 && !s.fields[slot].IsPadding() {
			p.fields = append(p.fields, boundField{idx: idx, slot: slot})
		}
	}
	return p, nil
}

func defaultCode(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return Bool.String(), true
	case reflect.Int8:
		return Int8.String(), true
	case reflect.Uint8:
		return Uint8.String(), true
	case reflect.Int16:
		return Int16.String(), true
	case reflect.Uint16:
		return Uint16.String(), true
	case reflect.Int32:
		return Int32.String(), true
	case reflect.Uint32:
		return Uint32.String(), true
	case reflect.Int64:
		return Int64.String(), true
	case reflect.Uint64:
		return Uint64.String(), true
	case reflect.Int:
		return Ssize.String(), true
	case reflect.Uint:
		return Size.String(), true
	case reflect.Uintptr:
		return Pointer.String(), true
	case reflect.Float32:
		return Float32.String(), true
	case reflect.Float64:
		return Float64.String(), true
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return strconv.Itoa(t.Len()) + String.String(), true
		}
	}
	return "", false
}

func compatible(f Format, t reflect.Type) bool {
	k := t.Kind()
	switch f.Kind() {
	case KindBool:
		return k == reflect.Bool
	case KindInt, KindUint:
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return true
		}
	case KindFloat:
		return k == reflect.Float32 || k == reflect.Float64
	case KindChar, KindString, KindPascal:
		return k == reflect.String ||
			((k == reflect.Slice || k == reflect.Array) && t.Elem().Kind() == reflect.Uint8)
	}
	return false
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return rv, nil
}

func structPtrValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStructPtr
	}
	return rv.Elem(), nil
}

// SchemaOf returns the schema compiled from v's struct type. The result is
// cached per type.
func SchemaOf(v any) (*Schema, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	return p.schema, nil
}

// Marshal encodes a struct (or pointer to struct) in its bound layout.
func Marshal(v any) ([]byte, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	slots := p.schema.zeroSlots()
	for _, bf := range p.fields {
		spec := &p.schema.fields[bf.slot]
		nv, err := normalize(spec, fieldInterface(rv.Field(bf.idx)))
		if err != nil {
			return nil, err
		}
		slots[bf.slot] = nv
	}
	return p.schema.encodeSlots(slots), nil
}

// Unmarshal decodes buf into the struct pointed to by v.
func Unmarshal(buf []byte, v any) error {
	rv, err := structPtrValue(v)
	if err != nil {
		return err
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	slots, err := p.schema.decodeSlots(buf)
	if err != nil {
		return err
	}
	for _, bf := range p.fields {
		if err := assign(rv.Field(bf.idx), p.schema.fields[bf.slot].Name, slots[bf.slot]); err != nil {
			return err
		}
	}
	return nil
}

// FromStruct returns a record of kind s holding the values of v's fields,
// matched by bound name. A struct field with no data field of that name in
// s fails with UnknownFieldError.
func (s *Schema) FromStruct(v any) (*Record, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	values := make(Values, len(p.fields))
	for _, bf := range p.fields {
		values[p.schema.fields[bf.slot].Name] = fieldInterface(rv.Field(bf.idx))
	}
	return s.Make(values)
}

// Scan copies the record's values into the struct pointed to by dst,
// matching fields by bound name. Struct fields without a counterpart in the
// record are left untouched.
func (r *Record) Scan(dst any) error {
	rv, err := structPtrValue(dst)
	if err != nil {
		return err
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	for _, bf := range p.fields {
		name := p.schema.fields[bf.slot].Name
		i, ok := r.schema.index[name]
		spec := &r.schema.fields[i]
		if !ok || spec.IsPadding() {
			continue
		}
		fv := rv.Field(bf.idx)
		if !compatible(spec.Format, fv.Type()) {
			return &ValueError{Field: name, Value: r.slots[i], Reason: spec.Format.Name() + " field cannot be stored in Go type " + fv.Type().String()}
		}
		if err := assign(fv, name, r.slots[i]); err != nil {
			return err
		}
	}
	return nil
}

// fieldInterface returns a struct field as a value normalize understands.
// Byte arrays become slices.
func fieldInterface(fv reflect.Value) any {
	if fv.Kind() == reflect.Array {
		b := make([]byte, fv.Len())
		reflect.Copy(reflect.ValueOf(b), fv)
		return b
	}
	switch fv.Kind() {
	case reflect.Slice:
		return fv.Bytes()
	case reflect.String:
		return fv.String()
	}
	return fv.Interface()
}

func assign(fv reflect.Value, name string, v any) error {
	src := reflect.ValueOf(v)
	switch fv.Kind() {
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(fv, name, v)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			u := src.Uint()
			if u > 1<<63-1 {
				return overflow(fv, name, v)
			}
			n = int64(u)
		default:
			return mismatch(fv, name, v)
		}
		if fv.OverflowInt(n) {
			return overflow(fv, name, v)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch {
		case src.CanUint():
			u = src.Uint()
		case src.CanInt():
			n := src.Int()
			if n < 0 {
				return overflow(fv, name, v)
			}
			u = uint64(n)
		default:
			return mismatch(fv, name, v)
		}
		if fv.OverflowUint(u) {
			return overflow(fv, name, v)
		}
		fv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		if !src.CanFloat() {
			return mismatch(fv, name, v)
		}
		fv.SetFloat(src.Float())
	case reflect.String:
		b, ok := v.([]byte)
		if !ok {
			return mismatch(fv, name, v)
		}
		fv.SetString(string(b))
	case reflect.Slice:
		b, ok := v.([]byte)
		if !ok || fv.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch(fv, name, v)
		}
		fv.SetBytes(append([]byte(nil), b...))
	case reflect.Array:
		b, ok := v.([]byte)
		if !ok || fv.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch(fv, name, v)
		}
		if len(b) > fv.Len() {
			return overflow(fv, name, len(b))
		}
		fv.SetZero()
		reflect.Copy(fv, reflect.ValueOf(b))
	default:
		return mismatch(fv, name, v)
	}
	return nil
}

func overflow(fv reflect.Value, name string, v any) error {
	return &ValueRangeError{Field: name, Domain: "value overflows " + fv.Type().String(), Value: v}
}

func mismatch(fv reflect.Value, name string, v any) error {
	return &ValueError{Field: name, Value: v, Reason: "cannot assign to " + fv.Type().String()}
}
