package binmap

import (
	"strconv"
	"strings"
)

// Field is one entry of a record declaration: a name and a type spec such
// as "B", "10s" or "2x".
type Field struct {
	Name string
	Type string
}

// F is shorthand for Field{Name: name, Type: typ}.
func F(name, typ string) Field { return Field{Name: name, Type: typ} }

// FieldSpec is a compiled field.
type FieldSpec struct {
	Name   string
	Format Format
	Count  int
	Width  int
	Offset int
	Index  int // declaration order
}

// IsPadding reports whether the field is hidden padding.
func (f FieldSpec) IsPadding() bool { return f.Format.IsPadding() }

// Type returns the field's type spec in declaration syntax.
func (f FieldSpec) Type() string {
	if f.Count == 1 {
		return f.Format.String()
	}
	return strconv.Itoa(f.Count) + f.Format.String()
}

// Schema is the compiled layout of one record kind. It is immutable once
// built and is shared by pointer between all records of the kind.
type Schema struct {
	name   string
	fields []FieldSpec
	index  map[string]int
	data   []string
	size   int
	layout string
}

// Base is the schema of the record kind with no declared fields.
var Base = MustCompile("Binmap")

// Compile builds a Schema from an ordered field declaration.
func Compile(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]FieldSpec, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	var layout strings.Builder
	layout.WriteByte('=')
	for i, fd := range fields {
		if fd.Name == "" {
			return nil, &SchemaError{Schema: name, Reason: "field " + strconv.Itoa(i) + " has no name"}
		}
		if _, dup := s.index[fd.Name]; dup {
			return nil, &SchemaError{Schema: name, Field: fd.Name, Reason: "duplicate field name"}
		}
		f, count, reason := parseFormat(fd.Type)
		if reason != "" {
			return nil, &SchemaError{Schema: name, Field: fd.Name, Reason: reason}
		}
		spec := FieldSpec{
			Name:   fd.Name,
			Format: f,
			Count:  count,
			Width:  f.Size(count),
			Offset: s.size,
			Index:  i,
		}
		s.fields = append(s.fields, spec)
		s.index[fd.Name] = i
		if !spec.IsPadding() {
			s.data = append(s.data, fd.Name)
		}
		s.size += spec.Width
		layout.WriteString(spec.Type())
	}
	s.layout = layout.String()
	return s, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level record kinds.
func MustCompile(name string, fields ...Field) *Schema {
	s, err := Compile(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record kind name.
func (s *Schema) Name() string { return s.name }

// Size returns the exact byte length of every buffer of this schema.
func (s *Schema) Size() int { return s.size }

// Layout returns the combined format descriptor, e.g. "=B2xB".
func (s *Schema) Layout() string { return s.layout }

// NumFields returns the number of declared fields, padding included.
func (s *Schema) NumFields() int { return len(s.fields) }

// Fields returns a copy of the declared fields in wire order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// DataFields returns the names of the non-padding fields in wire order.
func (s *Schema) DataFields() []string {
	out := make([]string, len(s.data))
	copy(out, s.data)
	return out
}

// Lookup returns the field declared under name.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// dataField resolves name to a readable field, rejecting padding and
// unknown names.
func (s *Schema) dataField(name string) (*FieldSpec, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, &UnknownFieldError{Schema: s.name, Field: name}
	}
	spec := &s.fields[i]
	if spec.IsPadding() {
		return nil, &PaddingAccessError{Schema: s.name, Field: name}
	}
	return spec, nil
}

func (s *Schema) String() string { return s.name + "(" + s.layout + ")" }
