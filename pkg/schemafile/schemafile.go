// Package schemafile loads record kind declarations from YAML.
//
//	records:
//	  - name: Weather
//	    fields:
//	      temp: B
//	      _pad: 2x
//	      wind: B
//	    enums:
//	      wind_direction:
//	        field: wind
//	        labels: [North, East, South, West]
//
// Field order in the mapping is the wire order.
package schemafile

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/binmap"
)

// ErrInvalid marks a malformed schema file.
var ErrInvalid = errors.New("schemafile: invalid declaration")

// File is a parsed schema file.
type File struct {
	kinds  []*Kind
	byName map[string]*Kind
}

type document struct {
	Records []yaml.Node `yaml:"records"`
}

type recordDecl struct {
	Name   string              `yaml:"name"`
	Fields yaml.Node           `yaml:"fields"`
	Enums  map[string]enumDecl `yaml:"enums"`
}

type enumDecl struct {
	Field  string   `yaml:"field"`
	Labels []string `yaml:"labels"`
}

// Load reads and parses the schema file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "schemafile: read")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return f, nil
}

// Parse compiles every record declared in data.
func Parse(data []byte) (*File, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "schemafile: parse")
	}
	f := &File{byName: make(map[string]*Kind, len(doc.Records))}
	for i := range doc.Records {
		node := &doc.Records[i]
		k, err := compileRecord(node)
		if err != nil {
			return nil, err
		}
		if _, dup := f.byName[k.Name()]; dup {
			return nil, invalid(node, "duplicate record %q", k.Name())
		}
		f.byName[k.Name()] = k
		f.kinds = append(f.kinds, k)
	}
	return f, nil
}

// Record returns the kind declared under name.
func (f *File) Record(name string) (*Kind, bool) {
	k, ok := f.byName[name]
	return k, ok
}

// Kinds returns the declared kinds in file order.
func (f *File) Kinds() []*Kind { return append([]*Kind(nil), f.kinds...) }

func compileRecord(node *yaml.Node) (*Kind, error) {
	var decl recordDecl
	if err := node.Decode(&decl); err != nil {
		return nil, errors.Wrapf(err, "schemafile: line %d", node.Line)
	}
	if decl.Name == "" {
		return nil, invalid(node, "record without a name")
	}
	fields, err := fieldsOf(decl.Name, &decl.Fields)
	if err != nil {
		return nil, err
	}
	s, err := binmap.Compile(decl.Name, fields...)
	if err != nil {
		return nil, errors.Wrapf(err, "schemafile: line %d", node.Line)
	}
	k := newKind(s)

	names := make([]string, 0, len(decl.Enums))
	for name := range decl.Enums {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := decl.Enums[name]
		if err := checkEnum(s, name, e); err != nil {
			return nil, invalid(node, "record %s: %v", decl.Name, err)
		}
		if err := k.add(binmap.NewEnum(name, e.Field, e.Labels...)); err != nil {
			return nil, invalid(node, "record %s: %v", decl.Name, err)
		}
	}
	return k, nil
}

func fieldsOf(record string, node *yaml.Node) ([]binmap.Field, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalid(node, "record %s: fields must be a mapping", record)
	}
	fields := make([]binmap.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, invalid(val, "record %s: field %q: type must be a scalar", record, key.Value)
		}
		fields = append(fields, binmap.F(key.Value, val.Value))
	}
	return fields, nil
}

func checkEnum(s *binmap.Schema, name string, e enumDecl) error {
	spec, ok := s.Lookup(e.Field)
	if !ok {
		return errors.Errorf("enum %s: unknown field %q", name, e.Field)
	}
	switch spec.Format.Kind() {
	case binmap.KindInt, binmap.KindUint:
	default:
		return errors.Errorf("enum %s: field %q is not an integer field", name, e.Field)
	}
	if len(e.Labels) == 0 {
		return errors.Errorf("enum %s: no labels", name)
	}
	seen := make(map[string]bool, len(e.Labels))
	for _, l := range e.Labels {
		if seen[l] {
			return errors.Errorf("enum %s: duplicate label %q", name, l)
		}
		seen[l] = true
	}
	return nil
}

func invalid(node *yaml.Node, format string, args ...any) error {
	return errors.Wrapf(ErrInvalid, "line %d: "+format, append([]any{node.Line}, args...)...)
}
