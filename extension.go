package binmap

import "fmt"

// Accessor is a computed attribute layered on top of a record's declared
// fields. It has no footprint in the schema and reads and writes only
// through Record.Get and Record.Set, so validation and buffer sync apply.
type Accessor interface {
	Name() string
	Get(r *Record) (any, error)
	Set(r *Record, v any) error
}

// Computed is an Accessor backed by plain functions. A nil SetFunc makes
// the accessor read-only.
type Computed struct {
	AccessorName string
	GetFunc      func(r *Record) (any, error)
	SetFunc      func(r *Record, v any) error
}

func (c *Computed) Name() string { return c.AccessorName }

func (c *Computed) Get(r *Record) (any, error) { return c.GetFunc(r) }

func (c *Computed) Set(r *Record, v any) error {
	if c.SetFunc == nil {
		return &ValueError{Field: c.AccessorName, Value: v, Reason: "attribute is read-only"}
	}
	return c.SetFunc(r, v)
}

// Enum maps the small integer codes stored in one field to symbolic labels.
// Code i is labels[i].
type Enum struct {
	name   string
	field  string
	labels []string
	codes  map[string]int
}

// NewEnum returns an accessor named name over the integer field field.
func NewEnum(name, field string, labels ...string) *Enum {
	e := &Enum{
		name:   name,
		field:  field,
		labels: append([]string(nil), labels...),
		codes:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		e.codes[l] = i
	}
	return e
}

func (e *Enum) Name() string { return e.name }

// Field returns the name of the underlying stored field.
func (e *Enum) Field() string { return e.field }

// Labels returns the label table in code order.
func (e *Enum) Labels() []string { return append([]string(nil), e.labels...) }

// Label returns the label of the code currently stored in the field.
func (e *Enum) Label(r *Record) (string, error) {
	v, err := r.Get(e.field)
	if err != nil {
		return "", err
	}
	code, ok := enumCode(v)
	if !ok || code < 0 || code >= int64(len(e.labels)) {
		return "", &ValueError{Field: e.name, Value: v, Reason: fmt.Sprintf("no label for code in %s", e.field)}
	}
	return e.labels[code], nil
}

// SetLabel stores the code of label in the field. Unknown labels are
// rejected and leave the record unchanged.
func (e *Enum) SetLabel(r *Record, label string) error {
	code, ok := e.codes[label]
	if !ok {
		return &ValueError{Field: e.name, Value: label, Reason: fmt.Sprintf("expected one of %v", e.labels)}
	}
	return r.Set(e.field, code)
}

func (e *Enum) Get(r *Record) (any, error) { return e.Label(r) }

func (e *Enum) Set(r *Record, v any) error {
	label, ok := v.(string)
	if !ok {
		return &ValueError{Field: e.name, Value: v, Reason: "label must be a string"}
	}
	return e.SetLabel(r, label)
}

func enumCode(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16, int32, int64, int:
		return signed(x), true
	case uint8:
		return int64(x), true
	case uint16, uint32, uint64, uint, uintptr:
		u := unsigned(x)
		if u > 1<<62 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}
