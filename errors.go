package binmap

import (
	"errors"
	"fmt"
)

var (
	ErrSchema        = errors.New("binmap: invalid schema")
	ErrUnknownField  = errors.New("binmap: unknown field")
	ErrPaddingAccess = errors.New("binmap: padding field is not readable")
	ErrValueRange    = errors.New("binmap: value out of range")
	ErrValue         = errors.New("binmap: invalid value")
	ErrBufferSize    = errors.New("binmap: buffer size mismatch")
	ErrNotStruct     = errors.New("binmap: expected struct")
	ErrNotStructPtr  = errors.New("binmap: expected pointer to struct")
)

// SchemaError reports a bad record declaration.
type SchemaError struct {
	Schema string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("binmap: schema %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("binmap: schema %s: field %q: %s", e.Schema, e.Field, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// UnknownFieldError reports a name that is not a data field of the schema.
type UnknownFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("binmap: %s got an unexpected keyword argument '%s'", e.Schema, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// PaddingAccessError reports a read or write of a padding field.
type PaddingAccessError struct {
	Schema string
	Field  string
}

func (e *PaddingAccessError) Error() string {
	return fmt.Sprintf("binmap: %s.%s: padding field is not readable", e.Schema, e.Field)
}

func (e *PaddingAccessError) Is(target error) bool { return target == ErrPaddingAccess }

// ValueRangeError reports a value outside the domain of its field's format.
type ValueRangeError struct {
	Field  string
	Format Format
	Domain string
	Value  any
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("binmap: field %q: %s, got %v", e.Field, e.Domain, e.Value)
}

func (e *ValueRangeError) Is(target error) bool { return target == ErrValueRange }

// ValueError reports a value of the wrong type for a field, or one rejected
// by a derived accessor.
type ValueError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("binmap: field %q: %s: %#v", e.Field, e.Reason, e.Value)
}

func (e *ValueError) Is(target error) bool { return target == ErrValue }

// BufferSizeError reports a buffer whose length differs from the schema size.
type BufferSizeError struct {
	Schema string
	Want   int
	Got    int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("binmap: %s requires a buffer of %d bytes, got %d", e.Schema, e.Want, e.Got)
}

func (e *BufferSizeError) Is(target error) bool { return target == ErrBufferSize }
