package binmap

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/rawbytedev/binmap/internal/common"
	"github.com/x448/float16"
)

// Format is a single-character type code describing how one field is laid
// out on the wire.
type Format byte

const (
	Pad     Format = 'x'
	Char    Format = 'c'
	Int8    Format = 'b'
	Uint8   Format = 'B'
	Bool    Format = '?'
	Int16   Format = 'h'
	Uint16  Format = 'H'
	Int32   Format = 'i'
	Uint32  Format = 'I'
	Long    Format = 'l'
	ULong   Format = 'L'
	Int64   Format = 'q'
	Uint64  Format = 'Q'
	Ssize   Format = 'n'
	Size    Format = 'N'
	Pointer Format = 'P'
	Half    Format = 'e'
	Float32 Format = 'f'
	Float64 Format = 'd'
	String  Format = 's'
	Pascal  Format = 'p'
)

// Kind groups formats by the family of values they hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPad
	KindBool
	KindInt
	KindUint
	KindFloat
	KindChar
	KindString
	KindPascal
)

type formatInfo struct {
	name    string
	kind    Kind
	width   int // per unit; counted formats multiply by the repeat count
	counted bool
}

var formats = map[Format]formatInfo{
	Pad:     {"pad byte", KindPad, 1, true},
	Char:    {"char", KindChar, 1, false},
	Int8:    {"byte", KindInt, 1, false},
	Uint8:   {"ubyte", KindUint, 1, false},
	Bool:    {"bool", KindBool, 1, false},
	Int16:   {"short", KindInt, 2, false},
	Uint16:  {"ushort", KindUint, 2, false},
	Int32:   {"int", KindInt, 4, false},
	Uint32:  {"uint", KindUint, 4, false},
	Long:    {"long", KindInt, 4, false},
	ULong:   {"ulong", KindUint, 4, false},
	Int64:   {"long long", KindInt, 8, false},
	Uint64:  {"unsigned long long", KindUint, 8, false},
	Ssize:   {"ssize_t", KindInt, strconv.IntSize / 8, false},
	Size:    {"size_t", KindUint, strconv.IntSize / 8, false},
	Pointer: {"pointer", KindUint, int(unsafe.Sizeof(uintptr(0))), false},
	Half:    {"half", KindFloat, 2, false},
	Float32: {"float", KindFloat, 4, false},
	Float64: {"double", KindFloat, 8, false},
	String:  {"char[]", KindString, 1, true},
	Pascal:  {"pascal string", KindPascal, 1, true},
}

func (f Format) String() string { return string(rune(f)) }

// Name returns the conventional C-ish name of the format.
func (f Format) Name() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return "unknown"
}

// Kind reports the value family of f, or KindInvalid for unknown codes.
func (f Format) Kind() Kind { return formats[f].kind }

// Valid reports whether f is a recognized code.
func (f Format) Valid() bool {
	_, ok := formats[f]
	return ok
}

// Counted reports whether f accepts a repeat count other than 1.
func (f Format) Counted() bool { return formats[f].counted }

// IsPadding reports whether fields of this format are hidden padding.
func (f Format) IsPadding() bool { return f == Pad }

// Size returns the number of bytes a field of this format occupies with the
// given repeat count.
func (f Format) Size(count int) int {
	info := formats[f]
	if info.counted {
		return info.width * count
	}
	return info.width
}

// Zero returns the zero value a field of this format holds before assignment.
func (f Format) Zero(count int) any {
	switch f {
	case Pad:
		return nil
	case Char:
		return []byte{0}
	case Bool:
		return false
	case String:
		return make([]byte, count)
	case Pascal:
		return []byte{}
	case Half, Float32:
		return float32(0)
	case Float64:
		return float64(0)
	}
	return integerOf(f, 0, 0)
}

// ParseFormat splits a type spec such as "B", "10s" or "3x" into its code
// and repeat count.
func ParseFormat(spec string) (Format, int, error) {
	f, count, reason := parseFormat(spec)
	if reason != "" {
		return 0, 0, fmt.Errorf("%w: type %q: %s", ErrSchema, spec, reason)
	}
	return f, count, nil
}

func parseFormat(spec string) (Format, int, string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, "empty type"
	}
	f := Format(spec[len(spec)-1])
	info, ok := formats[f]
	if !ok {
		return 0, 0, fmt.Sprintf("unrecognized format code %q", f.String())
	}
	count := 1
	if digits := spec[:len(spec)-1]; digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, 0, fmt.Sprintf("malformed repeat count %q", digits)
		}
		if n <= 0 {
			return 0, 0, fmt.Sprintf("repeat count must be positive, got %d", n)
		}
		if !info.counted && n != 1 {
			return 0, 0, fmt.Sprintf("%s format does not take a repeat count", info.name)
		}
		count = n
	}
	return f, count, ""
}

// normalize validates v against the field's domain and returns the
// canonical stored value: the one decoding its own encoding would produce.
func normalize(spec *FieldSpec, v any) (any, error) {
	info := formats[spec.Format]
	switch info.kind {
	case KindPad:
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: "padding holds no value"}
	case KindBool:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Bool {
			return nil, &ValueError{Field: spec.Name, Value: v, Reason: "bool format requires a bool"}
		}
		return rv.Bool(), nil
	case KindInt, KindUint:
		return normalizeInteger(spec, info, v)
	case KindFloat:
		return normalizeFloat(spec, v)
	case KindChar, KindString, KindPascal:
		return normalizeBytes(spec, info, v)
	}
	return nil, &ValueError{Field: spec.Name, Value: v, Reason: "unsupported format"}
}

func normalizeInteger(spec *FieldSpec, info formatInfo, v any) (any, error) {
	rv := reflect.ValueOf(v)
	var (
		n        int64
		u        uint64
		unsigned bool
	)
	switch {
	case !rv.IsValid():
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: "required argument is not an integer"}
	case rv.CanInt():
		n = rv.Int()
	case rv.CanUint():
		u, unsigned = rv.Uint(), true
	default:
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: "required argument is not an integer"}
	}
	width := info.width
	if info.kind == KindInt {
		if unsigned {
			if u > uint64(common.MaxSigned(width)) {
				return nil, rangeError(spec, info, v)
			}
			n = int64(u)
		} else if !common.FitsSigned(n, width) {
			return nil, rangeError(spec, info, v)
		}
		return integerOf(spec.Format, n, 0), nil
	}
	if !unsigned {
		if n < 0 {
			return nil, rangeError(spec, info, v)
		}
		u = uint64(n)
	}
	if !common.FitsUnsigned(u, width) {
		return nil, rangeError(spec, info, v)
	}
	return integerOf(spec.Format, 0, u), nil
}

func rangeError(spec *FieldSpec, info formatInfo, v any) error {
	var domain string
	if info.kind == KindInt {
		domain = fmt.Sprintf("%s format requires %d <= number <= %d",
			info.name, common.MinSigned(info.width), common.MaxSigned(info.width))
	} else {
		domain = fmt.Sprintf("%s format requires 0 <= number <= %d",
			info.name, common.MaxUnsigned(info.width))
	}
	return &ValueRangeError{Field: spec.Name, Format: spec.Format, Domain: domain, Value: v}
}

// integerOf converts an in-range integer to the Go type of format f.
func integerOf(f Format, n int64, u uint64) any {
	switch f {
	case Int8:
		return int8(n)
	case Int16:
		return int16(n)
	case Int32, Long:
		return int32(n)
	case Int64:
		return n
	case Ssize:
		return int(n)
	case Uint8:
		return uint8(u)
	case Uint16:
		return uint16(u)
	case Uint32, ULong:
		return uint32(u)
	case Uint64:
		return u
	case Size:
		return uint(u)
	case Pointer:
		return uintptr(u)
	}
	return nil
}

func normalizeFloat(spec *FieldSpec, v any) (any, error) {
	rv := reflect.ValueOf(v)
	var x float64
	switch {
	case !rv.IsValid():
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: "required argument is not a float"}
	case rv.CanFloat():
		x = rv.Float()
	case rv.CanInt():
		x = float64(rv.Int())
	case rv.CanUint():
		x = float64(rv.Uint())
	default:
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: "required argument is not a float"}
	}
	finite := !math.IsInf(x, 0) && !math.IsNaN(x)
	switch spec.Format {
	case Float32:
		if finite && math.IsInf(float64(float32(x)), 0) {
			return nil, floatRangeError(spec, v)
		}
		return float32(x), nil
	case Half:
		h := float16.Fromfloat32(float32(x))
		if finite && h.IsInf(0) {
			return nil, floatRangeError(spec, v)
		}
		return h.Float32(), nil
	}
	return x, nil
}

func floatRangeError(spec *FieldSpec, v any) error {
	return &ValueRangeError{
		Field:  spec.Name,
		Format: spec.Format,
		Domain: fmt.Sprintf("float too large to pack with %s format", spec.Format),
		Value:  v,
	}
}

func normalizeBytes(spec *FieldSpec, info formatInfo, v any) (any, error) {
	var b []byte
	switch x := v.(type) {
	case []byte:
		b = x
	case string:
		b = []byte(x)
	default:
		return nil, &ValueError{Field: spec.Name, Value: v, Reason: info.name + " format requires a bytes object"}
	}
	switch info.kind {
	case KindChar:
		if len(b) != 1 {
			return nil, &ValueError{Field: spec.Name, Value: v, Reason: "char format requires a bytes object of length 1"}
		}
		return []byte{b[0]}, nil
	case KindString:
		if len(b) > spec.Count {
			return nil, &ValueRangeError{
				Field:  spec.Name,
				Format: spec.Format,
				Domain: fmt.Sprintf("%ds format requires at most %d bytes", spec.Count, spec.Count),
				Value:  len(b),
			}
		}
		out := make([]byte, spec.Count)
		copy(out, b)
		return out, nil
	}
	n := min(len(b), spec.Count-1, 255)
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
