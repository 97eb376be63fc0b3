package common

import (
	"encoding/binary"
	"math"
)

// Order is the byte order used for every multi-byte field on the wire.
var Order = binary.NativeEndian

// FitsUnsigned reports whether x fits in width bytes.
func FitsUnsigned(x uint64, width int) bool {
	if width >= 8 {
		return true
	}
	return x <= MaxUnsigned(width)
}

// FitsSigned reports whether x fits in width bytes as two's complement.
func FitsSigned(x int64, width int) bool {
	if width >= 8 {
		return true
	}
	return x >= MinSigned(width) && x <= MaxSigned(width)
}

// MaxUnsigned returns the largest unsigned value representable in width bytes.
func MaxUnsigned(width int) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return 1<<(uint(width)*8) - 1
}

// MaxSigned returns the largest signed value representable in width bytes.
func MaxSigned(width int) int64 {
	if width >= 8 {
		return math.MaxInt64
	}
	return 1<<(uint(width)*8-1) - 1
}

// MinSigned returns the smallest signed value representable in width bytes.
func MinSigned(width int) int64 {
	if width >= 8 {
		return math.MinInt64
	}
	return -1 << (uint(width)*8 - 1)
}

// PutUint writes the low width bytes of x into b.
func PutUint(b []byte, width int, x uint64) {
	switch width {
	case 1:
		b[0] = byte(x)
	case 2:
		Order.PutUint16(b, uint16(x))
	case 4:
		Order.PutUint32(b, uint32(x))
	case 8:
		Order.PutUint64(b, x)
	default:
		panic("common: unsupported integer width")
	}
}

// Uint reads an unsigned integer of width bytes from b.
func Uint(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(Order.Uint16(b))
	case 4:
		return uint64(Order.Uint32(b))
	case 8:
		return Order.Uint64(b)
	default:
		panic("common: unsupported integer width")
	}
}

// Int reads a sign-extended integer of width bytes from b.
func Int(b []byte, width int) int64 {
	switch width {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(Order.Uint16(b)))
	case 4:
		return int64(int32(Order.Uint32(b)))
	case 8:
		return int64(Order.Uint64(b))
	default:
		panic("common: unsupported integer width")
	}
}

// PutFloat32 writes f as IEEE 754 binary32.
func PutFloat32(b []byte, f float32) {
	Order.PutUint32(b, math.Float32bits(f))
}

// Float32 reads an IEEE 754 binary32 value.
func Float32(b []byte) float32 {
	return math.Float32frombits(Order.Uint32(b))
}

// PutFloat64 writes f as IEEE 754 binary64.
func PutFloat64(b []byte, f float64) {
	Order.PutUint64(b, math.Float64bits(f))
}

// Float64 reads an IEEE 754 binary64 value.
func Float64(b []byte) float64 {
	return math.Float64frombits(Order.Uint64(b))
}
