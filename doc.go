// Package binmap declares fixed binary record layouts and maps them to
// named, validated field values.
//
// A record kind is compiled from an ordered list of fields, each with a
// struct-module style type code:
//
//	var Climate = binmap.MustCompile("Climate",
//		binmap.F("temp", "B"),
//		binmap.F("_pad", "2x"),
//		binmap.F("humidity", "B"),
//	)
//
// Offsets follow declaration order with no alignment, in native byte order.
// Supported codes are
//
//	x pad byte    c char        b/B int8/uint8   ? bool
//	h/H int16     i/I int32     l/L int32        q/Q int64
//	n/N int/uint  P uintptr     e half float     f float32
//	d float64     s fixed bytes p pascal string
//
// Only x, s and p take a repeat count ("2x", "10s", "8p").
//
// A Record holds decoded values and the matching byte buffer and keeps the
// two in sync: Set validates against the field's domain, stores the value
// and re-encodes. Padding fields occupy bytes but cannot be read or set.
//
// Derived attributes such as enums are layered on top of stored fields with
// the Accessor interface. They add no bytes to the layout.
//
// Struct types can also be bound directly with Marshal, Unmarshal and
// SchemaOf, using `binmap:"name,code"` tags.
package binmap
