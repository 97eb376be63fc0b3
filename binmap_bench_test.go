package binmap

import (
	"testing"
)

func BenchmarkRecordSet(b *testing.B) {
	r := sensorSchema.New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = r.Set("seq", uint32(i))
	}
}

func BenchmarkEncode(b *testing.B) {
	values := Values{"id": 1, "seq": 2, "altitude": 3.5, "station": "ALPHA"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(sensorSchema, values)
	}
}

func BenchmarkDecode(b *testing.B) {
	buf := sensorSchema.New().Bytes()
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		_, _ = Decode(sensorSchema, buf)
	}
}

func BenchmarkSetBytes(b *testing.B) {
	r := sensorSchema.New()
	buf := r.Bytes()
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		_ = r.SetBytes(buf)
	}
}

func BenchmarkMarshal(b *testing.B) {
	v := boundFrame{Temp: 1, Humidity: 2, Pressure: 3, Station: "ab", Count: 4}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Marshal(v)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	buf, _ := Marshal(boundFrame{Temp: 1, Humidity: 2})
	var out boundFrame
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Unmarshal(buf, &out)
	}
}
