package binmap_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/rawbytedev/binmap"
)

func ExampleCompile() {
	s, err := binmap.Compile("Climate",
		binmap.F("temp", "B"),
		binmap.F("_pad", "2x"),
		binmap.F("humidity", "B"),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.Layout(), s.Size())

	r, err := s.Make(binmap.Values{"temp": 10, "humidity": 60})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", r.Bytes())

	_, err = r.Get("_pad")
	fmt.Println(errors.Is(err, binmap.ErrPaddingAccess))
	// Output:
	// =B2xB 4
	// 0a 00 00 3c
	// true
}

func ExampleSchema_FromBytes() {
	s := binmap.MustCompile("TempHum", binmap.F("temp", "B"), binmap.F("humidity", "B"))
	r, err := s.FromBytes([]byte{0x0A, 0x46})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(r)
	// Output:
	// TempHum(temp=10, humidity=70)
}

func ExampleRecord_Set() {
	s := binmap.MustCompile("Temp", binmap.F("temp", "B"))
	r := s.New()
	fmt.Printf("%x\n", r.Bytes())
	if err := r.Set("temp", 10); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", r.Bytes())
	fmt.Println(r.Set("temp", 256))
	// Output:
	// 00
	// 0a
	// binmap: field "temp": ubyte format requires 0 <= number <= 255, got 256
}

func ExampleEnum() {
	s := binmap.MustCompile("Weather", binmap.F("temp", "B"), binmap.F("wind", "B"))
	dir := binmap.NewEnum("winddirection", "wind", "North", "East", "South", "West")
	r := s.New()
	if err := dir.SetLabel(r, "South"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(r)
	fmt.Println(errors.Is(dir.SetLabel(r, "Northwest"), binmap.ErrValue))
	// Output:
	// Weather(temp=0, wind=2)
	// true
}
