package rom

import "testing"

func TestDumpRoundTrip(t *testing.T) {
	words := []uint16{0x1234, 0xabcd, 0x0001}
	image := Dump(words, 0x10)

	for i, w := range words {
		addr := 0x10 + i
		lo := image[addr*2]
		hi := image[addr*2+1]
		got := uint16(lo) | uint16(hi)<<8
		if got != w {
			t.Errorf("word %d: got %#04x, want %#04x", i, got, w)
		}
	}
}

func TestDumpTruncatesPastTopOfMemory(t *testing.T) {
	words := make([]uint16, 4)
	image := Dump(words, 0xfffe)
	if len(image) != byteCount {
		t.Fatalf("image length = %d, want %d", len(image), byteCount)
	}
}
