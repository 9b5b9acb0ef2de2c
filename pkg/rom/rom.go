// Package rom builds the raw memory image a physical cpu16 ROM would be
// flashed with: a flat little-endian byte array, words placed starting
// at a chosen load address. This sits outside the three core modules
// (ISA, assembler, interpreter); it exists purely to hand an assembled
// program to something that isn't this Go process.
package rom

const (
	wordCount = 0x10000
	byteCount = wordCount * 2
)

// Dump places words into a 64Ki-word ROM image starting at startPC and
// serializes it little-endian into a 131072-byte array, the layout a
// synthesizable ROM module or an emulator loader would expect.
func Dump(words []uint16, startPC uint16) [byteCount]byte {
	var image [byteCount]byte
	for i, w := range words {
		addr := int(startPC) + i
		if addr >= wordCount {
			break
		}
		image[addr*2] = byte(w)
		image[addr*2+1] = byte(w >> 8)
	}
	return image
}
