package isa

import "fmt"

// CtrlOp is the 3-bit selector carried by a Ctl instruction.
type CtrlOp uint8

const (
	Halt CtrlOp = iota
	Setz
	Clrz
	Setc
	Clrc
	restore // reserved, value 5: never emitted, fatal to decode
)

var ctrlOpNames = [...]string{"halt", "setz", "clrz", "setc", "clrc", "restore"}

func (op CtrlOp) String() string {
	if int(op) >= len(ctrlOpNames) {
		return fmt.Sprintf("ctrlop%d", uint8(op))
	}
	return ctrlOpNames[op]
}

// CtrlOpFromBits decodes a 3-bit control selector. The reserved Restore
// slot (5) and any value above it are fatal: they are never emitted by the
// assembler, so encountering one in ROM means a corrupt or hand-crafted
// image.
func CtrlOpFromBits(val uint16) CtrlOp {
	if val > uint16(Clrc) {
		panic(fmt.Sprintf("isa: invalid or reserved control op %#x", val))
	}
	return CtrlOp(val)
}
