package isa

// Cond is the 3-bit predicate carried by the arithmetic ALU family; it
// selects whether an Add/Sub/Adc/Sbc result is committed to dst and flags.
type Cond uint8

const (
	Always     Cond = 0b000
	IfZero     Cond = 0b001
	IfNotZero  Cond = 0b010
	IfCarry    Cond = 0b011
	IfNotCarry Cond = 0b100
)

// CondFromBits decodes a 3-bit predicate field. Unknown bit patterns decode
// to Always, matching the original's catch-all fallback.
func CondFromBits(val uint16) Cond {
	switch val {
	case 0b001:
		return IfZero
	case 0b010:
		return IfNotZero
	case 0b011:
		return IfCarry
	case 0b100:
		return IfNotCarry
	default:
		return Always
	}
}

func (c Cond) String() string {
	switch c {
	case IfZero:
		return "z"
	case IfNotZero:
		return "nz"
	case IfCarry:
		return "c"
	case IfNotCarry:
		return "nc"
	default:
		return ""
	}
}
