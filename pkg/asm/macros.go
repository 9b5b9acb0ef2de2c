package asm

import (
	"fmt"
	"math/bits"

	"github.com/nathsou/cpu16/pkg/isa"
)

// MuliWithTmp multiplies src by the compile-time constant n into dst,
// using tmp as scratch. Powers of two collapse to a single shift; every
// other constant is built as a sum of shifted copies of src, one term per
// set bit of n (the textbook shift-and-add multiplier).
func (b *Builder) MuliWithTmp(dst, src isa.Reg, n uint16, tmp isa.Reg) *Builder {
	if dst == src {
		panic("asm: muli: dst == src")
	}

	if n == 0 {
		return b.Mov(dst, isa.Z)
	}

	if bits.OnesCount16(n) == 1 {
		log2 := bits.TrailingZeros16(n)
		b.Set(tmp, uint16(log2))
		return b.Shl(dst, src, tmp)
	}

	b.Set(dst, 0)

	for bit := 15; bit >= 0; bit-- {
		if (n>>uint(bit))&1 != 1 {
			continue
		}
		if bit == 0 {
			b.Add(dst, dst, src)
		} else {
			b.Set(tmp, uint16(bit))
			b.Shl(tmp, src, tmp)
			b.Add(dst, dst, tmp)
		}
	}

	return b
}

// Muli multiplies src by the constant n into dst, using TMP as scratch.
func (b *Builder) Muli(dst, src isa.Reg, n uint16) *Builder {
	return b.MuliWithTmp(dst, src, n, isa.TMP)
}

// Add32 adds the 32-bit pair (hi2:lo2) into (hi1:lo1) in place, chaining
// the carry from the low-word add into the high-word add.
func (b *Builder) Add32(hi1, lo1, hi2, lo2 isa.Reg) *Builder {
	b.Add(lo1, lo1, lo2)
	return b.Adc(hi1, hi1, hi2)
}

// Sub32 subtracts the 32-bit pair (hi2:lo2) from (hi1:lo1) in place,
// chaining the borrow from the low-word subtract into the high-word
// subtract.
func (b *Builder) Sub32(hi1, lo1, hi2, lo2 isa.Reg) *Builder {
	b.Sub(lo1, lo1, lo2)
	return b.Sbc(hi1, hi1, hi2)
}

// InlineDiv computes dst = a/b, a = a%b via repeated subtraction, using
// label as a unique prefix for its internal loop labels (callers must
// pass a distinct label per inline_div call site within the same
// Builder). Preserves a known quirk in its source algorithm: when a < b
// on entry, dst ends up 1 instead of 0, because the final Inc after the
// loop runs unconditionally.
func (b *Builder) InlineDiv(dst, a, divisor isa.Reg, label string) *Builder {
	endLabel := fmt.Sprintf("__%s_end", label)
	loopLabel := fmt.Sprintf("__%s_loop", label)

	b.Set(dst, 0)
	b.Cmp(a, divisor)
	b.JmpIfNeg(endLabel)
	b.Label(loopLabel)
	b.Sub(a, a, divisor)
	b.Cmp(a, divisor)
	b.JmpIfNeg(endLabel)
	b.Inc(dst)
	b.Jmp(loopLabel)
	b.Label(endLabel)
	return b.Inc(dst)
}
