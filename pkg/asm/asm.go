// Package asm is the cpu16 assembler: a fluent builder that emits words
// one instruction at a time, tracks a label table, and patches
// PC-relative forward jumps once every label has been seen.
package asm

import (
	"fmt"

	"github.com/nathsou/cpu16/pkg/isa"
)

type pendingJump struct {
	label   string
	instPos int
}

// Builder accumulates instruction words via its chained emitter methods
// and resolves labels when Assemble is called. A Builder is not safe for
// concurrent use.
type Builder struct {
	out     []uint16
	labels  map[string]int
	pending []pendingJump
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{labels: map[string]int{}}
}

func (b *Builder) push(i isa.Inst) *Builder {
	b.out = append(b.out, isa.Encode(i))
	return b
}

// Label binds name to the current output position. Panics if name was
// already defined.
func (b *Builder) Label(name string) *Builder {
	if _, ok := b.labels[name]; ok {
		panic(fmt.Sprintf("asm: label %q already defined", name))
	}
	b.labels[name] = len(b.out)
	return b
}

// Assemble resolves every pending forward jump against the label table
// and returns the final word stream. Panics if a label was referenced but
// never defined.
func (b *Builder) Assemble() []uint16 {
	out := make([]uint16, len(b.out))
	copy(out, b.out)

	for _, p := range b.pending {
		labelAddr, ok := b.labels[p.label]
		if !ok {
			panic(fmt.Sprintf("asm: unresolved label %q", p.label))
		}
		rel := relativeOffset(labelAddr, p.instPos)
		out[p.instPos] |= uint16(rel) & 0x7f
	}

	return out
}

// relativeOffset computes the signed displacement a forward/backward jump
// macro must add to PC, relative to the instruction that reads PC (the
// jmp macro's second word, one past its first: PC still holds the
// executing instruction's own address, not a pre-incremented one).
func relativeOffset(labelAddr, instAddr int) int8 {
	offset := labelAddr - instAddr - 1
	if offset < -128 || offset > 127 {
		panic(fmt.Sprintf("asm: label is too far away (max 127 instructions), got %d", offset))
	}
	return int8(offset)
}

// --- control ---

func (b *Builder) Ctrl(op isa.CtrlOp) *Builder { return b.push(isa.CtlInst(op)) }
func (b *Builder) Halt() *Builder              { return b.Ctrl(isa.Halt) }
func (b *Builder) Setc() *Builder              { return b.Ctrl(isa.Setc) }
func (b *Builder) Clrc() *Builder              { return b.Ctrl(isa.Clrc) }
func (b *Builder) Setz() *Builder              { return b.Ctrl(isa.Setz) }
func (b *Builder) Clrz() *Builder              { return b.Ctrl(isa.Clrz) }

// --- set ---

// Set loads an 11-bit immediate directly. Panics if val does not fit;
// use Setw for wider values.
func (b *Builder) Set(dst isa.Reg, val uint16) *Builder {
	if val > isa.MaxSetImm {
		panic(fmt.Sprintf("asm: set: %#x is too large to fit in 11 bits, use Setw instead", val))
	}
	return b.push(isa.SetInst(dst, val))
}

// Nop emits `set z, 0`, a true no-op since writes to Z are dropped.
func (b *Builder) Nop() *Builder { return b.Set(isa.Z, 0) }

// Setw loads a full 16-bit word into dst using tmp as scratch. Values
// up to 0x3ff are emitted as a single Set; wider values (including
// 0x400..0x7ff, which Set alone would accept) are built as
// (high byte << 8) | low byte.
func (b *Builder) Setw(dst isa.Reg, word uint16, tmp isa.Reg) *Builder {
	if dst == tmp {
		panic("asm: setw: dst == tmp")
	}
	if word <= 0x3ff {
		return b.Set(dst, word)
	}

	high := (word >> 8) & 0xff
	low := word & 0xff

	b.Set(dst, high)
	b.Set(tmp, 8)
	b.Shl(dst, dst, tmp)
	if low == 0 {
		b.Or(dst, dst, isa.Z)
	} else {
		b.Set(tmp, low)
		b.Or(dst, dst, tmp)
	}

	return b
}

// InitSp loads SP with the top of the stack region.
func (b *Builder) InitSp() *Builder {
	return b.Setw(isa.SP, isa.StackPointerTop, isa.TMP)
}

// --- mem ---

// Store writes src to RAM[addr+offset].
func (b *Builder) Store(src, addr isa.Reg, offset uint8) *Builder {
	return b.push(isa.MemInst(src, addr, false, offset))
}

// Load reads RAM[addr+offset] into dst.
func (b *Builder) Load(dst, addr isa.Reg, offset uint8) *Builder {
	return b.push(isa.MemInst(dst, addr, true, offset))
}

// --- alu ---

func (b *Builder) Alu(dst, src1, src2 isa.Reg, op isa.AluOp) *Builder {
	return b.push(isa.AluInst(dst, src1, src2, op))
}

func arithOpFor(cond isa.Cond, base isa.AluOp) isa.AluOp {
	return isa.ArithOp(cond, base)
}

func (b *Builder) AddIf(dst, src1, src2 isa.Reg, cond isa.Cond) *Builder {
	return b.Alu(dst, src1, src2, arithOpFor(cond, isa.Add))
}
func (b *Builder) Add(dst, src1, src2 isa.Reg) *Builder {
	return b.AddIf(dst, src1, src2, isa.Always)
}

func (b *Builder) AdcIf(dst, src1, src2 isa.Reg, cond isa.Cond) *Builder {
	return b.Alu(dst, src1, src2, arithOpFor(cond, isa.Adc))
}
func (b *Builder) Adc(dst, src1, src2 isa.Reg) *Builder {
	return b.AdcIf(dst, src1, src2, isa.Always)
}

func (b *Builder) SubIf(dst, src1, src2 isa.Reg, cond isa.Cond) *Builder {
	return b.Alu(dst, src1, src2, arithOpFor(cond, isa.Sub))
}
func (b *Builder) Sub(dst, src1, src2 isa.Reg) *Builder {
	return b.SubIf(dst, src1, src2, isa.Always)
}

func (b *Builder) SbcIf(dst, src1, src2 isa.Reg, cond isa.Cond) *Builder {
	return b.Alu(dst, src1, src2, arithOpFor(cond, isa.Sbc))
}
func (b *Builder) Sbc(dst, src1, src2 isa.Reg) *Builder {
	return b.SbcIf(dst, src1, src2, isa.Always)
}

func (b *Builder) And(dst, src1, src2 isa.Reg) *Builder  { return b.Alu(dst, src1, src2, isa.And) }
func (b *Builder) Nand(dst, src1, src2 isa.Reg) *Builder { return b.Alu(dst, src1, src2, isa.Nand) }
func (b *Builder) Or(dst, src1, src2 isa.Reg) *Builder   { return b.Alu(dst, src1, src2, isa.Or) }
func (b *Builder) Xor(dst, src1, src2 isa.Reg) *Builder  { return b.Alu(dst, src1, src2, isa.Xor) }
func (b *Builder) Shl(dst, src1, src2 isa.Reg) *Builder  { return b.Alu(dst, src1, src2, isa.Shl) }
func (b *Builder) Shr(dst, src1, src2 isa.Reg) *Builder  { return b.Alu(dst, src1, src2, isa.Shr) }

// Not computes the bitwise complement of src into dst (nand src,src).
func (b *Builder) Not(dst, src isa.Reg) *Builder { return b.Alu(dst, src, src, isa.Nand) }

// Cmp updates the flags as if subtracting src2 from src1, discarding the
// result (destination is the zero register).
func (b *Builder) Cmp(src1, src2 isa.Reg) *Builder { return b.Sub(isa.Z, src1, src2) }

// UpdateFlags sets Zero/Carry as a plain Add of src against Z would.
func (b *Builder) UpdateFlags(src isa.Reg) *Builder { return b.Add(isa.Z, isa.Z, src) }

func (b *Builder) Inc(dst isa.Reg) *Builder           { return b.Alu(dst, dst, isa.Z, isa.Inc) }
func (b *Builder) IncInto(dst, src isa.Reg) *Builder  { return b.Alu(dst, src, isa.Z, isa.Inc) }
func (b *Builder) Dec(dst isa.Reg) *Builder           { return b.Alu(dst, dst, isa.Z, isa.Dec) }
func (b *Builder) DecInto(dst, src isa.Reg) *Builder  { return b.Alu(dst, src, isa.Z, isa.Dec) }

// MovIf conditionally copies src into dst (add_if dst, src, z, cond).
func (b *Builder) MovIf(dst, src isa.Reg, cond isa.Cond) *Builder {
	return b.AddIf(dst, src, isa.Z, cond)
}

// Mov unconditionally copies src into dst.
func (b *Builder) Mov(dst, src isa.Reg) *Builder { return b.MovIf(dst, src, isa.Always) }

// --- jumps ---

func (b *Builder) jmpIfRel(rel int8, cond isa.Cond) *Builder {
	mag := rel
	if mag < 0 {
		mag = -mag
	}
	b.Set(isa.TMP, uint16(mag))
	if rel < 0 {
		return b.SubIf(isa.PC, isa.PC, isa.TMP, cond)
	}
	return b.AddIf(isa.PC, isa.PC, isa.TMP, cond)
}

// JmpIf jumps to label when cond holds. A backward reference (label
// already defined) computes its exact signed offset immediately; a
// forward reference emits a zero placeholder and defers to Assemble,
// which can only ever patch in a non-negative magnitude using AddIf
// (the sign of a not-yet-seen label is unknown at emission time, and
// the placeholder always assumes forward/non-negative).
func (b *Builder) JmpIf(label string, cond isa.Cond) *Builder {
	instPos := len(b.out)

	if labelAddr, ok := b.labels[label]; ok {
		return b.jmpIfRel(relativeOffset(labelAddr, instPos), cond)
	}

	b.pending = append(b.pending, pendingJump{label: label, instPos: instPos})
	return b.jmpIfRel(0, cond)
}

func (b *Builder) Jmp(label string) *Builder   { return b.JmpIf(label, isa.Always) }
func (b *Builder) Jmpz(label string) *Builder  { return b.JmpIf(label, isa.IfZero) }
func (b *Builder) Jmpnz(label string) *Builder { return b.JmpIf(label, isa.IfNotZero) }
func (b *Builder) Jmpc(label string) *Builder  { return b.JmpIf(label, isa.IfCarry) }
func (b *Builder) Jmpnc(label string) *Builder { return b.JmpIf(label, isa.IfNotCarry) }

// JmpIfPos jumps if the preceding comparison found src1 >= src2 (no borrow, Carry set).
func (b *Builder) JmpIfPos(label string) *Builder { return b.JmpIf(label, isa.IfCarry) }

// JmpIfNeg jumps if the preceding comparison found src1 < src2 (borrow, Carry clear).
func (b *Builder) JmpIfNeg(label string) *Builder { return b.JmpIf(label, isa.IfNotCarry) }

func (b *Builder) JumpIfEq(label string) *Builder { return b.JmpIf(label, isa.IfZero) }
func (b *Builder) JumpIfNe(label string) *Builder { return b.JmpIf(label, isa.IfNotZero) }

// --- stack / calls ---

// Push stores val at RAM[SP] and increments SP.
func (b *Builder) Push(val isa.Reg) *Builder {
	b.Store(val, isa.SP, 0)
	return b.Inc(isa.SP)
}

// Pop decrements SP and loads RAM[SP] into dst.
func (b *Builder) Pop(dst isa.Reg) *Builder {
	b.Dec(isa.SP)
	return b.Load(dst, isa.SP, 0)
}

// Ret pops the return address into PC.
func (b *Builder) Ret() *Builder { return b.Pop(isa.PC) }

// callReturnOffset is the instruction count between "add tmp,tmp,pc" and
// the instruction following the jmp that completes Call: add(1) +
// push(store+inc=2) + jmp(set+add_if/sub_if=2) = 5.
const callReturnOffset = 5

// Call pushes the return address and jumps to procedureLabel. The return
// address is computed relative to the "add tmp,tmp,pc" instruction
// itself, which still holds the call site's address when it executes.
func (b *Builder) Call(procedureLabel string) *Builder {
	b.Set(isa.TMP, callReturnOffset)
	b.Add(isa.TMP, isa.TMP, isa.PC)
	b.Push(isa.TMP)
	return b.Jmp(procedureLabel)
}
