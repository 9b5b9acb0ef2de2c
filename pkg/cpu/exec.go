package cpu

import (
	"fmt"

	"github.com/nathsou/cpu16/pkg/isa"
)

// Step fetches and executes one instruction. It returns the decoded
// instruction for tracing, and panics if the machine is already halted
// (callers that loop via Run/RunWithFuel check Halted first and never
// reach this).
func (m *Machine) Step() isa.Inst {
	if m.Halted {
		panic("cpu: Step called on a halted machine")
	}

	pc := m.Regs[isa.PC]
	word := m.ROM[pc]
	in := isa.Decode(word)
	m.nextPC = pc + 1

	switch in.Kind {
	case isa.KindCtl:
		m.execCtl(in.CtrlOp)
	case isa.KindSet:
		m.SetReg(in.Dst, in.Val)
	case isa.KindMem:
		m.execMem(in)
	case isa.KindAlu:
		m.execAlu(in)
	default:
		panic(fmt.Sprintf("cpu: undecodable instruction kind %d", in.Kind))
	}

	m.Regs[isa.PC] = m.nextPC
	return in
}

func (m *Machine) execCtl(op isa.CtrlOp) {
	switch op {
	case isa.Halt:
		m.Halted = true
	case isa.Setz:
		m.Zero = true
	case isa.Clrz:
		m.Zero = false
	case isa.Setc:
		m.Carry = true
	case isa.Clrc:
		m.Carry = false
	default:
		panic(fmt.Sprintf("cpu: unhandled control op %v", op))
	}
}

func (m *Machine) execMem(in isa.Inst) {
	addr := m.Regs[in.Addr] + uint16(in.Offset)
	if in.Load {
		m.SetReg(in.Dst, m.RAM[addr])
	} else {
		m.RAM[addr] = m.Regs[in.Dst]
	}
}

// execAlu dispatches the 5-bit ALU opcode: arithmetic ops (op<20) are
// gated by an independent predicate and may carry-chain, Inc/Dec always
// commit, and the bitwise/shift family always commits and never touches
// carry.
func (m *Machine) execAlu(in isa.Inst) {
	a := m.Regs[in.Src1]
	b := m.Regs[in.Src2]

	switch {
	case in.Op.IsArithmetic():
		m.execArith(in.Dst, a, b, in.Op)
	case in.Op == isa.Inc:
		sum, carry := add16(a, 1, false)
		m.SetReg(in.Dst, sum)
		m.Zero = zeroFlag(sum)
		m.Carry = carry
	case in.Op == isa.Dec:
		diff, carry := sub16(a, 1, true)
		m.SetReg(in.Dst, diff)
		m.Zero = zeroFlag(diff)
		m.Carry = carry
	case in.Op == isa.And:
		m.SetReg(in.Dst, a&b)
	case in.Op == isa.Nand:
		m.SetReg(in.Dst, ^(a & b))
	case in.Op == isa.Or:
		m.SetReg(in.Dst, a|b)
	case in.Op == isa.Xor:
		m.SetReg(in.Dst, a^b)
	case in.Op == isa.Shl:
		m.SetReg(in.Dst, a<<(b&0xf))
	case in.Op == isa.Shr:
		m.SetReg(in.Dst, a>>(b&0xf))
	default:
		panic(fmt.Sprintf("cpu: unhandled ALU op %v", in.Op))
	}
}

// execArith implements the predicate-gated add/sub/adc/sbc family. The
// predicate is checked against the flags as they stand BEFORE this
// instruction; when it fails, dst/flags are left untouched (the op is a
// no-op, not a commit of a stale result). Subtract reuses the adder via
// a+^b+carryIn, so carryIn=true for a plain Sub (no borrow requested),
// carryIn=false for a plain Add, and carryIn=Carry for Adc/Sbc.
func (m *Machine) execArith(dst isa.Reg, a, b uint16, op isa.AluOp) {
	if !m.condHolds(op.Cond()) {
		return
	}

	carryIn := op.IncludesCarry() && m.Carry
	if !op.IncludesCarry() {
		carryIn = false
	}

	var result uint16
	var carryOut bool
	if op.IsSub() {
		if !op.IncludesCarry() {
			carryIn = true
		}
		result, carryOut = sub16(a, b, carryIn)
	} else {
		result, carryOut = add16(a, b, carryIn)
	}

	m.SetReg(dst, result)
	m.Zero = zeroFlag(result)
	m.Carry = carryOut
}

func (m *Machine) condHolds(c isa.Cond) bool {
	switch c {
	case isa.IfZero:
		return m.Zero
	case isa.IfNotZero:
		return !m.Zero
	case isa.IfCarry:
		return m.Carry
	case isa.IfNotCarry:
		return !m.Carry
	default:
		return true
	}
}
