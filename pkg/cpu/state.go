// Package cpu is the cpu16 interpreter: register file, flags, ROM/RAM,
// and the single-step decoder that executes one instruction per tick.
package cpu

import "github.com/nathsou/cpu16/pkg/isa"

const memSize = 0x10000

// Machine holds the full architectural state of one cpu16 core: the
// register file, the zero/carry flags, ROM (instruction fetch only), RAM
// (load/store only), and the halted flag. A Machine is single-threaded and
// exclusively owned by its caller; nothing about it is safe to share
// across goroutines without external synchronization.
type Machine struct {
	Regs   [isa.RegCount]uint16
	Zero   bool
	Carry  bool
	Halted bool
	ROM    [memSize]uint16
	RAM    [memSize]uint16

	nextPC uint16 // latched PC write, committed at the end of Step
}

// New creates a Machine with rom as its full ROM image (already placed at
// the desired load address) and startPC as the initial program counter.
func New(rom [memSize]uint16, startPC uint16) *Machine {
	m := &Machine{ROM: rom}
	m.Regs[isa.PC] = startPC
	m.nextPC = startPC
	return m
}

// From builds a Machine by copying prog into a fresh ROM image starting at
// startPC, leaving the rest of ROM zeroed. This is the common case: the
// caller assembled a program and wants to run it without hand-building the
// full 64Ki-word image.
func From(prog []uint16, startPC uint16) *Machine {
	var rom [memSize]uint16
	copy(rom[startPC:], prog)
	return New(rom, startPC)
}

// Reg reads a register directly. Reads never need gating: Z always holds
// 0 because writes to it are dropped by SetReg.
func (m *Machine) Reg(r isa.Reg) uint16 {
	return m.Regs[r]
}

// SetReg is the write gate every instruction funnels register writes
// through: writes to Z are silently dropped, writes to PC latch into
// nextPC rather than the live PC (so a jump takes effect on the next
// fetch, never the current one), and all other writes land directly in
// Regs.
func (m *Machine) SetReg(dst isa.Reg, val uint16) {
	switch dst {
	case isa.Z:
		// the zero register is a write sink
	case isa.PC:
		m.nextPC = val
	default:
		m.Regs[dst] = val
	}
}

// Snapshot is a point-in-time view of machine state, used for tracing and
// for the testable scenarios in spec.md §8.
type Snapshot struct {
	R1, R2, R3, R4 uint16
	Tmp, SP, PC    uint16
	Zero, Carry    bool
	Halt           bool
}

// State captures the current Snapshot.
func (m *Machine) State() Snapshot {
	return Snapshot{
		R1:    m.Regs[isa.R1],
		R2:    m.Regs[isa.R2],
		R3:    m.Regs[isa.R3],
		R4:    m.Regs[isa.R4],
		Tmp:   m.Regs[isa.TMP],
		SP:    m.Regs[isa.SP],
		PC:    m.Regs[isa.PC],
		Zero:  m.Zero,
		Carry: m.Carry,
		Halt:  m.Halted,
	}
}
