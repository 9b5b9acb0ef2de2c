// Package demo holds the cpu16 example programs from spec.md §8 plus a
// couple of supplemented ones, each as a function returning its
// assembled word stream ready to load into a cpu.Machine.
package demo

import (
	"fmt"
	"sort"

	"github.com/nathsou/cpu16/pkg/asm"
	"github.com/nathsou/cpu16/pkg/isa"
)

// Program is a named, assembled demo.
type Program struct {
	Name  string
	Words []uint16
}

// Add computes 0x23 + 0x17 into r1.
func Add() []uint16 {
	return asm.New().
		Set(isa.R1, 0x23).
		Set(isa.R2, 0x17).
		Add(isa.R1, isa.R1, isa.R2).
		Halt().
		Assemble()
}

// Sub computes 0x23 - 0x17 into r1.
func Sub() []uint16 {
	return asm.New().
		Set(isa.R1, 0x23).
		Set(isa.R2, 0x17).
		Sub(isa.R1, isa.R1, isa.R2).
		Halt().
		Assemble()
}

// Muli multiplies 0x23 by the compile-time constant 0x17 into r1.
func Muli() []uint16 {
	return asm.New().
		Set(isa.R2, 0x23).
		Muli(isa.R1, isa.R2, 0x17).
		Halt().
		Assemble()
}

// Count decrements r1 from 0xa to 0 in a loop.
func Count() []uint16 {
	return asm.New().
		Set(isa.R1, 0xa).
		Set(isa.R2, 0).
		Label("loop").
		Dec(isa.R1).
		Jmpnz("loop").
		Halt().
		Assemble()
}

// Add32 adds two 32-bit values, split across register pairs (r1:r2) and
// (r3:r4), leaving the 32-bit sum in (r1:r2).
func Add32() []uint16 {
	return asm.New().
		Setw(isa.R1, 0x1234, isa.TMP).
		Setw(isa.R2, 0xbaba, isa.TMP).
		Setw(isa.R3, 0x4321, isa.TMP).
		Setw(isa.R4, 0x5678, isa.TMP).
		Add32(isa.R1, isa.R2, isa.R3, isa.R4).
		Halt().
		Assemble()
}

// Division computes 1621/17 into r1 via a called "div" procedure.
func Division() []uint16 {
	b := asm.New()
	b.InitSp().Set(isa.R2, 1621).Set(isa.R3, 17).Call("div").Halt()
	b.DefDivision("div", isa.R1, isa.R2, isa.R3)
	return b.Assemble()
}

// Euler1 sums every multiple of 3 or 5 below 1000 into the 32-bit pair
// (r1:r2), the textbook Project Euler #1.
func Euler1() []uint16 {
	const (
		nAddr     = 0
		sumHiAddr = 1
		sumLoAddr = 2
	)

	b := asm.New()

	b.InitSp().
		Store(isa.Z, isa.Z, sumLoAddr).
		Store(isa.Z, isa.Z, sumHiAddr).
		Setw(isa.TMP, 1000, isa.R1).
		Dec(isa.TMP).
		Store(isa.TMP, isa.Z, nAddr).
		Label("loop").
		Load(isa.R1, isa.Z, nAddr).
		Set(isa.R3, 3).
		Call("div").
		UpdateFlags(isa.R1).
		Jmpz("is_divisible").
		Load(isa.R1, isa.Z, nAddr).
		Set(isa.R3, 5).
		Call("div").
		UpdateFlags(isa.R1).
		Jmpz("is_divisible").
		Label("loop_back").
		Load(isa.R1, isa.Z, nAddr).
		Dec(isa.R1).
		Store(isa.R1, isa.Z, nAddr).
		Jmpnz("loop").
		Jmp("end").
		Label("is_divisible").
		Load(isa.R1, isa.Z, nAddr).
		Load(isa.R2, isa.Z, sumHiAddr).
		Load(isa.R3, isa.Z, sumLoAddr).
		Add32(isa.R2, isa.R3, isa.Z, isa.R1).
		Store(isa.R2, isa.Z, sumHiAddr).
		Store(isa.R3, isa.Z, sumLoAddr).
		Jmp("loop_back").
		Label("end").
		Load(isa.R1, isa.Z, sumHiAddr).
		Load(isa.R2, isa.Z, sumLoAddr).
		Halt()

	b.DefDivision("div", isa.R2, isa.R1, isa.R3)

	return b.Assemble()
}

// Itoa converts 0xbaba to decimal ASCII, writing it starting at RAM
// address 0x20.
func Itoa() []uint16 {
	b := asm.New()
	b.InitSp().
		Setw(isa.R1, 0xbaba, isa.TMP).
		Set(isa.R2, 0x20).
		Call("itoa").
		Halt()
	b.DefItoa()
	return b.Assemble()
}

// PowerOfTwo tests whether 0x80 is a power of two, leaving 1/0 in r1.
func PowerOfTwo() []uint16 {
	b := asm.New()
	b.InitSp().Setw(isa.R1, 0x80, isa.TMP).Call("is_power_of_two").Halt()
	b.DefIsPowerOfTwo("is_power_of_two", isa.R1)
	return b.Assemble()
}

// Greeting converts a number to text and prints it through the
// conceptual output port, exercising Itoa and Print end to end.
func Greeting() []uint16 {
	b := asm.New()
	b.InitSp().
		Setw(isa.R1, 0xbaba, isa.TMP).
		Set(isa.R2, 0x20).
		Call("itoa").
		Set(isa.R1, 0x20).
		Set(isa.R2, 0).
		Call("print").
		Halt()
	b.DefItoa()
	b.DefPrint()
	return b.Assemble()
}

var registry = map[string]func() []uint16{
	"add":          Add,
	"sub":          Sub,
	"muli":         Muli,
	"count":        Count,
	"add32":        Add32,
	"division":     Division,
	"euler1":       Euler1,
	"itoa":         Itoa,
	"power_of_two": PowerOfTwo,
	"greeting":     Greeting,
}

// ByName assembles the demo registered under name, or returns an error
// if no such demo exists.
func ByName(name string) ([]uint16, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("demo: unknown program %q", name)
	}
	return build(), nil
}

// Names returns every registered demo name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered demo, assembled, sorted by name.
func All() []Program {
	names := Names()
	out := make([]Program, 0, len(names))
	for _, name := range names {
		out = append(out, Program{Name: name, Words: registry[name]()})
	}
	return out
}
