package asm

import "github.com/nathsou/cpu16/pkg/isa"

// DefDivision defines a callable procedure named name computing
// dst = a/b (and a = a%b as a side effect) via InlineDiv, ending in Ret.
func (b *Builder) DefDivision(name string, dst, a, divisor isa.Reg) *Builder {
	b.Label(name)
	b.InlineDiv(dst, a, divisor, name)
	return b.Ret()
}

// DefIsPowerOfTwo defines a callable procedure named name that tests
// whether n is a power of two by counting its set bits: n is replaced
// with 1 if exactly one bit was set, 0 otherwise.
func (b *Builder) DefIsPowerOfTwo(name string, n isa.Reg) *Builder {
	loopLabel := name + "_loop"
	notPowLabel := name + "_is_not_power_of_two"
	endLabel := name + "_end"

	iter := isa.R3
	count := isa.R4
	if n == iter || n == count {
		panic("asm: DefIsPowerOfTwo: n must not alias r3/r4")
	}

	b.Label(name)
	b.Set(count, 0)
	b.Set(iter, 0)
	b.Label(loopLabel)
	b.Set(isa.TMP, 1)
	b.And(isa.TMP, n, isa.TMP)
	b.Add(count, count, isa.TMP)
	b.Set(isa.TMP, 1)
	b.Shr(n, n, isa.TMP)
	b.Inc(iter)
	b.Set(isa.TMP, 16)
	b.Cmp(iter, isa.TMP)
	b.JumpIfNe(loopLabel)
	b.Set(isa.TMP, 1)
	b.Cmp(count, isa.TMP)
	b.JumpIfNe(notPowLabel)
	b.Set(n, 1)
	b.Jmp(endLabel)
	b.Label(notPowLabel)
	b.Set(n, 0)
	b.Label(endLabel)
	return b.Ret()
}

// RAM addresses scratch space used by the Itoa and Print procedures.
// Neither procedure is reentrant: both treat a small fixed RAM window as
// their local variables, matching the source this was ported from.
const (
	itoaNumAddr    = 100
	itoaStrAddr    = 101
	itoaPowersAddr = 102
	printCharAddr  = 100
)

// DefItoa defines the "itoa" procedure: converts the unsigned value in R1
// to its decimal ASCII representation, writing it null-terminated
// starting at the RAM address in R2.
func (b *Builder) DefItoa() *Builder {
	b.Label("itoa")

	b.Store(isa.R1, isa.Z, itoaNumAddr)
	b.Store(isa.R2, isa.Z, itoaStrAddr)

	b.Set(isa.R1, itoaPowersAddr)
	b.Setw(isa.R2, 10000, isa.TMP)
	b.Store(isa.R2, isa.R1, 0)
	b.Set(isa.R2, 1000)
	b.Store(isa.R2, isa.R1, 1)
	b.Set(isa.R2, 100)
	b.Store(isa.R2, isa.R1, 2)
	b.Set(isa.R2, 10)
	b.Store(isa.R2, isa.R1, 3)
	b.Setw(isa.R2, 1, isa.TMP)
	b.Store(isa.R2, isa.R1, 4)

	b.Load(isa.R1, isa.Z, itoaNumAddr)
	b.Cmp(isa.R1, isa.Z)
	b.JumpIfNe("itoa_not_zero")
	b.Load(isa.R2, isa.Z, itoaStrAddr)
	b.Set(isa.TMP, uint16('0'))
	b.Store(isa.TMP, isa.R2, 0)
	b.Store(isa.Z, isa.R2, 1)
	b.Ret()

	b.Label("itoa_not_zero")
	b.Set(isa.R1, 0) // i
	b.Set(isa.R2, 0) // pos
	b.Label("itoa_main_loop")
	b.Set(isa.TMP, 5)
	b.Cmp(isa.R1, isa.TMP)
	b.JumpIfEq("itoa_end_main_loop")
	b.Set(isa.R4, 0) // count
	b.Label("itoa_while_num_ge_power")
	b.Load(isa.R3, isa.R1, itoaPowersAddr) // power = powersOf10[i]
	b.Load(isa.TMP, isa.Z, itoaNumAddr)
	b.Cmp(isa.TMP, isa.R3)
	b.Jmpnc("itoa_end_while_num_ge_power")
	b.Load(isa.TMP, isa.Z, itoaNumAddr)
	b.Sub(isa.TMP, isa.TMP, isa.R3)
	b.Store(isa.TMP, isa.Z, itoaNumAddr)
	b.Inc(isa.R4)
	b.Jmp("itoa_while_num_ge_power")

	b.Label("itoa_end_while_num_ge_power")
	b.Inc(isa.R1) // i++

	b.UpdateFlags(isa.R2)
	b.Jmpnz("itoa_append_digit")
	b.UpdateFlags(isa.R4)
	b.Jmpnz("itoa_append_digit")
	b.Jmp("itoa_main_loop")

	b.Label("itoa_append_digit")
	b.Load(isa.R3, isa.Z, itoaStrAddr)
	b.Add(isa.R3, isa.R3, isa.R2)
	b.Set(isa.TMP, 0x30)
	b.Add(isa.TMP, isa.TMP, isa.R4)
	b.Store(isa.TMP, isa.R3, 0)
	b.Inc(isa.R2) // pos++
	b.Jmp("itoa_main_loop")

	b.Label("itoa_end_main_loop")

	b.Load(isa.R1, isa.Z, itoaStrAddr)
	b.Add(isa.R1, isa.R1, isa.R2)
	b.Store(isa.Z, isa.R1, 0)

	return b.Ret()
}

// memMappedOutputPort is the conceptual memory-mapped output device's
// address: stores to it are side-effecting writes observed outside the
// machine, modeled here purely as an ordinary RAM cell.
const memMappedOutputPort = 0xffff

// DefPrint defines the "print" procedure: writes the null-terminated
// string at the RAM address in R1 to the memory-mapped output port,
// pairing each character with a tile index starting at R2.
func (b *Builder) DefPrint() *Builder {
	b.Label("print")
	b.Set(isa.R4, 0)
	b.Dec(isa.R4) // r4 = 0xffff

	b.Label("print_loop")
	b.Load(isa.R3, isa.R1, 0)
	b.Store(isa.R3, isa.Z, printCharAddr)
	b.Cmp(isa.R3, isa.Z)
	b.Jmpz("print_end")

	b.Setw(isa.R3, 0x8000, isa.TMP)
	b.Add(isa.R3, isa.R3, isa.R2)
	b.Store(isa.R3, isa.R4, 0)
	b.Inc(isa.R2)

	b.Load(isa.R3, isa.Z, printCharAddr)
	b.Store(isa.R3, isa.R4, 0)
	b.Inc(isa.R1)
	b.Jmp("print_loop")

	b.Label("print_end")
	return b.Ret()
}
