package cpu

import (
	"testing"

	"github.com/nathsou/cpu16/pkg/isa"
)

func assembleRun(t *testing.T, words []uint16) *Machine {
	t.Helper()
	m := From(words, 0)
	for !m.Halted {
		m.Step()
	}
	return m
}

func TestHaltStopsExecution(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if !m.Halted {
		t.Fatal("expected machine to be halted")
	}
}

func TestZeroRegisterWritesDropped(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.Z, 0x123)),
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if m.Reg(isa.Z) != 0 {
		t.Fatalf("write to Z should be dropped, got %#x", m.Reg(isa.Z))
	}
}

func TestDecToZeroSetsZero(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.R1, 1)),
		isa.Encode(isa.AluInst(isa.R2, isa.R1, isa.R1, isa.Dec)), // r2 = r1-1 = 0
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if got := m.Reg(isa.R2); got != 0 {
		t.Fatalf("r2 = %#x, want 0", got)
	}
	if !m.Zero {
		t.Fatal("expected Zero flag set")
	}
}

func TestSubNoBorrowSetsCarry(t *testing.T) {
	// carry convention: subtract sets carry=1 when a >= b (no borrow).
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.R1, 5)),
		isa.Encode(isa.SetInst(isa.R2, 3)),
		isa.Encode(isa.AluInst(isa.R3, isa.R1, isa.R2, isa.Sub)),
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if got := m.Reg(isa.R3); got != 2 {
		t.Fatalf("r3 = %#x, want 2", got)
	}
	if !m.Carry {
		t.Fatal("expected Carry set (no borrow, a >= b)")
	}
}

func TestSubBorrowClearsCarry(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.R1, 3)),
		isa.Encode(isa.SetInst(isa.R2, 5)),
		isa.Encode(isa.AluInst(isa.R3, isa.R1, isa.R2, isa.Sub)),
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if m.Carry {
		t.Fatal("expected Carry clear (borrow occurred, a < b)")
	}
	if got := m.Reg(isa.R3); got != 0xfffe {
		t.Fatalf("r3 = %#x, want 0xfffe (wrapped)", got)
	}
}

func TestPredicateGatedArithSkipsOnFalsePredicate(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.CtlInst(isa.Clrz)), // Zero = false
		isa.Encode(isa.SetInst(isa.R1, 7)),
		isa.Encode(isa.SetInst(isa.R2, 1)),
		// r1 = r1 + r2 only if Zero: predicate false, so this is a no-op
		isa.Encode(isa.AluInst(isa.R1, isa.R1, isa.R2, isa.ArithOp(isa.IfZero, isa.Add))),
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if got := m.Reg(isa.R1); got != 7 {
		t.Fatalf("r1 = %#x, want unchanged 7", got)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.R1, 0x42)),
		isa.Encode(isa.SetInst(isa.R2, 0x10)),
		isa.Encode(isa.MemInst(isa.R1, isa.R2, false, 0)), // store r1 -> RAM[r2+0]
		isa.Encode(isa.MemInst(isa.R3, isa.R2, true, 0)),  // load RAM[r2+0] -> r3
		isa.Encode(isa.CtlInst(isa.Halt)),
	})
	if got := m.Reg(isa.R3); got != 0x42 {
		t.Fatalf("r3 = %#x, want 0x42", got)
	}
	if got := m.RAM[0x10]; got != 0x42 {
		t.Fatalf("RAM[0x10] = %#x, want 0x42", got)
	}
}

func TestBitwiseAndShiftOpsNeverMutateFlags(t *testing.T) {
	ops := []isa.AluOp{isa.And, isa.Nand, isa.Or, isa.Xor, isa.Shl, isa.Shr}

	for _, op := range ops {
		m := assembleRun(t, []uint16{
			isa.Encode(isa.CtlInst(isa.Setz)),  // Zero = true
			isa.Encode(isa.CtlInst(isa.Setc)),  // Carry = true
			isa.Encode(isa.SetInst(isa.R1, 0)), // operands chosen so every op but Nand produces 0,
			isa.Encode(isa.SetInst(isa.R2, 0)), // a result that would normally set Zero
			isa.Encode(isa.AluInst(isa.R3, isa.R1, isa.R2, op)),
			isa.Encode(isa.CtlInst(isa.Halt)),
		})
		if !m.Zero {
			t.Errorf("op %v: Zero flag was mutated, want preserved true", op)
		}
		if !m.Carry {
			t.Errorf("op %v: Carry flag was mutated, want preserved true", op)
		}
	}
}

func TestPCWriteLatchesToNextFetch(t *testing.T) {
	// jump over an instruction that would otherwise clobber r1.
	m := assembleRun(t, []uint16{
		isa.Encode(isa.SetInst(isa.TMP, 3)), // word 0: target pc
		isa.Encode(isa.AluInst(isa.PC, isa.Z, isa.TMP, isa.Add)), // word 1: pc = tmp
		isa.Encode(isa.SetInst(isa.R1, 0x0dd)),                   // word 2: skipped
		isa.Encode(isa.SetInst(isa.R1, 0x0be)),                   // word 3: landed here
		isa.Encode(isa.CtlInst(isa.Halt)),                        // word 4
	})
	if got := m.Reg(isa.R1); got != 0x0be {
		t.Fatalf("r1 = %#x, want 0x0be (jump target)", got)
	}
}
