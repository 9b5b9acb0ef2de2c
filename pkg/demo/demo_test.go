package demo

import (
	"testing"

	"github.com/nathsou/cpu16/pkg/cpu"
	"github.com/nathsou/cpu16/pkg/isa"
)

const fuel = 10_000_000

func runDemo(t *testing.T, words []uint16) *cpu.Machine {
	t.Helper()
	m := cpu.From(words, 0)
	steps, halted := m.RunWithFuel(fuel)
	if !halted {
		t.Fatalf("program did not halt within %d steps of fuel", steps)
	}
	return m
}

func TestAddScenario(t *testing.T) {
	m := runDemo(t, Add())
	if got := m.Reg(isa.R1); got != 0x23+0x17 {
		t.Fatalf("r1 = %#x, want %#x", got, 0x23+0x17)
	}
}

func TestSubScenario(t *testing.T) {
	m := runDemo(t, Sub())
	if got := m.Reg(isa.R1); got != 0x23-0x17 {
		t.Fatalf("r1 = %#x, want %#x", got, 0x23-0x17)
	}
}

func TestMuliScenario(t *testing.T) {
	m := runDemo(t, Muli())
	if got := m.Reg(isa.R1); got != 0x23*0x17 {
		t.Fatalf("r1 = %#x, want %#x", got, 0x23*0x17)
	}
}

func TestCountScenario(t *testing.T) {
	m := runDemo(t, Count())
	if got := m.Reg(isa.R1); got != 0 {
		t.Fatalf("r1 = %#x, want 0", got)
	}
}

func TestAdd32Scenario(t *testing.T) {
	m := runDemo(t, Add32())
	sum := uint32(0x1234baba) + uint32(0x43215678)
	if got := m.Reg(isa.R1); got != uint16(sum>>16) {
		t.Fatalf("r1 (hi) = %#x, want %#x", got, uint16(sum>>16))
	}
	if got := m.Reg(isa.R2); got != uint16(sum) {
		t.Fatalf("r2 (lo) = %#x, want %#x", got, uint16(sum))
	}
}

func TestDivisionScenario(t *testing.T) {
	m := runDemo(t, Division())
	if got := m.Reg(isa.R1); got != 1621/17 {
		t.Fatalf("r1 = %#x, want %#x", got, 1621/17)
	}
}

func TestEuler1Scenario(t *testing.T) {
	m := runDemo(t, Euler1())
	if got := m.Reg(isa.R1); got != 0x0003 {
		t.Fatalf("r1 (sum hi) = %#x, want 0x0003", got)
	}
	if got := m.Reg(isa.R2); got != 0x8ed0 {
		t.Fatalf("r2 (sum lo) = %#x, want 0x8ed0", got)
	}
}

func TestItoaScenario(t *testing.T) {
	m := runDemo(t, Itoa())
	want := "47802\x00"
	for i, ch := range want {
		if got := m.RAM[0x20+i]; got != uint16(ch) {
			t.Fatalf("ram[%#x] = %#x, want %#x", 0x20+i, got, ch)
		}
	}
}

func TestPowerOfTwoScenario(t *testing.T) {
	m := runDemo(t, PowerOfTwo())
	if got := m.Reg(isa.R1); got != 1 {
		t.Fatalf("r1 = %#x, want 1", got)
	}
}

func TestGreetingRunsToCompletion(t *testing.T) {
	m := runDemo(t, Greeting())
	if !m.Halted {
		t.Fatal("expected greeting demo to halt")
	}
}

func TestByNameAndNames(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected at least one registered demo")
	}
	for _, name := range names {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown demo name")
	}
}
