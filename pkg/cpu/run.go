package cpu

// Run steps the machine until it halts. It has no fuel limit: a program
// that never executes Halt runs forever, matching the reference
// interpreter's unbounded run mode.
func (m *Machine) Run() {
	for !m.Halted {
		m.Step()
	}
}

// RunWithFuel steps the machine at most fuel times, stopping early if it
// halts. It returns the number of steps actually executed. A fuel value
// of 0 or less executes nothing. This is the bounded counterpart to Run,
// used by callers (demos, benchmarks, tests) that must not hang on a
// runaway program.
func (m *Machine) RunWithFuel(fuel int) (steps int, halted bool) {
	for steps = 0; steps < fuel && !m.Halted; steps++ {
		m.Step()
	}
	return steps, m.Halted
}

// Trace steps the machine until it halts or fuel is exhausted, invoking
// yield with a Snapshot after every instruction. yield returning false
// stops the trace early, before fuel is exhausted, without necessarily
// halting the machine.
func (m *Machine) Trace(fuel int, yield func(Snapshot) bool) {
	for i := 0; i < fuel && !m.Halted; i++ {
		m.Step()
		if !yield(m.State()) {
			return
		}
	}
}
