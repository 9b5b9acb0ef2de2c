// Package bench runs every demo program concurrently and reports
// pass/fail and step counts, the same worker-pool shape the teacher used
// to distribute superoptimizer search tasks, repurposed here to drive
// cpu.Machine runs instead.
package bench

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nathsou/cpu16/pkg/cpu"
	"github.com/nathsou/cpu16/pkg/demo"
)

// DefaultFuel bounds how many steps a single demo run may take before
// it's declared hung rather than halted.
const DefaultFuel = 10_000_000

// Result is one program's outcome.
type Result struct {
	Name   string
	Steps  int
	Halted bool
	State  cpu.Snapshot
}

// Pool runs demo programs across a fixed number of worker goroutines,
// tallying pass/fail counts with atomics the way the teacher's
// WorkerPool tallies checked/found.
type Pool struct {
	Workers int
	Fuel    int

	ran    atomic.Int64
	passed atomic.Int64
}

// NewPool builds a Pool with workers goroutines; workers<=0 defaults to
// runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{Workers: workers, Fuel: DefaultFuel}
}

// Stats returns how many programs ran and how many halted successfully
// within their fuel budget.
func (p *Pool) Stats() (ran, passed int64) {
	return p.ran.Load(), p.passed.Load()
}

// RunAll assembles and executes every registered demo program
// concurrently on Workers goroutines that drain a shared queue, and
// returns one Result per program sorted by name.
func (p *Pool) RunAll() []Result {
	programs := demo.All()

	tasks := make(chan demo.Program, len(programs))
	for _, prog := range programs {
		tasks <- prog
	}
	close(tasks)

	results := make([]Result, len(programs))
	resultIdx := make(map[string]int, len(programs))
	for i, prog := range programs {
		resultIdx[prog.Name] = i
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for prog := range tasks {
				r := p.runOne(prog)
				mu.Lock()
				results[resultIdx[prog.Name]] = r
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return results
}

func (p *Pool) runOne(prog demo.Program) Result {
	m := cpu.From(prog.Words, 0)
	steps, halted := m.RunWithFuel(p.Fuel)

	p.ran.Add(1)
	if halted {
		p.passed.Add(1)
	}

	return Result{
		Name:   prog.Name,
		Steps:  steps,
		Halted: halted,
		State:  m.State(),
	}
}

// Summary formats a one-line-per-program report, suitable for the
// `cpu16 bench` subcommand.
func Summary(results []Result) string {
	out := ""
	for _, r := range results {
		status := "ok"
		if !r.Halted {
			status = "FUEL EXHAUSTED"
		}
		out += fmt.Sprintf("%-14s %-16s %d steps\n", r.Name, status, r.Steps)
	}
	return out
}
