package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathsou/cpu16/pkg/bench"
	"github.com/nathsou/cpu16/pkg/cpu"
	"github.com/nathsou/cpu16/pkg/demo"
	"github.com/nathsou/cpu16/pkg/isa"
	"github.com/nathsou/cpu16/pkg/rom"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cpu16",
		Short: "cpu16 toolchain — assemble, run, disassemble, and dump ROMs for the toy 16-bit CPU",
	}

	// demo command
	var fuel int
	var trace bool

	demoCmd := &cobra.Command{
		Use:   "demo <name>",
		Short: "Assemble and run one of the built-in demo programs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := demo.ByName(args[0])
			if err != nil {
				return namedDemoError(err)
			}

			m := cpu.From(words, 0)

			var steps int
			var halted bool
			if trace {
				m.Trace(fuel, func(s cpu.Snapshot) bool {
					fmt.Printf("%04x: r1=%04x r2=%04x r3=%04x r4=%04x tmp=%04x sp=%04x z=%v c=%v\n",
						s.PC, s.R1, s.R2, s.R3, s.R4, s.Tmp, s.SP, s.Zero, s.Carry)
					steps++
					return true
				})
				halted = m.Halted
			} else {
				steps, halted = m.RunWithFuel(fuel)
			}

			s := m.State()
			fmt.Printf("\nsteps: %d, halted: %v\n", steps, halted)
			fmt.Printf("r1=%04x r2=%04x r3=%04x r4=%04x tmp=%04x sp=%04x pc=%04x zero=%v carry=%v\n",
				s.R1, s.R2, s.R3, s.R4, s.Tmp, s.SP, s.PC, s.Zero, s.Carry)

			if !halted {
				return fmt.Errorf("fuel exhausted after %d steps", steps)
			}
			return nil
		},
	}
	demoCmd.Flags().IntVar(&fuel, "fuel", 10_000_000, "Maximum instructions to execute before giving up")
	demoCmd.Flags().BoolVar(&trace, "trace", false, "Print a line per executed instruction")

	// disasm command
	disasmCmd := &cobra.Command{
		Use:   "disasm <name>",
		Short: "Assemble a demo program and print its disassembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := demo.ByName(args[0])
			if err != nil {
				return namedDemoError(err)
			}
			for i, w := range words {
				fmt.Printf("%04x: %s\n", i, isa.Decode(w))
			}
			return nil
		},
	}

	// dump-rom command
	var outPath string

	dumpRomCmd := &cobra.Command{
		Use:   "dump-rom <name>",
		Short: "Write a demo program's 64Ki-word ROM image to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}
			words, err := demo.ByName(args[0])
			if err != nil {
				return namedDemoError(err)
			}
			image := rom.Dump(words, 0)
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := f.Write(image[:]); err != nil {
				return fmt.Errorf("writing rom image: %w", err)
			}
			fmt.Printf("wrote %d bytes to %s\n", len(image), outPath)
			return nil
		},
	}
	dumpRomCmd.Flags().StringVar(&outPath, "out", "", "Output file path")

	// bench command
	var numWorkers int

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run every demo program concurrently and report pass/fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := bench.NewPool(numWorkers)
			results := pool.RunAll()
			fmt.Print(bench.Summary(results))

			ran, passed := pool.Stats()
			fmt.Printf("\n%d/%d programs halted successfully\n", passed, ran)
			if passed != ran {
				return fmt.Errorf("%d program(s) did not halt", ran-passed)
			}
			return nil
		},
	}
	benchCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")

	rootCmd.AddCommand(demoCmd, disasmCmd, dumpRomCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func namedDemoError(err error) error {
	return fmt.Errorf("%w (available: %s)", err, strings.Join(demo.Names(), ", "))
}
