// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a SimpleCPU machine with a bounded, cancellable
// run loop, and maps execution back to program source lines.
package emulator

import (
	"context"
	"log/slog"

	"github.com/jemendoz/WebCPU/cpu"
)

const (
	DEFAULT_MAX_STEPS = 100_000 // Default instruction budget for Run.
)

// Emulator state. Machine + program listing.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently loaded program listing.

	MaxSteps int          // Instruction budget for Run, unbounded if zero or less.
	Logger   *slog.Logger // Log destination, slog.Default() if nil.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine:  cpu.NewMachine(),
		Program:  &cpu.Program{},
		MaxSteps: DEFAULT_MAX_STEPS,
	}

	return
}

func (emu *Emulator) logger() *slog.Logger {
	if emu.Logger != nil {
		return emu.Logger
	}

	return slog.Default()
}

// sync pushes emulator settings down to the machine.
func (emu *Emulator) sync() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Logger = emu.Logger
}

// Reset the machine and drop the program listing.
func (emu *Emulator) Reset() {
	emu.sync()

	emu.Program = &cpu.Program{}
	emu.Machine.Reset()
}

// Load a program listing and set the machine running.
func (emu *Emulator) Load(prog *cpu.Program) {
	emu.sync()

	emu.Program = prog
	emu.Machine.Load(prog.Text())

	if emu.Verbose {
		emu.logger().Debug("emulator: load", "lines", len(prog.Lines))
	}
}

// WipeProgram drops the program, leaving the machine state untouched.
func (emu *Emulator) WipeProgram() {
	emu.Program = &cpu.Program{}
	emu.Machine.WipeProgram()
}

// LineNo returns the source line number of the next instruction to fetch.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Machine.Pc())
}

// Tick performs a single step of the machine. done is set once the
// machine has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.sync()

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	done = emu.Machine.State() != cpu.STATE_RUNNING

	return
}

// Run ticks the machine until it halts, an instruction fails, the context
// is done, or MaxSteps instructions have been stepped. The context and
// budget are checked between steps.
func (emu *Emulator) Run(ctx context.Context) (steps int, err error) {
	for emu.Machine.State() == cpu.STATE_RUNNING {
		if emu.MaxSteps > 0 && steps >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrStepLimit}
			break
		}

		err = ctx.Err()
		if err != nil {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: err}
			break
		}

		var done bool
		done, err = emu.Tick()
		steps++
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		emu.logger().Debug("emulator: run", "steps", steps, "pc", emu.Machine.Pc(), "error", err)
	}

	return
}
