// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log/slog"
	"math/big"
	"slices"

	"github.com/jemendoz/WebCPU/internal"
)

// Machine is the simulation context for the SimpleCPU.
//
// All state is mutated only through Reset, Load, WipeProgram,
// LoadInstruction, Increment, Execute, Step and Run.
type Machine struct {
	Verbose bool         // Set to enable verbose logging.
	Logger  *slog.Logger // Verbose log destination, slog.Default() if nil.

	program  []string         // Program text, one instruction per entry.
	pc       int              // Index of the next instruction to fetch.
	ir       string           // Most recently fetched instruction text.
	register [REG_COUNT]Value // Register bank.
	test     Test             // Comparison flag.
	memory   Memory           // Data memory.
	state    State            // Run state.

	ticks int // Executed instructions counter.
}

// NewMachine creates a halted machine with an empty program.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Reset()

	return
}

func (m *Machine) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}

	return slog.Default()
}

// Reset the machine state.
// - Drops the program.
// - Sets PC to 0 and clears the IR.
// - Sets A, B and C to "0", and TEST to "=".
// - Clears memory.
// - Halts.
func (m *Machine) Reset() {
	if m.Verbose {
		m.logger().Debug("cpu: reset")
	}

	m.program = nil
	m.pc = 0
	m.ir = ""
	for n := range m.register {
		m.register[n] = "0"
	}
	m.test = TEST_EQ
	m.memory.Reset()
	m.state = STATE_HALT
	m.ticks = 0
}

// Load resets the machine, installs a program, and sets it running.
// Blank lines must already have been removed from the program.
func (m *Machine) Load(program []string) {
	m.Reset()

	m.program = slices.Clone(program)
	m.state = STATE_RUNNING

	if m.Verbose {
		m.logger().Debug("cpu: load", "lines", len(m.program))
	}
}

// WipeProgram drops the program, leaving all other state untouched.
func (m *Machine) WipeProgram() {
	m.program = nil
}

// Pc returns the program counter.
func (m *Machine) Pc() int {
	return m.pc
}

// Ir returns the instruction register.
func (m *Machine) Ir() string {
	return m.ir
}

// State returns the run state.
func (m *Machine) State() State {
	return m.state
}

// Register returns the value of a general-purpose register.
func (m *Machine) Register(reg Register) Value {
	return m.register[reg]
}

// Test returns the comparison flag.
func (m *Machine) Test() Test {
	return m.test
}

// Peek reads a memory address.
func (m *Machine) Peek(address string) (value Value, ok bool) {
	return m.memory.Get(address)
}

// Memory iterates over the written memory addresses in address order.
func (m *Machine) Memory() iter.Seq2[string, Value] {
	return m.memory.All()
}

// Program returns a copy of the program text.
func (m *Machine) Program() []string {
	return slices.Clone(m.program)
}

// Len returns the number of program lines.
func (m *Machine) Len() int {
	return len(m.program)
}

// Ticks returns the number of instructions executed since the last reset.
func (m *Machine) Ticks() int {
	return m.ticks
}

// Registers iterates over A, B, C and TEST.
func (m *Machine) Registers() iter.Seq2[string, Value] {
	return func(yield func(name string, value Value) bool) {
		for n, value := range m.register {
			if !yield(Register(n).String(), value) {
				return
			}
		}
		yield("TEST", Value(m.test.String()))
	}
}

func (m *Machine) control() iter.Seq2[string, Value] {
	return func(yield func(name string, value Value) bool) {
		_ = yield("state", Value(m.state.String())) &&
			yield("pc", Value(fmt.Sprintf("%d", m.pc))) &&
			yield("ir", Value(m.ir))
	}
}

func (m *Machine) cells() iter.Seq2[string, Value] {
	return func(yield func(name string, value Value) bool) {
		for address, value := range m.memory.All() {
			if !yield("["+address+"]", value) {
				return
			}
		}
	}
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	for name, value := range internal.Concat2(m.control(), m.Registers(), m.cells()) {
		text += fmt.Sprintf("% 5s: %v\n", name, value)
	}

	return
}

// LoadInstruction fetches the instruction at PC into the IR.
func (m *Machine) LoadInstruction() (err error) {
	if m.pc < 0 || m.pc >= len(m.program) {
		err = ErrOutOfRange{Pc: m.pc, Length: len(m.program)}
		return
	}

	m.ir = m.program[m.pc]

	return
}

// Increment advances PC to the next instruction.
func (m *Machine) Increment() {
	m.pc++
}

// Step performs a fetch, increment, execute cycle when running.
// A taken jump overwrites the incremented PC.
func (m *Machine) Step() (err error) {
	if m.state != STATE_RUNNING {
		return
	}

	err = m.LoadInstruction()
	if err != nil {
		return
	}

	m.Increment()

	err = m.Execute()

	return
}

// Run steps until the machine halts or an instruction fails.
// Run does not return for a program that never reaches STOP and never
// leaves the program. See emulator.Emulator for a bounded driver.
func (m *Machine) Run() (err error) {
	for m.state == STATE_RUNNING {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// Execute decodes and executes the instruction in the IR.
// A failed instruction leaves the machine state as it was.
func (m *Machine) Execute() (err error) {
	pc := m.pc
	defer func() {
		if err != nil {
			err = &ErrInstruction{Pc: pc, Ir: m.ir, Err: err}
		}
	}()

	inst, err := Decode(m.ir)
	if err != nil {
		return
	}

	if m.Verbose {
		m.logger().Debug("cpu: execute", "pc", pc, "ir", m.ir)
	}

	op := inst.Opcode
	switch op {
	case OP_LOADA, OP_LOADB, OP_LOADC:
		reg, _ := op.Register()
		value, ok := m.memory.Get(inst.Operand)
		if !ok {
			err = ErrAddressNotFound(inst.Operand)
			return
		}
		m.register[reg] = value
	case OP_CONA, OP_CONB, OP_CONC:
		reg, _ := op.Register()
		m.register[reg] = Value(inst.Operand)
	case OP_SAVEA, OP_SAVEB, OP_SAVEC:
		reg, _ := op.Register()
		m.memory.Set(inst.Operand, m.register[reg])
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_COM:
		err = m.doAlu(op)
		if err != nil {
			return
		}
	case OP_JUMP, OP_JEQ, OP_JNEQ, OP_JG, OP_JGE, OP_JL, OP_JLE:
		if !op.Taken(m.test) {
			break
		}
		var target int
		target, err = inst.Target()
		if err != nil {
			return
		}
		if target < 0 {
			err = ErrOutOfRange{Pc: target, Length: len(m.program)}
			return
		}
		m.pc = target
	case OP_STOP:
		m.state = STATE_HALT
	default:
		err = ErrUnsupportedInstruction(op.String())
		return
	}

	m.ticks++

	return
}

// doAlu performs an arithmetic or compare operation on A and B.
// Results are written to C, or to TEST for COM.
func (m *Machine) doAlu(op Opcode) (err error) {
	a, err := m.register[REG_A].Int()
	if err != nil {
		return
	}
	b, err := m.register[REG_B].Int()
	if err != nil {
		return
	}

	var output *big.Int
	switch op {
	case OP_ADD:
		output = new(big.Int).Add(a, b)
	case OP_SUB:
		output = new(big.Int).Sub(a, b)
	case OP_MUL:
		output = new(big.Int).Mul(a, b)
	case OP_DIV, OP_MOD:
		if b.Sign() == 0 {
			err = ErrDivisionByZero
			return
		}
		q, r := floorDivMod(a, b)
		output = q
		if op == OP_MOD {
			output = r
		}
	case OP_COM:
		switch a.Cmp(b) {
		case -1:
			m.test = TEST_LT
		case 1:
			m.test = TEST_GT
		default:
			m.test = TEST_EQ
		}
		return
	}

	m.register[REG_C] = MakeValue(output)

	return
}
