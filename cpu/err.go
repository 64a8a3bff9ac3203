package cpu

import (
	"errors"

	"github.com/jemendoz/WebCPU/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOperandExtra   = errors.New(f("excessive arguments"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
)

// ErrOutOfRange is a fetch or jump outside of the program.
type ErrOutOfRange struct {
	Pc     int
	Length int
}

func (err ErrOutOfRange) Error() string {
	return f("pc %d out of range of program length %d", err.Pc, err.Length)
}

func (err ErrOutOfRange) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfRange)
	return
}

// ErrAddressNotFound is a read of a memory address never written.
type ErrAddressNotFound string

func (err ErrAddressNotFound) Error() string {
	return f("memory address '%v' does not exist or is not initialized", string(err))
}

func (err ErrAddressNotFound) Is(target error) (ok bool) {
	_, ok = target.(ErrAddressNotFound)
	return
}

// ErrParseNumber is arithmetic on text that is not a base-10 integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) (ok bool) {
	_, ok = target.(ErrParseNumber)
	return
}

// ErrUnsupportedInstruction names an opcode not in the instruction set.
type ErrUnsupportedInstruction string

func (err ErrUnsupportedInstruction) Error() string {
	return f("instruction (%v) not supported", string(err))
}

func (err ErrUnsupportedInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrUnsupportedInstruction)
	return
}

// ErrInstruction indicates the instruction that failed to execute.
type ErrInstruction struct {
	Pc  int    // Program counter at the time of the failure.
	Ir  string // Instruction register text.
	Err error
}

func (err *ErrInstruction) Error() string {
	return f("pc %d '%v' %v", err.Pc, err.Ir, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
