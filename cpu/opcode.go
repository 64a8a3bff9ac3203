package cpu

import (
	"strconv"
	"strings"
)

// Opcode is an instruction operation.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_LOADA = Opcode(0)  // LOADA
	OP_LOADB = Opcode(1)  // LOADB
	OP_LOADC = Opcode(2)  // LOADC
	OP_CONA  = Opcode(3)  // CONA
	OP_CONB  = Opcode(4)  // CONB
	OP_CONC  = Opcode(5)  // CONC
	OP_SAVEA = Opcode(6)  // SAVEA
	OP_SAVEB = Opcode(7)  // SAVEB
	OP_SAVEC = Opcode(8)  // SAVEC
	OP_ADD   = Opcode(9)  // ADD
	OP_SUB   = Opcode(10) // SUB
	OP_MUL   = Opcode(11) // MUL
	OP_DIV   = Opcode(12) // DIV
	OP_MOD   = Opcode(13) // MOD
	OP_COM   = Opcode(14) // COM
	OP_JUMP  = Opcode(15) // JUMP
	OP_JEQ   = Opcode(16) // JEQ
	OP_JNEQ  = Opcode(17) // JNEQ
	OP_JG    = Opcode(18) // JG
	OP_JGE   = Opcode(19) // JGE
	OP_JL    = Opcode(20) // JL
	OP_JLE   = Opcode(21) // JLE
	OP_STOP  = Opcode(22) // STOP
)

// Operand is the shape of the operand an opcode takes.
type Operand int

const (
	OPERAND_NONE      = Operand(0) // No operand.
	OPERAND_ADDRESS   = Operand(1) // Memory address token.
	OPERAND_IMMEDIATE = Operand(2) // Literal text.
	OPERAND_TARGET    = Operand(3) // Absolute program line.
)

// opcodeMap maps opcode mnemonics.
var opcodeMap = map[string]Opcode{
	"LOADA": OP_LOADA,
	"LOADB": OP_LOADB,
	"LOADC": OP_LOADC,
	"CONA":  OP_CONA,
	"CONB":  OP_CONB,
	"CONC":  OP_CONC,
	"SAVEA": OP_SAVEA,
	"SAVEB": OP_SAVEB,
	"SAVEC": OP_SAVEC,
	"ADD":   OP_ADD,
	"SUB":   OP_SUB,
	"MUL":   OP_MUL,
	"DIV":   OP_DIV,
	"MOD":   OP_MOD,
	"COM":   OP_COM,
	"JUMP":  OP_JUMP,
	"JEQ":   OP_JEQ,
	"JNEQ":  OP_JNEQ,
	"JG":    OP_JG,
	"JGE":   OP_JGE,
	"JL":    OP_JL,
	"JLE":   OP_JLE,
	"STOP":  OP_STOP,
}

// ParseOpcode looks up an opcode by mnemonic.
func ParseOpcode(word string) (op Opcode, ok bool) {
	op, ok = opcodeMap[word]
	return
}

// Operand returns the operand shape of the opcode.
func (op Opcode) Operand() Operand {
	switch op {
	case OP_LOADA, OP_LOADB, OP_LOADC, OP_SAVEA, OP_SAVEB, OP_SAVEC:
		return OPERAND_ADDRESS
	case OP_CONA, OP_CONB, OP_CONC:
		return OPERAND_IMMEDIATE
	case OP_JUMP, OP_JEQ, OP_JNEQ, OP_JG, OP_JGE, OP_JL, OP_JLE:
		return OPERAND_TARGET
	}

	return OPERAND_NONE
}

// Register returns the register a load, constant, or save opcode acts on.
func (op Opcode) Register() (reg Register, ok bool) {
	switch op {
	case OP_LOADA, OP_CONA, OP_SAVEA:
		return REG_A, true
	case OP_LOADB, OP_CONB, OP_SAVEB:
		return REG_B, true
	case OP_LOADC, OP_CONC, OP_SAVEC:
		return REG_C, true
	}

	return
}

// Taken reports if a jump opcode transfers control for the given TEST flag.
func (op Opcode) Taken(test Test) bool {
	switch op {
	case OP_JUMP:
		return true
	case OP_JEQ:
		return test == TEST_EQ
	case OP_JNEQ:
		return test != TEST_EQ
	case OP_JG:
		return test == TEST_GT
	case OP_JGE:
		return test == TEST_GT || test == TEST_EQ
	case OP_JL:
		return test == TEST_LT
	case OP_JLE:
		return test == TEST_LT || test == TEST_EQ
	}

	return false
}

// Instruction is a decoded instruction line.
type Instruction struct {
	Opcode  Opcode
	Operand string // Operand token, empty for OPERAND_NONE.
}

// Decode splits an instruction line on whitespace and decodes the opcode
// and its operand. Tokens past the operand are ignored.
func Decode(line string) (inst Instruction, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		err = ErrUnsupportedInstruction("")
		return
	}

	op, ok := ParseOpcode(words[0])
	if !ok {
		err = ErrUnsupportedInstruction(words[0])
		return
	}

	inst.Opcode = op
	if op.Operand() != OPERAND_NONE {
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		inst.Operand = words[1]
	}

	return
}

// Target parses the operand of a jump as an absolute program line.
func (inst Instruction) Target() (pc int, err error) {
	pc, err = strconv.Atoi(inst.Operand)
	if err != nil {
		err = ErrParseNumber(inst.Operand)
		return
	}

	return
}

func (inst Instruction) String() string {
	if inst.Opcode.Operand() == OPERAND_NONE {
		return inst.Opcode.String()
	}

	return inst.Opcode.String() + " " + inst.Operand
}
