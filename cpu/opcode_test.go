package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		inst Instruction
		err  error
	}){
		{"STOP", Instruction{Opcode: OP_STOP}, nil},
		{"ADD extra", Instruction{Opcode: OP_ADD}, nil},
		{"LOADA X", Instruction{Opcode: OP_LOADA, Operand: "X"}, nil},
		{"CONB  -12 ", Instruction{Opcode: OP_CONB, Operand: "-12"}, nil},
		{"JLE\t4", Instruction{Opcode: OP_JLE, Operand: "4"}, nil},
		{"SAVEC", Instruction{}, ErrOperandMissing},
		{"", Instruction{}, ErrUnsupportedInstruction("")},
		{"   ", Instruction{}, ErrUnsupportedInstruction("")},
		{"NOP 1", Instruction{}, ErrUnsupportedInstruction("NOP")},
	}

	for _, entry := range table {
		inst, err := Decode(entry.line)
		if entry.err == nil {
			assert.NoError(err, entry.line)
		} else {
			assert.Equal(entry.err, err, entry.line)
		}
		if err == nil {
			assert.Equal(entry.inst, inst, entry.line)
		}
	}
}

func TestOpcodeNames(t *testing.T) {
	assert := assert.New(t)

	for name, op := range opcodeMap {
		assert.Equal(name, op.String())
		parsed, ok := ParseOpcode(name)
		assert.True(ok, name)
		assert.Equal(op, parsed)
	}
	assert.Equal(int(OP_STOP)+1, len(opcodeMap))

	_, ok := ParseOpcode("HALT")
	assert.False(ok)
}

func TestOpcodeOperand(t *testing.T) {
	assert := assert.New(t)

	table := map[Opcode]Operand{
		OP_LOADB: OPERAND_ADDRESS,
		OP_SAVEA: OPERAND_ADDRESS,
		OP_CONC:  OPERAND_IMMEDIATE,
		OP_JNEQ:  OPERAND_TARGET,
		OP_JUMP:  OPERAND_TARGET,
		OP_MOD:   OPERAND_NONE,
		OP_COM:   OPERAND_NONE,
		OP_STOP:  OPERAND_NONE,
	}

	for op, operand := range table {
		assert.Equal(operand, op.Operand(), op.String())
	}
}

func TestOpcodeTaken(t *testing.T) {
	assert := assert.New(t)

	tests := []Test{TEST_LT, TEST_EQ, TEST_GT}
	table := map[Opcode][3]bool{
		OP_JUMP: {true, true, true},
		OP_JEQ:  {false, true, false},
		OP_JNEQ: {true, false, true},
		OP_JG:   {false, false, true},
		OP_JGE:  {false, true, true},
		OP_JL:   {true, false, false},
		OP_JLE:  {true, true, false},
		OP_ADD:  {false, false, false},
	}

	for op, taken := range table {
		for n, test := range tests {
			assert.Equal(taken[n], op.Taken(test), op.String()+" "+test.String())
		}
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	inst, err := Decode("  JUMP   3  ")
	assert.NoError(err)
	assert.Equal("JUMP 3", inst.String())

	inst, err = Decode("MUL")
	assert.NoError(err)
	assert.Equal("MUL", inst.String())
}
