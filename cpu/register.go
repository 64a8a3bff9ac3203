package cpu

// Register is a general-purpose register index.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // A
	REG_B = Register(1) // B
	REG_C = Register(2) // C
)

// REG_COUNT is the size of the register bank.
const REG_COUNT = 3

// Test is the three-valued result of the last comparison.
type Test int

//go:generate go tool stringer -linecomment -type=Test
const (
	TEST_EQ = Test(0) // =
	TEST_LT = Test(1) // <
	TEST_GT = Test(2) // >
)

// State is the run state of the machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_HALT    = State(0) // halt
	STATE_RUNNING = State(1) // running
)
