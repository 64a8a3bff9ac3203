// Package cpu implements the SimpleCPU machine and its assembler.
//
// The machine consists of a program of instruction text lines, a program
// counter (PC), an instruction register (IR), three general-purpose
// registers (A, B, C) holding base-10 integer text, a comparison flag
// (TEST), and a sparse memory addressed by text tokens. Execution is
// driven one fetch, increment, execute cycle at a time through Step, or
// to completion through Run.
//
// Register and memory values are kept as text and only parsed as integers
// by the arithmetic and compare instructions.
//
// The assembler accepts the plain instruction syntax extended with
// comments, labels, equates, and compile-time expression evaluation.
package cpu
