package cpu

import (
	"bufio"
	"io"
	"strings"
)

// Line is a program line with its source location.
type Line struct {
	LineNo int    // 1-based line number in the source text.
	Text   string // Instruction text.
}

// Program is a cleaned program image: no empty or whitespace-only lines.
type Program struct {
	Lines []Line
}

// ReadProgram reads instruction text, one instruction per line, dropping
// empty and whitespace-only lines. Remaining lines are kept verbatim.
func ReadProgram(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	prog = &Program{}

	var lineno int
	for scanner.Scan() {
		lineno += 1
		text := scanner.Text()
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}
		prog.Lines = append(prog.Lines, Line{LineNo: lineno, Text: text})
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
		return
	}

	return
}

// Text returns the instruction text of the program, ready for Machine.Load.
func (prog *Program) Text() (text []string) {
	for _, line := range prog.Lines {
		text = append(text, line.Text)
	}

	return
}

// LineNo returns the source line number of the instruction at pc, or 0 if
// pc is outside of the program.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.Lines) {
		return 0
	}

	return prog.Lines[pc].LineNo
}
