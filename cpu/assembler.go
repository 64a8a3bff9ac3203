// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	labelRegexp = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*):`)
	parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// pending is an instruction line awaiting label resolution.
type pending struct {
	LineNo int    // Source line number.
	Line   string // Source text, comment and labels removed.
}

// Assembler is a two pass assembler for the SimpleCPU.
//
// On top of the plain one-instruction-per-line syntax it supports:
//   - `; comment` to the end of the line.
//   - `NAME:` labels, naming the index of the next instruction.
//   - `.equ NAME VALUE` equates.
//   - `$(expr)` compile-time Starlark expressions over numeric equates
//     and labels.
//
// Every word of an instruction that names an equate or label is replaced by
// its value, so jump targets may be written as labels.
type Assembler struct {
	Verbose bool         // If set, verbosely logs the assembler actions.
	Logger  *slog.Logger // Verbose log destination, slog.Default() if nil.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to instruction indexes.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() *slog.Logger {
	if asm.Logger != nil {
		return asm.Logger
	}

	return slog.Default()
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			// Ignore non-integer equates. They may be immediates
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, index := range asm.Label {
		pred[key] = starlark.MakeInt(index)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// scanLine strips comments and labels from a source line, and handles
// directives. Returns the remaining instruction text, if any.
func (asm *Assembler) scanLine(text string, index int) (line string, err error) {
	line = strings.TrimSpace(strings.Split(text, ";")[0])

	for {
		match := labelRegexp.FindStringSubmatch(line)
		if match == nil {
			break
		}
		label := match[1]
		if _, ok := ParseOpcode(label); ok {
			err = ErrLabelInvalid
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = index
		line = strings.TrimSpace(line[len(match[0]):])
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		line = ""
		return
	}

	if !strings.HasPrefix(words[0], ".") {
		return
	}

	// .equ CONST VALUE
	switch words[0] {
	case ".equ":
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
	default:
		err = ErrDirectiveInvalid
		return
	}

	line = ""
	return
}

// parseLine expands a pending instruction into its final text.
func (asm *Assembler) parseLine(line string, lineno int) (text string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
			continue
		}
		index, ok := asm.Label[word]
		if ok {
			words[n] = strconv.Itoa(index)
		}
	}

	text = strings.Join(words, " ")

	inst, err := Decode(text)
	if err != nil {
		return
	}

	limit := 1
	if inst.Opcode.Operand() != OPERAND_NONE {
		limit = 2
	}
	if len(words) > limit {
		err = ErrOperandExtra
		return
	}

	if inst.Opcode.Operand() == OPERAND_TARGET {
		_, err = inst.Target()
		if err != nil {
			return
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	// First pass: collect labels and equates.
	var lines []pending
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().Debug("asm: scan", "line", lineno, "text", line)
		}

		var text string
		text, err = asm.scanLine(line, len(lines))
		if err != nil {
			return
		}
		if len(text) == 0 {
			continue
		}
		lines = append(lines, pending{LineNo: lineno, Line: text})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Second pass: expand, substitute, and check each instruction.
	prog = &Program{}
	for _, pend := range lines {
		line = pend.Line
		lineno = pend.LineNo

		var text string
		text, err = asm.parseLine(pend.Line, pend.LineNo)
		if err != nil {
			return
		}

		if asm.Verbose {
			asm.logger().Debug("asm: emit", "index", len(prog.Lines), "line", lineno, "text", text)
		}

		prog.Lines = append(prog.Lines, Line{LineNo: lineno, Text: text})
	}

	return
}
