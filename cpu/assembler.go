// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// statement is a single encodable source line, recorded during the sizing
// pass and encoded once every label address is known.
type statement struct {
	LineNo int
	Line   string
	Addr   uint16
	Words  []string
}

// Assembler is a two-pass assembler for the golc3 instruction set.
//
// Source syntax: one statement per line, `;` comments, `NAME:` labels,
// directives .ORIG .FILL .BLKW .STRINGZ .EQU .END, the full opcode set with
// BR[n][z][p] variants, RET, NOP, and the trap aliases GETC OUT PUTS IN
// PUTSP HALT. Operands are registers, numeric literals (#10, x3000, 0b101,
// bare decimal, 'c'), label references, equates, and compile-time $(...)
// expressions; labels are not visible inside $(...), which is evaluated
// before addresses are assigned.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]uint16 // Map of labels to their assigned addresses.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate, visible
// to operands and $(...) expressions of every program parsed afterward.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var _regMap = map[string]RegID{
	"r0": R0, "r1": R1, "r2": R2, "r3": R3,
	"r4": R4, "r5": R5, "r6": R6, "r7": R7,
}

// regOf returns the register named by a word.
func regOf(word string) (id RegID, err error) {
	id, ok := _regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// valueOf returns the numeric value of a simple word: an equate, a
// character literal, or a #decimal, xHEX, or strconv-style literal.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	// Chase equate chains. A chain longer than the equate table can only
	// be a cycle.
	for depth := 0; ; depth++ {
		equ, ok := asm.Equate[word]
		if !ok || equ == word {
			break
		}
		if depth >= len(asm.Equate) {
			err = ErrEquateCycle
			return
		}
		word = equ
	}

	if word == "" {
		err = ErrOperandMissing
		return
	}

	if word[0] == '\'' {
		text, uerr := strconv.Unquote(word)
		if uerr != nil || len(text) != 1 {
			err = ErrParseNumber(word)
			return
		}
		value = int64(text[0])
		return
	}

	switch {
	case word[0] == '#':
		value, err = strconv.ParseInt(word[1:], 10, 17)
	case (word[0] == 'x' || word[0] == 'X') && len(word) > 1:
		value, err = strconv.ParseInt(word[1:], 16, 17)
	default:
		value, err = strconv.ParseInt(word, 0, 17)
	}
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value64, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value64))
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
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = st_int64
	return
}

var _parenRe = regexp.MustCompile(`\$\(([^()]*)\)`)

// parseLine strips comments, evaluates $(...) expressions, and splits a
// source line into words. Quoted strings and character literals survive as
// single words, quotes included.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	var evalErr error
	line = _parenRe.ReplaceAllStringFunc(line, func(match string) string {
		expr := match[2 : len(match)-1]
		value, perr := asm.parenEval(expr)
		if perr != nil && evalErr == nil {
			evalErr = perr
		}
		return fmt.Sprintf("#%d", value)
	})
	if evalErr != nil {
		err = evalErr
		return
	}

	var cur strings.Builder
	flush := func() {
		if cur.Len() != 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ';':
			flush()
			return
		case r == ',' || unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote == '"' {
		err = ErrStringUnterminated
		return
	}
	flush()

	return
}

var _labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// size returns the number of memory words a statement occupies.
func (asm *Assembler) size(words []string) (count uint16, err error) {
	switch strings.ToUpper(words[0]) {
	case ".BLKW":
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		var value int64
		value, err = asm.valueOf(words[1])
		if err == nil && (value < 0 || value > MEMORY_SIZE) {
			err = ErrOperandRange
		}
		count = uint16(value)
	case ".STRINGZ":
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		var text string
		text, err = strconv.Unquote(words[1])
		if err != nil {
			err = ErrStringUnterminated
			return
		}
		count = uint16(len(text)) + 1
	default:
		// Every instruction and .FILL is one word.
		count = 1
	}

	return
}

// Parse assembles a source stream into a loadable image.
func (asm *Assembler) Parse(r io.Reader) (im *Image, err error) {
	asm.Label = map[string]uint16{}
	asm.Equate = map[string]string{}
	for key, value := range asm.predefine {
		asm.Equate[key] = value
	}

	var stmts []statement
	var origin uint16
	var addr uint16
	haveOrigin := false

	lineno := 0
	scanner := bufio.NewScanner(r)
scan:
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		words, perr := asm.parseLine(line, lineno)
		if perr != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: perr}
			return
		}

		// Leading labels.
		for len(words) != 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if !_labelRe.MatchString(label) {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrOpcodeInvalid}
				return
			}
			if _, dup := asm.Label[label]; dup {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrLabelDuplicate}
				return
			}
			asm.Label[label] = addr
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		switch strings.ToUpper(words[0]) {
		case ".ORIG":
			var value int64
			if haveOrigin {
				err = ErrOriginDuplicate
			} else if len(words) < 2 {
				err = ErrOperandMissing
			} else if value, err = asm.valueOf(words[1]); err == nil {
				origin = uint16(value)
				addr = origin
				haveOrigin = true
			}
			if err != nil {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
			continue
		case ".EQU":
			if len(words) != 3 {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrEquateSyntax}
				return
			}
			if _, dup := asm.Equate[words[1]]; dup {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrEquateDuplicate}
				return
			}
			asm.Equate[words[1]] = words[2]
			continue
		case ".END":
			break scan
		}

		if !haveOrigin {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrOriginMissing}
			return
		}

		count, serr := asm.size(words)
		if serr != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: serr}
			return
		}

		stmts = append(stmts, statement{
			LineNo: lineno,
			Line:   line,
			Addr:   addr,
			Words:  words,
		})
		addr += count
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if !haveOrigin {
		err = ErrOriginMissing
		return
	}

	im = &Image{Origin: origin, Words: make([]uint16, addr-origin)}

	for _, stmt := range stmts {
		var words []uint16
		words, err = asm.encode(&stmt)
		if err != nil {
			err = ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: err}
			im = nil
			return
		}
		if asm.Verbose {
			log.Printf("asm: %04x: % 04x ; %v", stmt.Addr, words, stmt.Line)
		}
		copy(im.Words[stmt.Addr-origin:], words)
	}

	return
}

// fitsSigned reports whether value fits in a signed field of the given width.
func fitsSigned(value int64, bits int) bool {
	return value >= -(int64(1)<<(bits-1)) && value < int64(1)<<(bits-1)
}

// operand returns a label's address or a numeric value.
func (asm *Assembler) operand(word string) (value int64, err error) {
	if target, ok := asm.Label[word]; ok {
		value = int64(target)
		return
	}

	value, err = asm.valueOf(word)
	if _, isEqu := asm.Equate[word]; err != nil && !isEqu &&
		word != "" && word[0] != '#' && _labelRe.MatchString(word) {
		err = ErrLabelMissing(word)
	}
	return
}

// pcOffset encodes a PC-relative offset field of the given width. A label
// reference is converted to its distance from the incremented PC; a numeric
// value is the offset itself.
func (asm *Assembler) pcOffset(word string, next uint16, bits int) (field uint16, err error) {
	var delta int64
	if target, ok := asm.Label[word]; ok {
		delta = int64(target) - int64(next)
	} else {
		delta, err = asm.valueOf(word)
		if err != nil {
			if _, isEqu := asm.Equate[word]; !isEqu &&
				word != "" && word[0] != '#' && _labelRe.MatchString(word) {
				err = ErrLabelMissing(word)
			}
			return
		}
	}

	if !fitsSigned(delta, bits) {
		err = ErrOperandRange
		return
	}
	field = uint16(delta) & (1<<bits - 1)

	return
}

// args checks a statement's operand count.
func args(words []string, want int) (err error) {
	switch {
	case len(words)-1 < want:
		err = ErrOperandMissing
	case len(words)-1 > want:
		err = ErrOpcodeExtraArgs
	}
	return
}

// encode translates one statement to its memory words.
func (asm *Assembler) encode(stmt *statement) (words []uint16, err error) {
	mnemonic := strings.ToUpper(stmt.Words[0])
	next := stmt.Addr + 1

	// BR[n][z][p] variants collapse to OP_BR with test bits.
	if strings.HasPrefix(mnemonic, "BR") {
		var nzp uint16
		for _, r := range mnemonic[2:] {
			switch r {
			case 'N':
				nzp |= uint16(FLAG_NEG)
			case 'Z':
				nzp |= uint16(FLAG_ZRO)
			case 'P':
				nzp |= uint16(FLAG_POS)
			default:
				err = ErrOpcodeInvalid
				return
			}
		}
		if nzp == 0 {
			nzp = uint16(FLAG_NEG | FLAG_ZRO | FLAG_POS)
		}
		if err = args(stmt.Words, 1); err != nil {
			return
		}
		var off uint16
		if off, err = asm.pcOffset(stmt.Words[1], next, 9); err != nil {
			return
		}
		words = []uint16{uint16(OP_BR)<<12 | nzp<<9 | off}
		return
	}

	switch mnemonic {
	case ".FILL":
		if err = args(stmt.Words, 1); err != nil {
			return
		}
		var value int64
		if value, err = asm.operand(stmt.Words[1]); err != nil {
			return
		}
		if value < -0x8000 || value > 0xFFFF {
			err = ErrOperandRange
			return
		}
		words = []uint16{uint16(value)}

	case ".BLKW":
		var count uint16
		if count, err = asm.size(stmt.Words); err != nil {
			return
		}
		words = make([]uint16, count)

	case ".STRINGZ":
		var text string
		if text, err = strconv.Unquote(stmt.Words[1]); err != nil {
			err = ErrStringUnterminated
			return
		}
		// One word per UTF-8 byte, matching the sizing pass.
		for _, b := range []byte(text) {
			words = append(words, uint16(b))
		}
		words = append(words, 0)

	case "ADD", "AND":
		op := OP_ADD
		if mnemonic == "AND" {
			op = OP_AND
		}
		if err = args(stmt.Words, 3); err != nil {
			return
		}
		var dr, sr1 RegID
		if dr, err = regOf(stmt.Words[1]); err != nil {
			return
		}
		if sr1, err = regOf(stmt.Words[2]); err != nil {
			return
		}
		word := uint16(op)<<12 | uint16(dr)<<9 | uint16(sr1)<<6
		if sr2, rerr := regOf(stmt.Words[3]); rerr == nil {
			word |= uint16(sr2)
		} else {
			var imm int64
			if imm, err = asm.valueOf(stmt.Words[3]); err != nil {
				return
			}
			if !fitsSigned(imm, 5) {
				err = ErrOperandRange
				return
			}
			word |= 1<<5 | uint16(imm)&0x1F
		}
		words = []uint16{word}

	case "NOT":
		if err = args(stmt.Words, 2); err != nil {
			return
		}
		var dr, sr RegID
		if dr, err = regOf(stmt.Words[1]); err != nil {
			return
		}
		if sr, err = regOf(stmt.Words[2]); err != nil {
			return
		}
		words = []uint16{uint16(OP_NOT)<<12 | uint16(dr)<<9 | uint16(sr)<<6 | 0x3F}

	case "JMP", "JSRR":
		op := uint16(OP_JMP) << 12
		if mnemonic == "JSRR" {
			op = uint16(OP_JSR) << 12
		}
		if err = args(stmt.Words, 1); err != nil {
			return
		}
		var base RegID
		if base, err = regOf(stmt.Words[1]); err != nil {
			return
		}
		words = []uint16{op | uint16(base)<<6}

	case "RET":
		if err = args(stmt.Words, 0); err != nil {
			return
		}
		words = []uint16{uint16(OP_JMP)<<12 | uint16(R7)<<6}

	case "JSR":
		if err = args(stmt.Words, 1); err != nil {
			return
		}
		var off uint16
		if off, err = asm.pcOffset(stmt.Words[1], next, 11); err != nil {
			return
		}
		words = []uint16{uint16(OP_JSR)<<12 | 1<<11 | off}

	case "LD", "LDI", "LEA", "ST", "STI":
		var op Opcode
		switch mnemonic {
		case "LD":
			op = OP_LD
		case "LDI":
			op = OP_LDI
		case "LEA":
			op = OP_LEA
		case "ST":
			op = OP_ST
		case "STI":
			op = OP_STI
		}
		if err = args(stmt.Words, 2); err != nil {
			return
		}
		var reg RegID
		if reg, err = regOf(stmt.Words[1]); err != nil {
			return
		}
		var off uint16
		if off, err = asm.pcOffset(stmt.Words[2], next, 9); err != nil {
			return
		}
		words = []uint16{uint16(op)<<12 | uint16(reg)<<9 | off}

	case "LDR", "STR":
		op := OP_LDR
		if mnemonic == "STR" {
			op = OP_STR
		}
		if err = args(stmt.Words, 3); err != nil {
			return
		}
		var reg, base RegID
		if reg, err = regOf(stmt.Words[1]); err != nil {
			return
		}
		if base, err = regOf(stmt.Words[2]); err != nil {
			return
		}
		var off int64
		if off, err = asm.valueOf(stmt.Words[3]); err != nil {
			return
		}
		if !fitsSigned(off, 6) {
			err = ErrOperandRange
			return
		}
		words = []uint16{uint16(op)<<12 | uint16(reg)<<9 | uint16(base)<<6 | uint16(off)&0x3F}

	case "TRAP":
		if err = args(stmt.Words, 1); err != nil {
			return
		}
		var vector int64
		if vector, err = asm.valueOf(stmt.Words[1]); err != nil {
			return
		}
		if vector < 0 || vector > 0xFF {
			err = ErrOperandRange
			return
		}
		words = []uint16{uint16(OP_TRAP)<<12 | uint16(vector)}

	case "GETC", "OUT", "PUTS", "IN", "PUTSP", "HALT":
		if err = args(stmt.Words, 0); err != nil {
			return
		}
		vector := map[string]uint16{
			"GETC": TRAP_GETC, "OUT": TRAP_OUT, "PUTS": TRAP_PUTS,
			"IN": TRAP_IN, "PUTSP": TRAP_PUTSP, "HALT": TRAP_HALT,
		}[mnemonic]
		words = []uint16{uint16(OP_TRAP)<<12 | vector}

	case "NOP", "NOOP":
		if err = args(stmt.Words, 0); err != nil {
			return
		}
		words = []uint16{uint16(OP_NOOP) << 12}

	default:
		err = ErrOpcodeInvalid
	}

	return
}
