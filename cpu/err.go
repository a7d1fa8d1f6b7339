package cpu

import (
	"errors"

	"golc3/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageTruncated = errors.New(f("image truncated"))

	// Assembler errors
	ErrOriginMissing      = errors.New(f(".ORIG missing before code"))
	ErrOriginDuplicate    = errors.New(f(".ORIG duplicated"))
	ErrEquateSyntax       = errors.New(f(".EQU syntax"))
	ErrEquateDuplicate    = errors.New(f(".EQU duplicated"))
	ErrEquateCycle        = errors.New(f(".EQU cycle"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrStringUnterminated = errors.New(f("string unterminated"))
)

// ErrLabelMissing reports a reference to a label that was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax wraps an assembler error with its source location.
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

// ErrParseNumber reports a word that is not a numeric literal.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression reports an invalid $(...) expression.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
