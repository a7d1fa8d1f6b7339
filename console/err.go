package console

import (
	"errors"

	"golc3/translate"
)

var f = translate.From

var (
	// Console errors
	ErrNotTerminal = errors.New(f("not a terminal"))
)
