package decode

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrLayoutWidth  = errors.New(f("layout widths must total 25 bits"))
	ErrLayoutFields = errors.New(f("field count does not match layout"))
	ErrFormat       = errors.New(f("format unknown"))
)
