package io

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	// Trace errors
	ErrTraceClosed = errors.New(f("trace closed"))
)
